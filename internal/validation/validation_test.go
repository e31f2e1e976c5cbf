package validation

import (
	"strings"
	"testing"
)

func TestValidateSignup(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		res := ValidateSignup(SignupRequest{Email: "jane@example.com", Password: "Weak1", Name: "Jane"})
		if !res.IsValid {
			t.Fatalf("expected valid, got errors %v", res.Errors)
		}
		if len(res.Errors) != 0 {
			t.Fatalf("valid result must carry no errors, got %v", res.Errors)
		}
	})

	t.Run("missing everything accumulates per field", func(t *testing.T) {
		res := ValidateSignup(SignupRequest{})
		if res.IsValid {
			t.Fatal("expected invalid")
		}
		if len(res.Errors) != 3 {
			t.Fatalf("expected 3 errors (email, password, name), got %v", res.Errors)
		}
		for _, want := range []string{"email is required", "password is required", "name is required"} {
			if !contains(res.Errors, want) {
				t.Errorf("missing error %q in %v", want, res.Errors)
			}
		}
	})

	t.Run("required reported before format for same field", func(t *testing.T) {
		res := ValidateSignup(SignupRequest{Email: "", Password: "Weak1", Name: "Jane"})
		if len(res.Errors) != 1 || res.Errors[0] != "email is required" {
			t.Fatalf("expected only the required error, got %v", res.Errors)
		}
	})

	t.Run("bad email format", func(t *testing.T) {
		res := ValidateSignup(SignupRequest{Email: "not-an-email", Password: "Weak1", Name: "Jane"})
		if res.IsValid {
			t.Fatal("expected invalid")
		}
		if !contains(res.Errors, "email must be a valid email address") {
			t.Fatalf("expected format error, got %v", res.Errors)
		}
	})

	t.Run("password complexity", func(t *testing.T) {
		res := ValidateSignup(SignupRequest{Email: "a@b.co", Password: "weakpassword", Name: "Jane"})
		if res.IsValid {
			t.Fatal("expected invalid")
		}
		if !contains(res.Errors, "password must contain an uppercase letter, a lowercase letter and a digit") {
			t.Fatalf("expected complexity error, got %v", res.Errors)
		}
	})

	t.Run("short and weak password gets both errors", func(t *testing.T) {
		res := ValidateSignup(SignupRequest{Email: "a@b.co", Password: "ab", Name: "Jane"})
		if len(res.Errors) != 2 {
			t.Fatalf("expected length and complexity errors, got %v", res.Errors)
		}
	})
}

func TestValidateAutomation(t *testing.T) {
	valid := AutomationRequest{Name: "Greeting", Trigger: "hello", Response: "Hi there!"}

	t.Run("valid", func(t *testing.T) {
		if res := ValidateAutomation(valid); !res.IsValid {
			t.Fatalf("expected valid, got %v", res.Errors)
		}
	})

	t.Run("response required without AI", func(t *testing.T) {
		req := valid
		req.Response = ""
		res := ValidateAutomation(req)
		if res.IsValid {
			t.Fatal("expected invalid")
		}
	})

	t.Run("response optional with AI", func(t *testing.T) {
		req := valid
		req.Response = ""
		req.UseAI = true
		if res := ValidateAutomation(req); !res.IsValid {
			t.Fatalf("expected valid, got %v", res.Errors)
		}
	})

	t.Run("priority range", func(t *testing.T) {
		req := valid
		req.Priority = 101
		if res := ValidateAutomation(req); res.IsValid {
			t.Fatal("expected invalid priority")
		}
	})
}

func TestValidateProductSearch(t *testing.T) {
	t.Run("query required", func(t *testing.T) {
		res := ValidateProductSearch(ProductSearchRequest{})
		if res.IsValid || !contains(res.Errors, "query is required") {
			t.Fatalf("expected query required, got %v", res.Errors)
		}
	})

	t.Run("limit bounds", func(t *testing.T) {
		res := ValidateProductSearch(ProductSearchRequest{Query: "shoe", Limit: 500})
		if res.IsValid {
			t.Fatal("expected invalid limit")
		}
	})

	t.Run("valid", func(t *testing.T) {
		res := ValidateProductSearch(ProductSearchRequest{Query: "shoe", Limit: 10})
		if !res.IsValid {
			t.Fatalf("expected valid, got %v", res.Errors)
		}
	})
}

func TestValidateBulkImportPrefixesRowErrors(t *testing.T) {
	req := BulkImportRequest{Products: []ProductRequest{
		{Name: "Runner", Category: "shoes", Price: 10, Currency: "USD", Availability: "IN_STOCK"},
		{Name: "Bad", Category: "shoes", Price: -1, Currency: "USD", Availability: "IN_STOCK"},
	}}
	res := ValidateBulkImport(req)
	if res.IsValid {
		t.Fatal("expected invalid")
	}
	for _, e := range res.Errors {
		if !strings.HasPrefix(e, "products[1]: ") {
			t.Fatalf("expected row prefix on %q", e)
		}
	}
}

func TestValidateUpdateStatus(t *testing.T) {
	if res := ValidateUpdateStatus(UpdateStatusRequest{Status: "ARCHIVED"}); !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if res := ValidateUpdateStatus(UpdateStatusRequest{Status: "SLEEPING"}); res.IsValid {
		t.Fatal("expected invalid status")
	}
}

func contains(errs []string, want string) bool {
	for _, e := range errs {
		if e == want {
			return true
		}
	}
	return false
}
