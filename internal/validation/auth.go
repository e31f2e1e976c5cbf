package validation

type SignupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	TeamName *string `json:"team_name,omitempty"`
}

func ValidateSignup(req SignupRequest) Result {
	var errs []string
	checkEmail(&errs, "email", req.Email)
	checkPassword(&errs, "password", req.Password)
	requireString(&errs, "name", req.Name, 1, 100)
	if req.TeamName != nil {
		checkLength(&errs, "team_name", *req.TeamName, 1, 100)
	}
	return result(errs)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateLogin(req LoginRequest) Result {
	var errs []string
	checkEmail(&errs, "email", req.Email)
	if req.Password == "" {
		errs = append(errs, "password is required")
	}
	return result(errs)
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func ValidateForgotPassword(req ForgotPasswordRequest) Result {
	var errs []string
	checkEmail(&errs, "email", req.Email)
	return result(errs)
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func ValidateResetPassword(req ResetPasswordRequest) Result {
	var errs []string
	if req.Token == "" {
		errs = append(errs, "token is required")
	}
	checkPassword(&errs, "new_password", req.NewPassword)
	return result(errs)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func ValidateChangePassword(req ChangePasswordRequest) Result {
	var errs []string
	if req.CurrentPassword == "" {
		errs = append(errs, "current_password is required")
	}
	checkPassword(&errs, "new_password", req.NewPassword)
	return result(errs)
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

func ValidateVerifyEmail(req VerifyEmailRequest) Result {
	var errs []string
	if req.Token == "" {
		errs = append(errs, "token is required")
	}
	return result(errs)
}
