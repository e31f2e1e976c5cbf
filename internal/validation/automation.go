package validation

type AutomationRequest struct {
	Name     string   `json:"name"`
	Trigger  string   `json:"trigger"`
	Response string   `json:"response"`
	UseAI    bool     `json:"use_ai"`
	Priority int      `json:"priority"`
	Tags     []string `json:"tags"`
	Active   *bool    `json:"active,omitempty"`
}

func ValidateAutomation(req AutomationRequest) Result {
	var errs []string
	requireString(&errs, "name", req.Name, 1, 100)
	requireString(&errs, "trigger", req.Trigger, 1, 200)
	// An AI automation generates its reply, so the template may be empty.
	if !req.UseAI {
		requireString(&errs, "response", req.Response, 1, 1000)
	} else {
		checkLength(&errs, "response", req.Response, 0, 1000)
	}
	if req.Priority < 0 || req.Priority > 100 {
		errs = append(errs, "priority must be between 0 and 100")
	}
	checkTags(&errs, "tags", req.Tags)
	return result(errs)
}

type AutomationTestRequest struct {
	Message string `json:"message"`
}

func ValidateAutomationTest(req AutomationTestRequest) Result {
	var errs []string
	requireString(&errs, "message", req.Message, 1, 1000)
	return result(errs)
}
