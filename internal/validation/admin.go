package validation

import "neuraslide/internal/models"

type AdminUserUpdateRequest struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Plan     *string `json:"plan,omitempty"`
}

func ValidateAdminUserUpdate(req AdminUserUpdateRequest) Result {
	var errs []string
	if req.Role == nil && req.IsActive == nil && req.Plan == nil {
		errs = append(errs, "at least one of role, is_active or plan is required")
		return result(errs)
	}
	if req.Role != nil {
		checkEnum(&errs, "role", *req.Role,
			models.RoleOwner, models.RoleAdmin, models.RoleMember, models.RoleViewer)
	}
	if req.Plan != nil {
		checkEnum(&errs, "plan", *req.Plan, "free", "starter", "pro", "enterprise")
	}
	return result(errs)
}

type BulkUserOperationRequest struct {
	UserIDs   []int64 `json:"user_ids"`
	Operation string  `json:"operation"`
}

func ValidateBulkUserOperation(req BulkUserOperationRequest) Result {
	var errs []string
	if len(req.UserIDs) == 0 {
		errs = append(errs, "user_ids is required")
	} else if len(req.UserIDs) > 100 {
		errs = append(errs, "user_ids must contain at most 100 entries")
	}
	if req.Operation == "" {
		errs = append(errs, "operation is required")
	} else {
		checkEnum(&errs, "operation", req.Operation, "activate", "deactivate", "verify_email")
	}
	return result(errs)
}

type PlatformSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func ValidatePlatformSetting(req PlatformSettingRequest) Result {
	var errs []string
	requireString(&errs, "key", req.Key, 1, 100)
	if req.Value == "" {
		errs = append(errs, "value is required")
	} else {
		checkLength(&errs, "value", req.Value, 1, 2000)
	}
	return result(errs)
}
