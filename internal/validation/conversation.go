package validation

import "neuraslide/internal/models"

type SendMessageRequest struct {
	Text string `json:"text"`
}

func ValidateSendMessage(req SendMessageRequest) Result {
	var errs []string
	requireString(&errs, "text", req.Text, 1, 1000)
	return result(errs)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func ValidateUpdateStatus(req UpdateStatusRequest) Result {
	var errs []string
	if req.Status == "" {
		errs = append(errs, "status is required")
		return result(errs)
	}
	checkEnum(&errs, "status", req.Status,
		models.ConversationActive, models.ConversationArchived,
		models.ConversationBlocked, models.ConversationPending,
		models.ConversationResolved)
	return result(errs)
}

type UpdateTagsRequest struct {
	Tags []string `json:"tags"`
}

func ValidateUpdateTags(req UpdateTagsRequest) Result {
	var errs []string
	if req.Tags == nil {
		errs = append(errs, "tags is required")
		return result(errs)
	}
	checkTags(&errs, "tags", req.Tags)
	return result(errs)
}
