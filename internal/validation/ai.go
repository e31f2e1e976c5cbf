package validation

type AIGenerateRequest struct {
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

func ValidateAIGenerate(req AIGenerateRequest) Result {
	var errs []string
	requireString(&errs, "message", req.Message, 1, 2000)
	if req.ConversationID != nil && *req.ConversationID <= 0 {
		errs = append(errs, "conversation_id must be a positive id")
	}
	return result(errs)
}

type AIConversationRequest struct {
	Title string `json:"title"`
}

func ValidateAIConversation(req AIConversationRequest) Result {
	var errs []string
	requireString(&errs, "title", req.Title, 1, 200)
	return result(errs)
}

type TrainingDataRequest struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Category *string `json:"category,omitempty"`
}

func ValidateTrainingData(req TrainingDataRequest) Result {
	var errs []string
	requireString(&errs, "question", req.Question, 1, 1000)
	requireString(&errs, "answer", req.Answer, 1, 2000)
	if req.Category != nil {
		checkLength(&errs, "category", *req.Category, 1, 100)
	}
	return result(errs)
}
