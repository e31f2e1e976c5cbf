package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/models"
	"neuraslide/internal/service"
)

type fakeAutomationService struct {
	service.AutomationService
	getResult  *models.Automation
	getErr     error
	testResult *service.TestOutcome
}

func (f *fakeAutomationService) Get(id, userID int64) (*models.Automation, error) {
	return f.getResult, f.getErr
}

func (f *fakeAutomationService) Test(id, userID int64, message string) (*service.TestOutcome, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.testResult, nil
}

func automationRouter(svc service.AutomationService) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(CtxUserID, int64(7)) })
	h := NewAutomationHandler(svc, zap.NewNop())
	r.GET("/crystal/automations/:id", h.Get)
	r.POST("/crystal/automations/:id/test", h.Test)
	return r
}

func TestGetAutomationStatuses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"owned", nil, http.StatusOK},
		{"someone else's", apperr.Forbidden("You do not have access to this automation"), http.StatusForbidden},
		{"missing", apperr.NotFound("Automation"), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeAutomationService{getErr: tc.err}
			if tc.err == nil {
				svc.getResult = &models.Automation{ID: 1, UserID: 7, Name: "Greeting"}
			}
			router := automationRouter(svc)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/crystal/automations/1", nil))
			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestGetAutomationBadID(t *testing.T) {
	router := automationRouter(&fakeAutomationService{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/crystal/automations/abc", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-numeric id, got %d", rr.Code)
	}
}

func TestTestAutomationOutcome(t *testing.T) {
	router := automationRouter(&fakeAutomationService{
		testResult: &service.TestOutcome{Triggered: true, Response: "Hi there!"},
	})

	rr := postJSON(t, router, "/crystal/automations/1/test", `{"message":"well hello"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var out struct {
		Data struct {
			Triggered bool   `json:"triggered"`
			Response  string `json:"response"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Data.Triggered || out.Data.Response != "Hi there!" {
		t.Fatalf("unexpected outcome %+v", out.Data)
	}
}
