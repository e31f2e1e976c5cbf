package service

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"neuraslide/internal/models"
	"neuraslide/internal/repository"
	"neuraslide/internal/validation"
)

type fakeAdminRepo struct {
	repository.AdminRepository
	existing *models.PlatformSetting
	upserted *models.PlatformSetting
	actions  []*models.AdminAction
}

func (f *fakeAdminRepo) GetSetting(key string) (*models.PlatformSetting, error) {
	return f.existing, nil
}

func (f *fakeAdminRepo) UpsertSetting(s *models.PlatformSetting) error {
	f.upserted = s
	return nil
}

func (f *fakeAdminRepo) LogAction(action *models.AdminAction) error {
	f.actions = append(f.actions, action)
	return nil
}

func TestUpdateSettingAuditsPreviousValue(t *testing.T) {
	repo := &fakeAdminRepo{existing: &models.PlatformSetting{Key: "max_automations", Value: "10"}}
	svc := NewAdminService(nil, nil, repo, nil, nil, zap.NewNop())

	setting, err := svc.UpdateSetting(3, validation.PlatformSettingRequest{Key: "max_automations", Value: "25"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setting.Value != "25" || setting.UpdatedBy == nil || *setting.UpdatedBy != 3 {
		t.Fatalf("unexpected setting %+v", setting)
	}
	if repo.upserted == nil || repo.upserted.Value != "25" {
		t.Fatalf("setting was not upserted: %+v", repo.upserted)
	}

	if len(repo.actions) != 1 {
		t.Fatalf("expected one audit record, got %d", len(repo.actions))
	}
	action := repo.actions[0]
	if action.Action != "settings.update" || action.AdminID != 3 {
		t.Fatalf("unexpected audit record %+v", action)
	}
	if !strings.Contains(action.Details, "previous=10") {
		t.Fatalf("audit details must carry the replaced value, got %q", action.Details)
	}
}

func TestUpdateSettingAuditsFirstWrite(t *testing.T) {
	repo := &fakeAdminRepo{}
	svc := NewAdminService(nil, nil, repo, nil, nil, zap.NewNop())

	if _, err := svc.UpdateSetting(3, validation.PlatformSettingRequest{Key: "maintenance", Value: "on"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.actions) != 1 {
		t.Fatalf("expected one audit record, got %d", len(repo.actions))
	}
	if !strings.Contains(repo.actions[0].Details, "previous=-") {
		t.Fatalf("first write must record no previous value, got %q", repo.actions[0].Details)
	}
}
