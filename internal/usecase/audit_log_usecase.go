package usecase

import (
	"context"
	"encoding/json"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, internalError(ctx, "list audit logs", err)
	}
	return logs, nil
}

// 監査ログのbefore/after用。失敗したら空
func toAuditJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
