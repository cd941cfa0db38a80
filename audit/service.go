// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	LogSave(ctx context.Context, log SaveLog) error
	QueryLogs(ctx context.Context, from, to time.Time, ruleID string) ([]SaveLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogSave(ctx context.Context, log SaveLog) error {
	return s.repo.LogSave(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, ruleID string) ([]SaveLog, error) {
	return s.repo.QueryLogs(ctx, from, to, ruleID)
}
