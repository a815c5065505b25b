package service

import (
	"context"
	"strings"
	"time"

	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/repository"
)

// 权限审计动作
const (
	AuthzAuditActionPolicyGrant  = "role_policy_grant"
	AuthzAuditActionPolicyRevoke = "role_policy_revoke"
)

// AuthzAuditRecordInput 权限审计记录输入
type AuthzAuditRecordInput struct {
	Operator  string
	Action    string
	Role      string
	Object    string
	Method    string
	RequestID string
	Detail    models.JSON
}

// AuthzAuditService 权限审计服务
type AuthzAuditService struct {
	repo repository.AuthzAuditLogRepository
}

// NewAuthzAuditService 创建权限审计服务
func NewAuthzAuditService(repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{repo: repo}
}

// Record 记录权限审计日志，缺少动作时忽略
func (s *AuthzAuditService) Record(ctx context.Context, input AuthzAuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if strings.TrimSpace(input.Action) == "" {
		return nil
	}

	item := &models.AuthzAuditLog{
		Operator:   strings.TrimSpace(input.Operator),
		Action:     strings.TrimSpace(input.Action),
		Role:       strings.TrimSpace(input.Role),
		Object:     strings.TrimSpace(input.Object),
		Method:     strings.ToUpper(strings.TrimSpace(input.Method)),
		RequestID:  strings.TrimSpace(input.RequestID),
		DetailJSON: input.Detail,
		CreatedAt:  time.Now(),
	}
	return s.repo.WithContext(ctx).Create(item)
}

// List 查询权限审计日志
func (s *AuthzAuditService) List(ctx context.Context, filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	if err := validateRange(filter.DateFrom, filter.DateTo); err != nil {
		return nil, 0, err
	}
	logs, total, err := s.repo.WithContext(ctx).List(filter)
	if err != nil {
		return nil, 0, wrapStore("list authz audit logs", err)
	}
	return logs, total, nil
}
