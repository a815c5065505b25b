package admin

import (
	"strings"

	"github.com/laundry-pos/internal/authz"
	handlershared "github.com/laundry-pos/internal/http/handlers/shared"
	"github.com/laundry-pos/internal/http/response"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/repository"
	"github.com/laundry-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthzRoleItem 角色及其策略
type AuthzRoleItem struct {
	Role     string         `json:"role"`
	Policies []authz.Policy `json:"policies"`
}

// AuthzPolicyRequest 授权策略请求
type AuthzPolicyRequest struct {
	Object string `json:"object"`
	Action string `json:"action"`
}

// ListAuthzRoles 列出角色与策略
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	if !h.requireAuthz(c) {
		return
	}
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, response.KindInternal, "failed to list roles", err)
		return
	}
	items := make([]AuthzRoleItem, 0, len(roles))
	for _, role := range roles {
		policies, err := h.AuthzService.GetRolePolicies(role)
		if err != nil {
			respondError(c, response.CodeInternal, response.KindInternal, "failed to list role policies", err)
			return
		}
		items = append(items, AuthzRoleItem{Role: role, Policies: policies})
	}
	response.Success(c, items)
}

// GrantAuthzPolicy 为角色授予策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	role, req, ok := h.bindAuthzPolicy(c)
	if !ok {
		return
	}
	if err := h.AuthzService.GrantRolePolicy(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, response.KindValidation, err.Error(), nil)
		return
	}
	h.recordAuthzAudit(c, service.AuthzAuditActionPolicyGrant, role, req)
	requestLog(c).Infow("authz_policy_granted", "role", role, "object", req.Object, "action", req.Action)
	response.SuccessWithMsg(c, "policy granted", nil)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	role, req, ok := h.bindAuthzPolicy(c)
	if !ok {
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, response.KindValidation, err.Error(), nil)
		return
	}
	h.recordAuthzAudit(c, service.AuthzAuditActionPolicyRevoke, role, req)
	requestLog(c).Infow("authz_policy_revoked", "role", role, "object", req.Object, "action", req.Action)
	response.SuccessWithMsg(c, "policy revoked", nil)
}

// ListAuthzAuditLogs 权限变更审计日志
func (h *Handler) ListAuthzAuditLogs(c *gin.Context) {
	if !h.requireAuthz(c) {
		return
	}
	page, limit := h.pagination(c)
	from, ok := parseDateQuery(c, "from", "startDate")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to", "endDate")
	if !ok {
		return
	}
	logs, total, err := h.AuthzAuditService.List(c.Request.Context(), repository.AuthzAuditLogListFilter{
		Page:     page,
		PageSize: limit,
		Operator: c.Query("operator"),
		Action:   c.Query("action"),
		Role:     c.Query("role"),
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to fetch authz audit logs")
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, limit, total))
}

// recordAuthzAudit 审计写入失败只记日志，不影响策略变更结果
func (h *Handler) recordAuthzAudit(c *gin.Context, action, role string, req AuthzPolicyRequest) {
	if h.AuthzAuditService == nil {
		return
	}
	err := h.AuthzAuditService.Record(c.Request.Context(), service.AuthzAuditRecordInput{
		Operator:  handlershared.GetActor(c),
		Action:    action,
		Role:      role,
		Object:    req.Object,
		Method:    req.Action,
		RequestID: handlershared.GetRequestID(c),
		Detail: models.JSON{
			"role":   role,
			"object": req.Object,
			"action": req.Action,
		},
	})
	if err != nil {
		requestLog(c).Warnw("authz_audit_record_failed", "action", action, "role", role, "error", err)
	}
}

func (h *Handler) bindAuthzPolicy(c *gin.Context) (string, AuthzPolicyRequest, bool) {
	var req AuthzPolicyRequest
	if !h.requireAuthz(c) {
		return "", req, false
	}
	if !bindJSON(c, &req) {
		return "", req, false
	}
	role := strings.TrimSpace(c.Param("role"))
	if role == "" || strings.TrimSpace(req.Object) == "" || strings.TrimSpace(req.Action) == "" {
		respondError(c, response.CodeBadRequest, response.KindValidation, "role, object and action are required", nil)
		return "", req, false
	}
	return role, req, true
}

func (h *Handler) requireAuthz(c *gin.Context) bool {
	if h.AuthzService == nil {
		respondError(c, response.CodeNotFound, response.KindNotFound, "rbac is disabled", nil)
		return false
	}
	return true
}
