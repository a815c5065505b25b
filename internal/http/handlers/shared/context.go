package shared

import (
	"strings"

	"github.com/laundry-pos/internal/constants"

	"github.com/gin-gonic/gin"
)

// GetActor 读取鉴权中间件写入的操作人，未鉴权时返回空串。
func GetActor(c *gin.Context) string {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return ""
	}
	actor, _ := value.(string)
	return strings.TrimSpace(actor)
}

// ResolveActor 已鉴权时以令牌身份为准，否则使用请求体中的值。
func ResolveActor(c *gin.Context, fallback string) string {
	if actor := GetActor(c); actor != "" {
		return actor
	}
	return strings.TrimSpace(fallback)
}

// GetRoles 读取令牌中的角色列表。
func GetRoles(c *gin.Context) []string {
	value, exists := c.Get(constants.ContextKeyRoles)
	if !exists {
		return nil
	}
	roles, _ := value.([]string)
	return roles
}

// GetRequestID 读取请求ID中间件写入的值。
func GetRequestID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(constants.ContextKeyRequestID))
}
