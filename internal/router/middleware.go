package router

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/laundry-pos/internal/authz"
	"github.com/laundry-pos/internal/config"
	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/http/response"
	"github.com/laundry-pos/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = constants.ContextKeyRequestID
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-Request-ID",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"actor", c.GetString(constants.ContextKeyActor),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// RequestTimeoutMiddleware 为请求上下文设置截止时间，数据库事务随之取消
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ActorClaims 外部身份服务签发的令牌声明
type ActorClaims struct {
	Actor string   `json:"actor,omitempty"`
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// ActorName 优先使用 actor 声明，其次 sub
func (c *ActorClaims) ActorName() string {
	if actor := strings.TrimSpace(c.Actor); actor != "" {
		return actor
	}
	return strings.TrimSpace(c.Subject)
}

// RoleList 合并 role 与 roles 声明
func (c *ActorClaims) RoleList() []string {
	roles := make([]string, 0, len(c.Roles)+1)
	seen := make(map[string]struct{}, len(c.Roles)+1)
	for _, role := range append([]string{c.Role}, c.Roles...) {
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles
}

// JWTAuthMiddleware 校验 HS256 令牌并写入操作人与角色
func JWTAuthMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	secretKey := strings.TrimSpace(cfg.SecretKey)
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer := strings.TrimSpace(cfg.Issuer); issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(options...)

	return func(c *gin.Context) {
		if secretKey == "" {
			response.Abort(c, response.CodeUnauthorized, response.KindUnauthorized, "jwt secret is not configured")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, response.CodeUnauthorized, response.KindUnauthorized, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Abort(c, response.CodeUnauthorized, response.KindUnauthorized, "authorization header invalid")
			return
		}

		claims := &ActorClaims{}
		token, err := parser.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid || claims.ActorName() == "" {
			logger.Debugw("jwt_token_rejected", "request_id", getRequestID(c), "error", err)
			response.Abort(c, response.CodeUnauthorized, response.KindUnauthorized, "token invalid")
			return
		}

		c.Set(constants.ContextKeyActor, claims.ActorName())
		c.Set(constants.ContextKeyRoles, claims.RoleList())
		c.Next()
	}
}

// RBACMiddleware 基于角色的接口鉴权
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			response.Abort(c, response.CodeUnauthorized, response.KindUnauthorized, "authorization unavailable")
			return
		}

		var roles []string
		if value, ok := c.Get(constants.ContextKeyRoles); ok {
			roles, _ = value.([]string)
		}
		if len(roles) == 0 {
			response.Abort(c, response.CodeForbidden, response.KindForbidden, "no role granted")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRoles(roles, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"roles", roles,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Abort(c, response.CodeUnauthorized, response.KindUnauthorized, "authorization unavailable")
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"actor", c.GetString(constants.ContextKeyActor),
				"roles", roles,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Abort(c, response.CodeForbidden, response.KindForbidden, "permission denied")
			return
		}

		c.Next()
	}
}
