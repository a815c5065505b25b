package response

import "net/http"

// 错误类型，写入响应的 error 字段
const (
	KindValidation   = "validation"
	KindNotFound     = "not_found"
	KindOverpayment  = "overpayment"
	KindConflict     = "conflict"
	KindInvalidState = "invalid_state"
	KindHasPayments  = "has_payments"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindRateLimited  = "rate_limited"
	KindTimeout      = "timeout"
	KindInternal     = "internal"
)

const (
	CodeBadRequest      = http.StatusBadRequest
	CodeUnauthorized    = http.StatusUnauthorized
	CodeForbidden       = http.StatusForbidden
	CodeNotFound        = http.StatusNotFound
	CodeConflict        = http.StatusConflict
	CodeTooManyRequests = http.StatusTooManyRequests
	CodeTimeout         = http.StatusGatewayTimeout
	CodeInternal        = http.StatusInternalServerError
)
