package admin

import (
	"context"
	"errors"
	"strings"

	handlershared "github.com/laundry-pos/internal/http/handlers/shared"
	"github.com/laundry-pos/internal/http/response"
	"github.com/laundry-pos/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, kind, msg string, err error) {
	handlershared.RespondError(c, code, kind, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	kind   string
	msg    string
}

var orderCommonErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, kind: response.KindNotFound, msg: "order not found"},
	{target: service.ErrDuplicateOrderCode, code: response.CodeConflict, kind: response.KindConflict, msg: "order code already exists, retry the request"},
	{target: context.DeadlineExceeded, code: response.CodeTimeout, kind: response.KindTimeout, msg: "request timed out"},
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidStatus, code: response.CodeBadRequest, kind: response.KindValidation, msg: "invalid order status"},
	{target: service.ErrInvalidStateTransition, code: response.CodeConflict, kind: response.KindInvalidState, msg: "status transition not allowed"},
}

// 取消与恢复的非法状态按订单不存在处理
var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrAlreadyCancelled, code: response.CodeNotFound, kind: response.KindInvalidState, msg: "order not found or already cancelled"},
	{target: service.ErrInvalidStateTransition, code: response.CodeNotFound, kind: response.KindInvalidState, msg: "order not found or cannot be cancelled"},
}

var orderRestoreErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotCancelled, code: response.CodeNotFound, kind: response.KindInvalidState, msg: "order not found or not cancelled"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotPayable, code: response.CodeConflict, kind: response.KindInvalidState, msg: "cancelled orders cannot take payments"},
}

var orderDeleteErrorRules = []mappedHandlerError{
	{target: service.ErrHasPayments, code: response.CodeBadRequest, kind: response.KindHasPayments, msg: "order has payments and cannot be deleted"},
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// respondServiceError 先处理携带数据的类型化错误，再按规则映射，最后兜底 500。
func respondServiceError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		handlershared.RespondErrorWithData(c, response.CodeBadRequest, response.KindValidation,
			validationMessage(validationErr), gin.H{"fields": validationErr.Fields}, nil)
		return
	}
	var overpayErr *service.OverpaymentError
	if errors.As(err, &overpayErr) {
		handlershared.RespondErrorWithData(c, response.CodeBadRequest, response.KindOverpayment,
			"amount exceeds outstanding balance", gin.H{"balance": overpayErr.Balance}, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.kind, rule.msg, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, response.KindInternal, fallbackMsg, err)
}

func validationMessage(err *service.ValidationError) string {
	if err == nil || len(err.Fields) == 0 {
		return "invalid request"
	}
	return "missing or invalid fields: " + strings.Join(err.Fields, ", ")
}
