package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/laundry-pos/internal/models"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOverpayment            = errors.New("payment exceeds remaining balance")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInvalidStateTransition = errors.New("order status transition not allowed")
	ErrAlreadyCancelled       = errors.New("order already cancelled")
	ErrOrderNotCancelled      = errors.New("order is not cancelled")
	ErrOrderNotPayable        = errors.New("order does not accept payments")
	ErrHasPayments            = errors.New("order has payments")
	ErrDuplicateOrderCode     = errors.New("order code already exists")
	ErrStore                  = errors.New("store operation failed")
)

// ValidationError 入参校验失败，Fields 为缺失或非法字段
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("required fields missing or invalid: %s", strings.Join(e.Fields, ", "))
}

// Is 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// OverpaymentError 收款金额超过剩余应收
type OverpaymentError struct {
	Balance models.Money
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds remaining balance (%s)", e.Balance.String())
}

// Is 支持 errors.Is(err, ErrOverpayment)
func (e *OverpaymentError) Is(target error) bool {
	return target == ErrOverpayment
}

// StoreError 存储层失败，事务已回滚
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is 支持 errors.Is(err, ErrStore)
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// wrapStore 保留业务错误，其余统一包装为 StoreError
func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrValidation,
		ErrOrderNotFound,
		ErrOverpayment,
		ErrInvalidStatus,
		ErrInvalidStateTransition,
		ErrAlreadyCancelled,
		ErrOrderNotCancelled,
		ErrOrderNotPayable,
		ErrHasPayments,
		ErrDuplicateOrderCode,
		ErrStore,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
