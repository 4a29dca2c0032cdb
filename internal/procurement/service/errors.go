package service

import "fmt"

// ValidationError 输入校验错误（任何持久化之前拒绝）
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// PreconditionError 状态前置条件错误（操作在当前状态下不合法，无任何副作用）
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

func preconditionErr(reason string) error {
	return &PreconditionError{Reason: reason}
}
