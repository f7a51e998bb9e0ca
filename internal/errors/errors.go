// Package errors defines the application error taxonomy shared by the ledger, the scheduler and the transport.
package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	CodeInvalidAmount   = "E101"
	CodeInvalidInterval = "E102"
	CodeMalformedTime   = "E103"
	CodeStorage         = "E200"
	CodeDelivery        = "E300"
)

// Sentinels for errors.Is comparisons. An *AppError matches a sentinel when the codes are equal.
var (
	ErrInvalidAmount   = &AppError{Code: CodeInvalidAmount, Message: "invalid amount"}
	ErrInvalidInterval = &AppError{Code: CodeInvalidInterval, Message: "invalid interval"}
	ErrMalformedTime   = &AppError{Code: CodeMalformedTime, Message: "malformed time"}
	ErrStorage         = &AppError{Code: CodeStorage, Message: "storage error"}
	ErrDelivery        = &AppError{Code: CodeDelivery, Message: "delivery error"}
)

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e == nil || t == nil {
		return false
	}

	return e.Code == t.Code
}

// IsValidation reports whether the error is caused by bad user input.
func (e *AppError) IsValidation() bool {
	if e == nil {
		return false
	}

	switch e.Code {
	case CodeInvalidAmount, CodeInvalidInterval, CodeMalformedTime:
		return true
	}

	return false
}

func NewInvalidAmountError(amount int, max int) *AppError {
	return &AppError{
		Code:        CodeInvalidAmount,
		Message:     fmt.Sprintf("invalid amount %d: must be in (0, %d]", amount, max),
		UserMessage: fmt.Sprintf("Please enter an amount between 1 and %d ml.", max),
		Severity:    SeverityLow,
	}
}

func NewInvalidIntervalError(minutes int, min int) *AppError {
	return &AppError{
		Code:        CodeInvalidInterval,
		Message:     fmt.Sprintf("invalid interval %d minutes: minimum is %d", minutes, min),
		UserMessage: fmt.Sprintf("The minimum reminder interval is %d minutes.", min),
		Severity:    SeverityLow,
	}
}

func NewIntervalTooLongError(minutes int, max int) *AppError {
	return &AppError{
		Code:        CodeInvalidInterval,
		Message:     fmt.Sprintf("invalid interval %d minutes: maximum is %d", minutes, max),
		UserMessage: fmt.Sprintf("The maximum reminder interval is %d minutes.", max),
		Severity:    SeverityLow,
	}
}

func NewMalformedTimeError(value string) *AppError {
	return &AppError{
		Code:        CodeMalformedTime,
		Message:     fmt.Sprintf("malformed time of day %q: expected HH:MM", value),
		UserMessage: "Times must be written as HH:MM, for example 09:00.",
		Severity:    SeverityLow,
	}
}

func NewStorageError(op string, cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        CodeStorage,
		Message:     fmt.Sprintf("storage error (%s): %s", op, underlyingMsg),
		UserMessage: "Temporary problem, please try again later.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

func NewDeliveryError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        CodeDelivery,
		Message:     fmt.Sprintf("delivery error: %s", underlyingMsg),
		UserMessage: "Messaging service is temporarily unavailable.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewDeliveryRejectedError marks a delivery the messaging service refused outright, such as to a user who
// blocked the bot. Retrying cannot help.
func NewDeliveryRejectedError(cause error) *AppError {
	err := NewDeliveryError(cause)
	err.Message = "delivery rejected: " + cause.Error()
	err.Severity = SeverityLow
	err.Retryable = false
	return err
}
