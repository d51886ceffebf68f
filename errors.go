package raffle

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 配置错误 (1000-1999)
	ErrCodeConfigInvalid     ErrorCode = "RAFFLE_1000"
	ErrCodeSourceNotFound    ErrorCode = "RAFFLE_1001"
	ErrCodeSourceUnreadable  ErrorCode = "RAFFLE_1002"
	ErrCodeSourceMalformed   ErrorCode = "RAFFLE_1003"
	ErrCodeSourceNotObject   ErrorCode = "RAFFLE_1004"
	ErrCodeSourceEmpty       ErrorCode = "RAFFLE_1005"
	ErrCodeEmptyPool         ErrorCode = "RAFFLE_1006"
	ErrCodePoolTooLarge      ErrorCode = "RAFFLE_1007"
	ErrCodeUnknownAlgorithm  ErrorCode = "RAFFLE_1008"
	ErrCodeUnsupportedFormat ErrorCode = "RAFFLE_1009"
	ErrCodeSourceChanged     ErrorCode = "RAFFLE_1010"

	// 输入错误 (2000-2999)
	ErrCodeInvalidInput       ErrorCode = "RAFFLE_2000"
	ErrCodeInvalidWinnerCount ErrorCode = "RAFFLE_2001"
	ErrCodeInvalidEncoding    ErrorCode = "RAFFLE_2002"
	ErrCodeInvalidSeed        ErrorCode = "RAFFLE_2003"
	ErrCodeInputAborted       ErrorCode = "RAFFLE_2004"

	// 锁相关错误 (3000-3999)
	ErrCodeLockHeld           ErrorCode = "RAFFLE_3000"
	ErrCodeLockReleaseFailure ErrorCode = "RAFFLE_3001"
	ErrCodeRedisConnection    ErrorCode = "RAFFLE_3002"
	ErrCodeCircuitBreakerOpen ErrorCode = "RAFFLE_3003"

	// 系统级错误
	ErrCodeSystem         ErrorCode = "RAFFLE_9000"
	ErrCodeEntropyFailure ErrorCode = "RAFFLE_9001"
)

// ErrorKind groups error codes into the categories reported to operators
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindInput         ErrorKind = "input"
	KindLock          ErrorKind = "lock"
	KindSystem        ErrorKind = "system"
)

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// RaffleError 抽奖错误类型
type RaffleError struct {
	Code      ErrorCode      `json:"code"`
	Kind      ErrorKind      `json:"kind"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Severity  ErrorSeverity  `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Operation string         `json:"operation,omitempty"`
	Cause     error          `json:"-"`
	Retryable bool           `json:"retryable"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Error 实现 error 接口
func (e *RaffleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap 实现 errors.Unwrap 接口
func (e *RaffleError) Unwrap() error { return e.Cause }

// Is 实现 errors.Is 接口, 按错误代码比较
func (e *RaffleError) Is(target error) bool {
	if t, ok := target.(*RaffleError); ok {
		return e.Code == t.Code
	}
	return false
}

// New returns a fresh copy of e stamped with the current time.
// Predefined errors are shared values; decorate the copy, never the original.
func (e *RaffleError) New() *RaffleError {
	c := *e
	c.Timestamp = time.Now()
	c.Metadata = maps.Clone(e.Metadata)
	return &c
}

// WithCause 添加原因错误
func (e *RaffleError) WithCause(cause error) *RaffleError {
	e.Cause = cause
	return e
}

// WithDetails 添加详细信息
func (e *RaffleError) WithDetails(format string, args ...any) *RaffleError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// WithOperation 添加操作信息
func (e *RaffleError) WithOperation(operation string) *RaffleError {
	e.Operation = operation
	return e
}

// WithMetadata 添加元数据
func (e *RaffleError) WithMetadata(key string, value any) *RaffleError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// NewError 创建新的错误
func NewError(code ErrorCode, kind ErrorKind, message string) *RaffleError {
	return &RaffleError{
		Code:      code,
		Kind:      kind,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
	}
}

// NewConfigurationError 创建配置错误, 总是致命的
func NewConfigurationError(code ErrorCode, message string) *RaffleError {
	err := NewError(code, KindConfiguration, message)
	err.Severity = SeverityHigh
	return err
}

// NewInputError 创建输入错误
func NewInputError(code ErrorCode, message string) *RaffleError {
	return NewError(code, KindInput, message)
}

// NewRetryableError 创建可重试的错误
func NewRetryableError(code ErrorCode, kind ErrorKind, message string) *RaffleError {
	err := NewError(code, kind, message)
	err.Retryable = true
	return err
}

// 预定义的错误实例
var (
	// 配置错误
	ErrConfigInvalid     = NewConfigurationError(ErrCodeConfigInvalid, "configuration is invalid")
	ErrSourceNotFound    = NewConfigurationError(ErrCodeSourceNotFound, "participants file not found")
	ErrSourceUnreadable  = NewConfigurationError(ErrCodeSourceUnreadable, "participants file cannot be read")
	ErrSourceMalformed   = NewConfigurationError(ErrCodeSourceMalformed, "participants file is malformed")
	ErrSourceNotObject   = NewConfigurationError(ErrCodeSourceNotObject, "participants file must contain an object mapping names to weights")
	ErrSourceEmpty       = NewConfigurationError(ErrCodeSourceEmpty, "participants file is empty")
	ErrEmptyPool         = NewConfigurationError(ErrCodeEmptyPool, "no valid participants found after processing weights")
	ErrPoolTooLarge      = NewConfigurationError(ErrCodePoolTooLarge, "weighted entry pool is too large")
	ErrUnknownAlgorithm  = NewConfigurationError(ErrCodeUnknownAlgorithm, "unknown random generator algorithm")
	ErrUnsupportedFormat = NewConfigurationError(ErrCodeUnsupportedFormat, "unsupported participants file format")
	ErrSourceChanged     = NewConfigurationError(ErrCodeSourceChanged, "participants file changed during the draw")

	// 输入错误
	ErrInvalidInput       = NewInputError(ErrCodeInvalidInput, "invalid input")
	ErrInvalidWinnerCount = NewInputError(ErrCodeInvalidWinnerCount, "number of winners must be a positive whole number")
	ErrInvalidEncoding    = NewInputError(ErrCodeInvalidEncoding, "input is not valid UTF-8")
	ErrInvalidSeed        = NewInputError(ErrCodeInvalidSeed, "derived seed is not a SHA-256 hex digest")
	ErrInputAborted       = NewInputError(ErrCodeInputAborted, "input aborted")

	// 锁相关错误
	ErrLockHeld              = NewRetryableError(ErrCodeLockHeld, KindLock, "draw lock is held by another process")
	ErrLockReleaseFailure    = NewError(ErrCodeLockReleaseFailure, KindLock, "failed to release draw lock")
	ErrRedisConnectionFailed = NewRetryableError(ErrCodeRedisConnection, KindLock, "Redis connection failed")
	ErrCircuitBreakerOpen    = NewRetryableError(ErrCodeCircuitBreakerOpen, KindLock, "circuit breaker is open")

	// 系统级错误
	ErrSystemError    = NewError(ErrCodeSystem, KindSystem, "system error occurred")
	ErrEntropyFailure = NewError(ErrCodeEntropyFailure, KindSystem, "secure random source failed")
)

// KindOf returns the kind of the first RaffleError in err's chain, or KindSystem
func KindOf(err error) ErrorKind {
	var raffleErr *RaffleError
	if errors.As(err, &raffleErr) {
		return raffleErr.Kind
	}
	return KindSystem
}

// IsConfigurationError reports whether err is a fatal configuration error
func IsConfigurationError(err error) bool {
	return err != nil && KindOf(err) == KindConfiguration
}

// IsInputError reports whether err was caused by operator input
func IsInputError(err error) bool {
	return err != nil && KindOf(err) == KindInput
}

// IsRetryableError 检查是否为可重试错误
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var raffleErr *RaffleError
	if errors.As(err, &raffleErr) {
		return raffleErr.Retryable
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"i/o timeout",
		"broken pipe",
		"dial tcp",
		"redis: connection pool timeout",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
