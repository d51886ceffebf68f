package raffle

import (
	"errors"

	"github.com/sony/gobreaker"
)

// lockBreaker 包装 Redis 锁调用的熔断器。
// 一个 nil breaker 表示熔断器未启用，调用直接透传。
type lockBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// newLockBreaker 根据配置创建熔断器
func newLockBreaker(config *CircuitBreakerConfig, logger Logger) *lockBreaker {
	if config == nil || !config.Enabled {
		return &lockBreaker{}
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当请求数达到最小要求且失败率超过阈值时触发熔断
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		// 锁被占用是正常结果，不计入失败
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrLockHeld)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange && logger != nil {
				logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
	}

	return &lockBreaker{breaker: gobreaker.NewCircuitBreaker(settings)}
}

// execute 使用熔断器执行操作
func (b *lockBreaker) execute(operation func() (any, error)) (any, error) {
	if b == nil || b.breaker == nil {
		return operation()
	}

	result, err := b.breaker.Execute(operation)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return nil, ErrCircuitBreakerOpen.New().WithDetails("circuit breaker is open, requests are being rejected")
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, ErrCircuitBreakerOpen.New().WithDetails("too many requests, circuit breaker is half-open")
	}
	return result, err
}

// state 获取熔断器状态
func (b *lockBreaker) state() string {
	if b == nil || b.breaker == nil {
		return "disabled"
	}

	switch b.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
