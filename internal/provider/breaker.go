package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/logging"
)

const (
	defaultTripAfter    = 5
	defaultOpenDuration = 30 * time.Second
)

var _ Catalog = (*Breaker)(nil)

// Breaker 用熔断器装饰一个 Catalog。
//
// 约束：
// - 不重试：失败原样返回，只在连续失败后短路后续调用
// - 4xx（429 除外）说明远端可达，不计入失败
// - 调用方取消或超时（ctx 已结束）既不计成功也不计失败
// - open 状态下直接返回 gobreaker.ErrOpenState
type Breaker struct {
	inner Catalog
	cb    *gobreaker.CircuitBreaker[any]
}

type BreakerSettings struct {
	// TripAfter 连续失败多少次后熔断，默认 5。
	TripAfter uint32
	// OpenFor 熔断持续时间（之后进入 half-open），默认 30s。
	OpenFor time.Duration
}

func NewBreaker(inner Catalog, s BreakerSettings) *Breaker {
	if s.TripAfter == 0 {
		s.TripAfter = defaultTripAfter
	}
	if s.OpenFor <= 0 {
		s.OpenFor = defaultOpenDuration
	}
	name := inner.Name() + "-api"

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.TripAfter
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *HTTPStatusError
			if errors.As(err, &se) {
				return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
			}
			return false
		},
		IsExcluded: func(err error) bool {
			var cd *callerDoneError
			return errors.As(err, &cd) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("熔断器状态变化")
		},
	})
	return &Breaker{inner: inner, cb: cb}
}

func (b *Breaker) Name() string { return b.inner.Name() }

// State 暴露熔断器当前状态（用于日志与测试）。
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func (b *Breaker) SearchMovies(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	return execute(ctx, b, func() ([]domain.MovieSummary, error) { return b.inner.SearchMovies(ctx, query) })
}

func (b *Breaker) MovieDetail(ctx context.Context, id int) (domain.MovieDetail, error) {
	return execute(ctx, b, func() (domain.MovieDetail, error) { return b.inner.MovieDetail(ctx, id) })
}

func (b *Breaker) Discover(ctx context.Context, filters map[string]string) ([]domain.MovieSummary, error) {
	return execute(ctx, b, func() ([]domain.MovieSummary, error) { return b.inner.Discover(ctx, filters) })
}

func (b *Breaker) Recommendations(ctx context.Context, id int) ([]domain.MovieSummary, error) {
	return execute(ctx, b, func() ([]domain.MovieSummary, error) { return b.inner.Recommendations(ctx, id) })
}

// callerDoneError 标记“调用方 ctx 已结束”导致的失败，熔断器忽略它。
type callerDoneError struct{ err error }

func (e *callerDoneError) Error() string { return e.err.Error() }
func (e *callerDoneError) Unwrap() error { return e.err }

func execute[T any](ctx context.Context, b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := b.cb.Execute(func() (any, error) {
		v, err := fn()
		if err != nil && ctx.Err() != nil {
			return v, &callerDoneError{err: err}
		}
		return v, err
	})
	if err != nil {
		var cd *callerDoneError
		if errors.As(err, &cd) {
			return zero, cd.err
		}
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("breaker: unexpected result type %T", res)
	}
	return v, nil
}
