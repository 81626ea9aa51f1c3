package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultTimeout       = 15 * time.Second
	DefaultUserAgent     = "movierec/1.0 (+https://github.com/John-Robertt/movierec)"
	DefaultRatePerSecond = 4.0 // TMDB 约 40 req / 10s
)

// Transport 把“UA + 限速 + 代理 keep-alive 策略 + 有界重试”固化为统一策略。
//
// 设计目标：catalog 实现只负责“拼 URL + 解 JSON”，不关心网络策略细节。
type Transport struct {
	Base http.RoundTripper

	UserAgent string

	// Limiter 为 nil 时不限速。
	Limiter *rate.Limiter

	// RetryMax 表示最大重试次数（不含首次尝试）。默认 0：只尝试一次。
	RetryMax int

	// DisableKeepAlives 决定是否对 Request 设置 Close=true（代理模式下的额外保险）。
	DisableKeepAlives bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// 只对“可重放”的请求做重试：GET/HEAD 且无 body。
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		if t.Limiter != nil {
			if err := t.Limiter.Wait(req.Context()); err != nil {
				return nil, err
			}
		}

		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" && t.UserAgent != "" {
			r.Header.Set("User-Agent", t.UserAgent)
		}
		if r.Header.Get("Accept") == "" {
			r.Header.Set("Accept", "application/json")
		}
		if t.DisableKeepAlives {
			r.Close = true
		}

		resp, err := t.Base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			// ctx 已取消：不再重试，直接返回最后错误。
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// Options 描述 API client 的网络策略；零值即默认策略。
type Options struct {
	ProxyURL      string
	Timeout       time.Duration
	RatePerSecond float64 // <=0 表示不限速
	RetryMax      int
	UserAgent     string
}

// NewClient 构造访问远端影片 API 的 HTTP client。
//
// 规则：
// - proxyURL 非空：必须走代理，且禁用 keep-alive（每请求新连接）
// - 固定 UA；限速器 burst=1，保证请求均匀分布
// - 总超时默认 DefaultTimeout
func NewClient(opts Options) (*http.Client, error) {
	base := &http.Transport{
		Proxy:                 nil,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}

	disableKeepAlives := false
	if proxyURL := strings.TrimSpace(opts.ProxyURL); proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		base.DisableKeepAlives = true
		disableKeepAlives = true
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Transport: &Transport{
			Base:              base,
			UserAgent:         ua,
			Limiter:           limiter,
			RetryMax:          opts.RetryMax,
			DisableKeepAlives: disableKeepAlives,
		},
		Timeout: timeout,
	}, nil
}
