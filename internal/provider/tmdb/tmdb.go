package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/John-Robertt/movierec/internal/domain"
	providerx "github.com/John-Robertt/movierec/internal/provider"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"

	// maxBodyBytes 限制单个响应体大小，避免异常响应吃光内存。
	maxBodyBytes = 8 << 20
)

var _ providerx.Catalog = (*Client)(nil)

// Client 实现 TMDB v3 的 HTTPS/JSON 访问。
//
// 约束：
// - 每个请求都带 api_key 与 language
// - 只做“拼 URL + 解 JSON”；限速/代理/超时由传入的 *http.Client 决定
// - 列表响应缺少 results 字段视为数据形态错误
type Client struct {
	APIKey   string
	BaseURL  string // 为空时使用 DefaultBaseURL
	Language string // 为空时使用 DefaultLanguage
	HTTP     *http.Client
}

func (*Client) Name() string { return "tmdb" }

func (c *Client) baseURL() string {
	u := strings.TrimSpace(c.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

func (c *Client) language() string {
	if l := strings.TrimSpace(c.Language); l != "" {
		return l
	}
	return DefaultLanguage
}

// SearchMovies: GET /search/movie?query=<title>
func (c *Client) SearchMovies(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	q := url.Values{}
	q.Set("query", query)
	res, err := c.getList(ctx, "/search/movie", q)
	if err != nil {
		return nil, wrap(providerx.StageSearch, err)
	}
	return res, nil
}

// MovieDetail: GET /movie/{id}?append_to_response=credits,keywords
func (c *Client) MovieDetail(ctx context.Context, id int) (domain.MovieDetail, error) {
	if id <= 0 {
		return domain.MovieDetail{}, wrap(providerx.StageDetail, fmt.Errorf("movie id 非法：%d", id))
	}
	q := url.Values{}
	q.Set("append_to_response", "credits,keywords")

	var raw detailJSON
	if err := c.getJSON(ctx, "/movie/"+strconv.Itoa(id), q, &raw); err != nil {
		return domain.MovieDetail{}, wrap(providerx.StageDetail, err)
	}
	if raw.ID == 0 {
		return domain.MovieDetail{}, wrap(providerx.StageDetail, errors.New("响应缺少 id 字段"))
	}
	return raw.toDomain(), nil
}

// Discover: GET /discover/movie?sort_by=popularity.desc&<filters>
func (c *Client) Discover(ctx context.Context, filters map[string]string) ([]domain.MovieSummary, error) {
	q := url.Values{}
	q.Set("sort_by", "popularity.desc")
	for k, v := range filters {
		if strings.TrimSpace(v) == "" {
			continue
		}
		q.Set(k, v)
	}
	res, err := c.getList(ctx, "/discover/movie", q)
	if err != nil {
		return nil, wrap(providerx.StageDiscover, err)
	}
	return res, nil
}

// Recommendations: GET /movie/{id}/recommendations
func (c *Client) Recommendations(ctx context.Context, id int) ([]domain.MovieSummary, error) {
	if id <= 0 {
		return nil, wrap(providerx.StageRecommendations, fmt.Errorf("movie id 非法：%d", id))
	}
	res, err := c.getList(ctx, "/movie/"+strconv.Itoa(id)+"/recommendations", url.Values{})
	if err != nil {
		return nil, wrap(providerx.StageRecommendations, err)
	}
	return res, nil
}

func (c *Client) getList(ctx context.Context, path string, q url.Values) ([]domain.MovieSummary, error) {
	var page listJSON
	if err := c.getJSON(ctx, path, q, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return nil, errors.New("响应缺少 results 字段")
	}
	out := make([]domain.MovieSummary, 0, len(*page.Results))
	for _, m := range *page.Results {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	if c.HTTP == nil {
		return errors.New("http client 不能为空")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("api key 不能为空")
	}
	q.Set("api_key", c.APIKey)
	q.Set("language", c.language())
	u := c.baseURL() + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &providerx.HTTPStatusError{
			URL:        redactKey(u),
			StatusCode: resp.StatusCode,
			Message:    statusMessage(body),
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("解析 JSON 失败：%w", err)
	}
	return nil
}

func wrap(stage string, err error) error {
	return &providerx.Error{Provider: "tmdb", Stage: stage, Err: err}
}

// statusMessage 提取 TMDB 错误体中的 status_message；解析失败返回空串。
func statusMessage(body []byte) string {
	var e struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.StatusMessage)
}

// redactKey 避免把 api_key 写进错误信息/日志。
func redactKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
