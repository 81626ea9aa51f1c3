package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/logging"
	"github.com/John-Robertt/movierec/internal/provider"
	"github.com/John-Robertt/movierec/internal/recommend"
)

var (
	ErrEmptyTitle = errors.New("未提供影片标题")
	ErrNotFound   = errors.New("未找到影片")
	ErrNoMovie    = errors.New("尚未选择影片")
)

// Session 持有“当前影片”这一份显式状态，并把用户的每次选择转换为 catalog/resolver 调用。
//
// 约束：
// - 单线程顺序使用：没有并发写者，不加锁
// - 每次选片只拉一次详情；之后所有 criterion 复用同一份 MovieDetail
// - 选片失败不影响已有的当前影片
// - 任何失败都只产生空结果 + 事件，不中止会话
type Session struct {
	ID string

	catalog  provider.Catalog
	resolver *recommend.Resolver
	obs      Observer
	log      zerolog.Logger

	current   *domain.MovieDetail
	detailErr error
}

func New(catalog provider.Catalog, resolver *recommend.Resolver, obs Observer) *Session {
	if obs == nil {
		obs = nopObserver{}
	}
	if resolver == nil {
		resolver = recommend.NewResolver(catalog)
	}
	id := uuid.NewString()
	return &Session{
		ID:       id,
		catalog:  catalog,
		resolver: resolver,
		obs:      obs,
		log:      logging.With().Str("session", id).Logger(),
	}
}

// Current 返回当前影片；尚未选片时 ok=false。
func (s *Session) Current() (domain.MovieDetail, bool) {
	if s.current == nil {
		return domain.MovieDetail{}, false
	}
	return *s.current, true
}

// Select 搜索标题并把第一个结果设为当前影片（同时拉取一次详情）。
//
// 详情拉取失败时，搜索摘要仍成为当前影片，但依赖详情的 criterion 都会得到空结果；
// 搜索失败/无结果时保留之前的当前影片。
func (s *Session) Select(ctx context.Context, title string) (domain.MovieDetail, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.MovieDetail{}, ErrEmptyTitle
	}
	s.obs.OnSearch(title)

	results, err := s.catalog.SearchMovies(ctx, title)
	if err != nil {
		s.log.Warn().Err(err).Str("title", title).Msg("搜索失败")
		s.obs.OnNotFound(title, err)
		return domain.MovieDetail{}, err
	}
	if len(results) == 0 {
		s.obs.OnNotFound(title, ErrNotFound)
		return domain.MovieDetail{}, fmt.Errorf("%w：%s", ErrNotFound, title)
	}
	picked := results[0]

	d, err := s.catalog.MovieDetail(ctx, picked.ID)
	if err != nil {
		s.log.Warn().Err(err).Int("movie_id", picked.ID).Msg("拉取影片详情失败，推荐将只保留 native")
		d = domain.MovieDetail{MovieSummary: picked}
	}

	s.current = &d
	s.detailErr = err
	s.obs.OnMovieSelected(d)
	return d, nil
}

// Recommend 对当前影片执行一个 criterion；失败时返回空列表（非 nil）与 error。
func (s *Session) Recommend(ctx context.Context, c domain.Criterion, limit int) ([]domain.MovieSummary, error) {
	movies, err := s.recommend(ctx, c, limit)
	if err != nil && !errors.Is(err, ErrNoMovie) {
		ev := s.log.Warn()
		if errors.Is(err, recommend.ErrMissingField) {
			ev = s.log.Info()
		}
		ev.Err(err).Str("criterion", c.String()).Int("movie_id", s.currentID()).Msg("推荐结果为空")
	}
	s.obs.OnRecommendations(c, movies, err)
	return movies, err
}

func (s *Session) recommend(ctx context.Context, c domain.Criterion, limit int) ([]domain.MovieSummary, error) {
	if s.current == nil {
		return []domain.MovieSummary{}, ErrNoMovie
	}
	if s.detailErr != nil && c.NeedsDetail() {
		return []domain.MovieSummary{}, fmt.Errorf("影片详情不可用：%w", s.detailErr)
	}
	return s.resolver.Resolve(ctx, c, *s.current, limit)
}

// Section 是“全部推荐”中的一个分组。
type Section struct {
	Criterion domain.Criterion
	Movies    []domain.MovieSummary
	Err       error
}

// RecommendAll 按 domain.AllCriteria 的顺序执行全部 criterion。
func (s *Session) RecommendAll(ctx context.Context, limit int) []Section {
	out := make([]Section, 0, len(domain.AllCriteria))
	for _, c := range domain.AllCriteria {
		movies, err := s.Recommend(ctx, c, limit)
		out = append(out, Section{Criterion: c, Movies: movies, Err: err})
	}
	return out
}

func (s *Session) currentID() int {
	if s.current == nil {
		return 0
	}
	return s.current.ID
}
