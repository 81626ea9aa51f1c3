package session

import (
	"context"
	"errors"
	"testing"

	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/recommend"
)

type stubCatalog struct {
	search    map[string][]domain.MovieSummary
	searchErr error
	details   map[int]domain.MovieDetail
	detailErr error
	discover  []domain.MovieSummary

	detailCalls   int
	discoverCalls int
	nativeCalls   int
}

func (s *stubCatalog) Name() string { return "stub" }

func (s *stubCatalog) SearchMovies(_ context.Context, q string) ([]domain.MovieSummary, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.search[q], nil
}

func (s *stubCatalog) MovieDetail(_ context.Context, id int) (domain.MovieDetail, error) {
	s.detailCalls++
	if s.detailErr != nil {
		return domain.MovieDetail{}, s.detailErr
	}
	return s.details[id], nil
}

func (s *stubCatalog) Discover(context.Context, map[string]string) ([]domain.MovieSummary, error) {
	s.discoverCalls++
	return s.discover, nil
}

func (s *stubCatalog) Recommendations(context.Context, int) ([]domain.MovieSummary, error) {
	s.nativeCalls++
	return s.discover, nil
}

type recordingObserver struct {
	searches []string
	selected []domain.MovieDetail
	notFound []string
	recs     []domain.Criterion
	errs     []error
}

func (o *recordingObserver) OnSearch(title string) { o.searches = append(o.searches, title) }

func (o *recordingObserver) OnMovieSelected(d domain.MovieDetail) {
	o.selected = append(o.selected, d)
}

func (o *recordingObserver) OnNotFound(title string, err error) {
	o.notFound = append(o.notFound, title)
}

func (o *recordingObserver) OnRecommendations(c domain.Criterion, movies []domain.MovieSummary, err error) {
	o.recs = append(o.recs, c)
	o.errs = append(o.errs, err)
}

func newCatalog() *stubCatalog {
	inception := domain.MovieSummary{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15", VoteAverage: 8.4}
	memento := domain.MovieSummary{ID: 77, Title: "Memento", ReleaseDate: "2000-10-11", VoteAverage: 8.2}
	return &stubCatalog{
		search: map[string][]domain.MovieSummary{
			"Inception": {inception},
			"Memento":   {memento},
		},
		details: map[int]domain.MovieDetail{
			27205: {
				MovieSummary: inception,
				Genres:       []domain.Genre{{ID: 28}, {ID: 878}},
				Crew:         []domain.CrewMember{{ID: 525, Job: "Director"}},
				Cast:         []domain.CastMember{{ID: 6193}},
				Keywords:     []domain.Keyword{{ID: 1566}},
			},
			77: {
				MovieSummary: memento,
				Genres:       []domain.Genre{{ID: 53}},
			},
		},
		discover: []domain.MovieSummary{{ID: 27205}, {ID: 155}, {ID: 157336}, {ID: 1124}, {ID: 272}, {ID: 49026}, {ID: 77}},
	}
}

func TestSelect_FetchesDetailOnceAndReuses(t *testing.T) {
	cat := newCatalog()
	obs := &recordingObserver{}
	s := New(cat, nil, obs)

	d, err := s.Select(context.Background(), "  Inception ")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if d.ID != 27205 || len(d.Genres) != 2 {
		t.Fatalf("当前影片不符合预期：%+v", d)
	}

	for _, c := range domain.AllCriteria {
		if _, err := s.Recommend(context.Background(), c, 10); err != nil {
			t.Fatalf("criterion=%s 不期望错误：%v", c, err)
		}
	}
	if cat.detailCalls != 1 {
		t.Fatalf("详情应只拉取一次，实际 %d 次", cat.detailCalls)
	}
	if len(obs.searches) != 1 || obs.searches[0] != "Inception" {
		t.Fatalf("OnSearch 不符合预期：%v", obs.searches)
	}
	if len(obs.recs) != len(domain.AllCriteria) {
		t.Fatalf("期望 %d 次 OnRecommendations，实际 %d", len(domain.AllCriteria), len(obs.recs))
	}
}

func TestSelect_NotFoundKeepsPrevious(t *testing.T) {
	cat := newCatalog()
	obs := &recordingObserver{}
	s := New(cat, nil, obs)

	if _, err := s.Select(context.Background(), "Inception"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	_, err := s.Select(context.Background(), "Nonexistent Movie 12345")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("期望 ErrNotFound，实际=%v", err)
	}
	cur, ok := s.Current()
	if !ok || cur.ID != 27205 {
		t.Fatalf("搜索失败时应保留之前的影片，实际=%+v ok=%v", cur, ok)
	}
	if len(obs.notFound) != 1 {
		t.Fatalf("期望 1 次 OnNotFound，实际 %d", len(obs.notFound))
	}
}

func TestSelect_ReplacesCurrentWholesale(t *testing.T) {
	cat := newCatalog()
	s := New(cat, nil, nil)

	if _, err := s.Select(context.Background(), "Inception"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := s.Select(context.Background(), "Memento"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	cur, _ := s.Current()
	if cur.ID != 77 || len(cur.Crew) != 0 {
		t.Fatalf("当前影片应整体替换为 Memento：%+v", cur)
	}

	// Memento 没有导演信息：结果为空且是“缺字段”降级。
	got, err := s.Recommend(context.Background(), domain.CriterionDirector, 10)
	if !errors.Is(err, recommend.ErrMissingField) || len(got) != 0 {
		t.Fatalf("期望缺字段的空结果，实际 got=%v err=%v", got, err)
	}
}

func TestSelect_EmptyTitle(t *testing.T) {
	s := New(newCatalog(), nil, nil)
	if _, err := s.Select(context.Background(), "   "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("期望 ErrEmptyTitle，实际=%v", err)
	}
}

func TestSelect_SearchTransportError(t *testing.T) {
	cat := newCatalog()
	cat.searchErr = errors.New("dial tcp: i/o timeout")
	obs := &recordingObserver{}
	s := New(cat, nil, obs)

	if _, err := s.Select(context.Background(), "Inception"); err == nil {
		t.Fatalf("期望搜索错误")
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("搜索失败时不应有当前影片")
	}
	if len(obs.notFound) != 1 {
		t.Fatalf("期望 OnNotFound 事件")
	}
}

func TestSelect_DetailFailureOnlyNativeWorks(t *testing.T) {
	cat := newCatalog()
	cat.detailErr = errors.New("HTTP 500")
	s := New(cat, nil, nil)

	d, err := s.Select(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("详情失败不应导致选片失败：%v", err)
	}
	if d.ID != 27205 || d.Title != "Inception" {
		t.Fatalf("应以搜索摘要作为当前影片：%+v", d)
	}

	got, err := s.Recommend(context.Background(), domain.CriterionGenre, 10)
	if err == nil || len(got) != 0 {
		t.Fatalf("详情不可用时 genre 应为空并带错误：got=%v err=%v", got, err)
	}
	if cat.discoverCalls != 0 {
		t.Fatalf("详情不可用时不应发起发现查询")
	}

	got, err = s.Recommend(context.Background(), domain.CriterionNative, 10)
	if err != nil {
		t.Fatalf("native 不依赖详情，不期望错误：%v", err)
	}
	for _, m := range got {
		if m.ID == 27205 {
			t.Fatalf("native 结果也应排除源影片：%+v", got)
		}
	}
}

func TestRecommend_NoMovie(t *testing.T) {
	obs := &recordingObserver{}
	s := New(newCatalog(), nil, obs)

	got, err := s.Recommend(context.Background(), domain.CriterionGenre, 10)
	if !errors.Is(err, ErrNoMovie) || got == nil || len(got) != 0 {
		t.Fatalf("期望 ErrNoMovie 与空列表，实际 got=%v err=%v", got, err)
	}
	if len(obs.recs) != 1 {
		t.Fatalf("即使失败也应通知 observer")
	}
}

func TestRecommendAll_OrderAndLimit(t *testing.T) {
	cat := newCatalog()
	s := New(cat, nil, nil)
	if _, err := s.Select(context.Background(), "Inception"); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	sections := s.RecommendAll(context.Background(), recommend.AllLimit)
	if len(sections) != len(domain.AllCriteria) {
		t.Fatalf("期望 %d 个分组，实际 %d", len(domain.AllCriteria), len(sections))
	}
	for i, sec := range sections {
		if sec.Criterion != domain.AllCriteria[i] {
			t.Fatalf("第 %d 个分组期望 %s，实际 %s", i, domain.AllCriteria[i], sec.Criterion)
		}
		if sec.Err != nil {
			t.Fatalf("criterion=%s 不期望错误：%v", sec.Criterion, sec.Err)
		}
		if len(sec.Movies) != recommend.AllLimit {
			t.Fatalf("criterion=%s 期望 %d 条，实际 %d", sec.Criterion, recommend.AllLimit, len(sec.Movies))
		}
		for _, m := range sec.Movies {
			if m.ID == 27205 {
				t.Fatalf("criterion=%s 不应包含源影片", sec.Criterion)
			}
		}
	}
	if cat.nativeCalls != 1 || cat.discoverCalls != 5 {
		t.Fatalf("调用次数不符合预期：native=%d discover=%d", cat.nativeCalls, cat.discoverCalls)
	}
}

func TestNew_AssignsSessionID(t *testing.T) {
	a := New(newCatalog(), nil, nil)
	b := New(newCatalog(), nil, nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("每个会话应有唯一 id：%q %q", a.ID, b.ID)
	}
}
