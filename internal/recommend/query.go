package recommend

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/John-Robertt/movierec/internal/domain"
)

const (
	DefaultLimit = 10
	// AllLimit 是“全部推荐”时每个 criterion 的条数。
	AllLimit = 5

	DirectorJob = "Director"
	TopCast     = 3
	TopKeywords = 5

	ratingSpan = 1.0
	ratingMin  = 0.0
	ratingMax  = 10.0
)

// 发现接口的参数名。
const (
	FilterGenres    = "with_genres"
	FilterCrew      = "with_crew"
	FilterCast      = "with_cast"
	FilterKeywords  = "with_keywords"
	FilterRatingGTE = "vote_average.gte"
	FilterRatingLTE = "vote_average.lte"
)

// ErrMissingField 表示当前影片缺少 criterion 所需的元数据（例如没有导演）。
// 这是正常的降级路径：结果为空列表。
var ErrMissingField = errors.New("missing metadata field")

type MissingFieldError struct {
	Criterion domain.Criterion
	Field     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("criterion=%s: 影片缺少 %s", e.Criterion, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// BuildQuery 从 MovieDetail 推导一次推荐查询（纯函数，不做任何 I/O）。
//
// 推导规则：
// - genre：全部 genre id；genres 为空 => MissingFieldError
// - director：crew 中第一个 job=="Director" 的 id；没有 => MissingFieldError
// - cast：前 3 个 billing 的 id；cast 为空 => MissingFieldError
// - keywords：前 5 个 keyword id；为空 => MissingFieldError
// - rating：[rating-1, rating+1] 截断到 [0,10]；genres 非空时再叠加 genre 过滤
// - native：无 filter，直接走远端 recommendations
//
// “第一个/前 N 个”均以远端详情响应的顺序为准，不在本地重排。
func BuildQuery(c domain.Criterion, d domain.MovieDetail, limit int) (domain.RecommendationQuery, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := domain.RecommendationQuery{Criterion: c, Filters: map[string]string{}, Limit: limit}

	switch c {
	case domain.CriterionGenre:
		if len(d.Genres) == 0 {
			return q, &MissingFieldError{Criterion: c, Field: "genres"}
		}
		q.Filters[FilterGenres] = joinIDs(d.GenreIDs())

	case domain.CriterionDirector:
		id, ok := firstDirector(d.Crew)
		if !ok {
			return q, &MissingFieldError{Criterion: c, Field: "director"}
		}
		q.Filters[FilterCrew] = strconv.Itoa(id)

	case domain.CriterionCast:
		if len(d.Cast) == 0 {
			return q, &MissingFieldError{Criterion: c, Field: "cast"}
		}
		n := min(len(d.Cast), TopCast)
		ids := make([]int, 0, n)
		for _, m := range d.Cast[:n] {
			ids = append(ids, m.ID)
		}
		q.Filters[FilterCast] = joinIDs(ids)

	case domain.CriterionKeywords:
		if len(d.Keywords) == 0 {
			return q, &MissingFieldError{Criterion: c, Field: "keywords"}
		}
		n := min(len(d.Keywords), TopKeywords)
		ids := make([]int, 0, n)
		for _, k := range d.Keywords[:n] {
			ids = append(ids, k.ID)
		}
		q.Filters[FilterKeywords] = joinIDs(ids)

	case domain.CriterionRating:
		lo, hi := RatingWindow(d.VoteAverage)
		q.Filters[FilterRatingGTE] = formatRating(lo)
		q.Filters[FilterRatingLTE] = formatRating(hi)
		if len(d.Genres) > 0 {
			q.Filters[FilterGenres] = joinIDs(d.GenreIDs())
		}

	case domain.CriterionNative:
		// 无 filter。

	default:
		return q, fmt.Errorf("未知 criterion：%q", c)
	}
	return q, nil
}

// RatingWindow 返回 [rating-1, rating+1] 截断到 [0,10] 后的窗口。
// 非法评分（NaN/负数）按 0 处理。
func RatingWindow(rating float64) (lo, hi float64) {
	if math.IsNaN(rating) || rating < ratingMin {
		rating = ratingMin
	}
	lo = math.Max(ratingMin, rating-ratingSpan)
	hi = math.Min(ratingMax, rating+ratingSpan)
	return lo, hi
}

func firstDirector(crew []domain.CrewMember) (int, bool) {
	for _, m := range crew {
		if m.Job == DirectorJob {
			return m.ID, true
		}
	}
	return 0, false
}

func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

// formatRating 在 1e-6 精度上取整，只消除浮点减法带来的尾差（例如 7.3999999），
// 不移动窗口边界（8.369 => 7.369 / 9.369）。
func formatRating(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
