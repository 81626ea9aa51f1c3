package domain

import (
	"fmt"
	"strings"
)

// Criterion 是“找相似影片”的维度。
type Criterion string

const (
	CriterionGenre    Criterion = "genre"
	CriterionDirector Criterion = "director"
	CriterionCast     Criterion = "cast"
	CriterionKeywords Criterion = "keywords"
	CriterionRating   Criterion = "rating"
	// CriterionNative 直接委托远端自带的 recommendations 接口（即 "combined"）。
	CriterionNative Criterion = "native"
)

// AllCriteria 是“全部推荐”时的固定输出顺序。
var AllCriteria = []Criterion{
	CriterionGenre,
	CriterionDirector,
	CriterionCast,
	CriterionKeywords,
	CriterionRating,
	CriterionNative,
}

// ParseCriterion 解析 criterion 名称（大小写不敏感；"combined" 视为 native 的别名）。
func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(strings.ToLower(strings.TrimSpace(s))); c {
	case CriterionGenre, CriterionDirector, CriterionCast, CriterionKeywords, CriterionRating, CriterionNative:
		return c, nil
	case "combined":
		return CriterionNative, nil
	default:
		return "", fmt.Errorf("未知 criterion：%q", s)
	}
}

func (c Criterion) String() string { return string(c) }

// Label 是展示层使用的标题。
func (c Criterion) Label() string {
	switch c {
	case CriterionGenre:
		return "Genre"
	case CriterionDirector:
		return "Director"
	case CriterionCast:
		return "Cast"
	case CriterionKeywords:
		return "Plot Keywords"
	case CriterionRating:
		return "Rating"
	case CriterionNative:
		return "TMDB Algorithm"
	default:
		return string(c)
	}
}

// NeedsDetail 表示该 criterion 是否依赖 MovieDetail 的元数据字段。
// native 只需要影片 id。
func (c Criterion) NeedsDetail() bool { return c != CriterionNative }

// RecommendationQuery 是单次请求的临时值对象：每次从 MovieDetail 重新构造，不缓存。
//
// Filters 的 key 即远端发现接口的参数名（例如 with_genres、vote_average.gte）。
type RecommendationQuery struct {
	Criterion Criterion
	Filters   map[string]string
	Limit     int
}

// Native 表示该查询走远端 recommendations 接口，而不是发现接口。
func (q RecommendationQuery) Native() bool { return q.Criterion == CriterionNative }
