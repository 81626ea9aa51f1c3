package provider

import (
	"context"

	"github.com/John-Robertt/movierec/internal/domain"
)

// Catalog 把“远端影片 API 的变化”限制在 provider 包内部；核心流程只依赖统一接口与稳定的 domain 类型。
//
// 约束：
// - 不做缓存、不做重试（限速/代理由 httpx 统一实现，熔断由 Breaker 装饰）
// - 列表结果保持远端顺序（发现接口按 popularity.desc 排序）
// - Discover 的 filters key 即远端参数名，实现方原样透传
type Catalog interface {
	Name() string
	SearchMovies(ctx context.Context, query string) ([]domain.MovieSummary, error)
	MovieDetail(ctx context.Context, id int) (domain.MovieDetail, error)
	Discover(ctx context.Context, filters map[string]string) ([]domain.MovieSummary, error)
	Recommendations(ctx context.Context, id int) ([]domain.MovieSummary, error)
}

const (
	StageSearch          = "search"
	StageDetail          = "detail"
	StageDiscover        = "discover"
	StageRecommendations = "recommendations"
)
