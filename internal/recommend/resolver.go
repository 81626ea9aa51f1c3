package recommend

import (
	"context"
	"errors"

	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/logging"
	"github.com/John-Robertt/movierec/internal/provider"
)

// Resolver 把 criterion + 当前影片转换为一次远端查询，并对结果做本地收尾。
//
// 约束：
// - 只接收已拉取的 MovieDetail，不自行再拉详情
// - 所有 criterion 统一做自排除（结果中不出现源影片）
// - 结果截断到 limit；顺序保持远端顺序
// - 不重试
type Resolver struct {
	catalog provider.Catalog
}

func NewResolver(c provider.Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve 返回推荐列表。
// 任何失败（缺字段/网络/数据形态）都返回空列表（非 nil）与对应 error，由调用方决定如何提示；
// 调用方不应因此中止会话。
func (r *Resolver) Resolve(ctx context.Context, c domain.Criterion, d domain.MovieDetail, limit int) ([]domain.MovieSummary, error) {
	empty := []domain.MovieSummary{}
	if r == nil || r.catalog == nil {
		return empty, errors.New("resolver 未初始化")
	}

	q, err := BuildQuery(c, d, limit)
	if err != nil {
		return empty, err
	}

	logging.Debug().
		Str("criterion", c.String()).
		Int("movie_id", d.ID).
		Interface("filters", q.Filters).
		Msg("发起推荐查询")

	var res []domain.MovieSummary
	if q.Native() {
		res, err = r.catalog.Recommendations(ctx, d.ID)
	} else {
		res, err = r.catalog.Discover(ctx, q.Filters)
	}
	if err != nil {
		return empty, err
	}
	return ExcludeAndCap(res, d.ID, q.Limit), nil
}

// ExcludeAndCap 去掉 id==selfID 的条目，并截断到 limit（保持原顺序）。
func ExcludeAndCap(in []domain.MovieSummary, selfID, limit int) []domain.MovieSummary {
	out := make([]domain.MovieSummary, 0, min(len(in), max(limit, 0)))
	for _, m := range in {
		if len(out) >= limit {
			break
		}
		if m.ID == selfID {
			continue
		}
		out = append(out, m)
	}
	return out
}
