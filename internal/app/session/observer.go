package session

import "github.com/John-Robertt/movierec/internal/domain"

// Observer 用于把“选片/推荐结果”从会话逻辑中解耦出来。
//
// 约束：session 包只负责发事件，不做任何输出；展示由 CLI 的 presenter 决定。
type Observer interface {
	// OnSearch 在发起搜索前调用。
	OnSearch(title string)
	// OnMovieSelected 在当前影片被替换后调用。
	OnMovieSelected(d domain.MovieDetail)
	// OnNotFound 在搜索无结果或搜索失败时调用（err 为 ErrNotFound 或传输错误）。
	OnNotFound(title string, err error)
	// OnRecommendations 在每个 criterion 完成后调用；失败时 movies 为空，err 非空。
	OnRecommendations(c domain.Criterion, movies []domain.MovieSummary, err error)
}

type nopObserver struct{}

func (nopObserver) OnSearch(string) {}
func (nopObserver) OnMovieSelected(domain.MovieDetail) {}
func (nopObserver) OnNotFound(string, error) {}
func (nopObserver) OnRecommendations(domain.Criterion, []domain.MovieSummary, error) {}
