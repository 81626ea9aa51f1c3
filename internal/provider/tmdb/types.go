package tmdb

import "github.com/John-Robertt/movierec/internal/domain"

// listJSON 对应 search/discover/recommendations 的分页响应。
// Results 用指针区分“空数组”与“字段缺失”。
type listJSON struct {
	Page    int          `json:"page"`
	Results *[]movieJSON `json:"results"`
}

type movieJSON struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
}

func (m movieJSON) toDomain() domain.MovieSummary {
	return domain.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
		Overview:    m.Overview,
	}
}

type detailJSON struct {
	movieJSON

	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`

	Credits struct {
		Cast []struct {
			ID    int    `json:"id"`
			Name  string `json:"name"`
			Order int    `json:"order"`
		} `json:"cast"`
		Crew []struct {
			ID   int    `json:"id"`
			Job  string `json:"job"`
			Name string `json:"name"`
		} `json:"crew"`
	} `json:"credits"`

	Keywords struct {
		Keywords []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"keywords"`
	} `json:"keywords"`
}

// toDomain 保持远端顺序：cast 已按 billing（order）排好，这里不重排。
func (d detailJSON) toDomain() domain.MovieDetail {
	out := domain.MovieDetail{
		MovieSummary: d.movieJSON.toDomain(),
		Genres:       make([]domain.Genre, 0, len(d.Genres)),
		Crew:         make([]domain.CrewMember, 0, len(d.Credits.Crew)),
		Cast:         make([]domain.CastMember, 0, len(d.Credits.Cast)),
		Keywords:     make([]domain.Keyword, 0, len(d.Keywords.Keywords)),
	}
	for _, g := range d.Genres {
		out.Genres = append(out.Genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	for _, c := range d.Credits.Crew {
		out.Crew = append(out.Crew, domain.CrewMember{ID: c.ID, Job: c.Job, Name: c.Name})
	}
	for _, c := range d.Credits.Cast {
		out.Cast = append(out.Cast, domain.CastMember{ID: c.ID, Name: c.Name})
	}
	for _, k := range d.Keywords.Keywords {
		out.Keywords = append(out.Keywords, domain.Keyword{ID: k.ID, Name: k.Name})
	}
	return out
}
