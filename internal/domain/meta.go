package domain

// MovieSummary 是搜索/发现接口返回的最小影片信息（只读、不落盘）。
//
// 约束：ReleaseDate 缺失时为空串；展示层负责把空串显示为 Unknown。
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
}

// Year 返回 release_date 的前四位；缺失或格式过短时返回空串。
func (m MovieSummary) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CrewMember struct {
	ID   int    `json:"id"`
	Job  string `json:"job"`
	Name string `json:"name"`
}

// CastMember 按 billing 顺序出现在 MovieDetail.Cast 中。
type CastMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail 是“当前影片”的完整元数据：每次选片只拉取一次，切换影片时整体替换。
//
// 约束：
// - Crew/Cast/Keywords 保持远端详情响应中的原始顺序（不在本地重排）
// - 字段缺失允许为空切片，由 recommend 包决定对应 criterion 的降级行为
type MovieDetail struct {
	MovieSummary

	Genres   []Genre      `json:"genres"`
	Crew     []CrewMember `json:"crew"`
	Cast     []CastMember `json:"cast"`
	Keywords []Keyword    `json:"keywords"`
}

// GenreIDs 按原始顺序返回全部 genre id。
func (d MovieDetail) GenreIDs() []int {
	ids := make([]int, 0, len(d.Genres))
	for _, g := range d.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
