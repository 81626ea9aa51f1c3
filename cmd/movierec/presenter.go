package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/John-Robertt/movierec/internal/app/session"
	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/recommend"
)

var _ session.Observer = (*presenter)(nil)

const ruleWidth = 80

// presenter 负责终端展示（只写 stdout）。
//
// 设计目标：
// - session 只发事件，presenter 决定怎么打印
// - 失败信息只在这里转成一行人话；详细错误由 logging 写到 stderr
type presenter struct {
	w io.Writer
}

func newPresenter(w io.Writer) *presenter { return &presenter{w: w} }

func (p *presenter) banner() {
	fmt.Fprintf(p.w, "\n%s\n%s\n%s\n\n", rule('='), center("MOVIE RECOMMENDATION SYSTEM"), rule('='))
}

func (p *presenter) menu() {
	fmt.Fprintf(p.w, "\n%s\n", rule('-'))
	fmt.Fprintln(p.w, "How would you like to find similar movies?")
	fmt.Fprintln(p.w, rule('-'))
	for i, item := range menuItems {
		fmt.Fprintf(p.w, "%d. %s\n", i+1, item.label)
	}
	fmt.Fprintln(p.w, rule('-'))
}

func (p *presenter) allHeader() {
	fmt.Fprintf(p.w, "\n%s\n%s\n%s\n", rule('#'), strings.Repeat(" ", 25)+"ALL RECOMMENDATIONS", rule('#'))
}

func (p *presenter) println(s string) { fmt.Fprintln(p.w, s) }

func (p *presenter) OnSearch(title string) {
	fmt.Fprintf(p.w, "\nSearching for '%s'...\n", title)
}

func (p *presenter) OnMovieSelected(d domain.MovieDetail) {
	overview := strings.TrimSpace(d.Overview)
	if overview == "" {
		overview = "No overview available."
	}
	fmt.Fprintf(p.w, "\n%s\n", rule('='))
	fmt.Fprintf(p.w, "Title: %s (%s)\n", titleOrUnknown(d.Title), yearOrUnknown(d.MovieSummary))
	fmt.Fprintf(p.w, "Rating: %s/10\n", formatRating(d.VoteAverage))
	fmt.Fprintf(p.w, "Overview: %s\n", overview)
	fmt.Fprintln(p.w, rule('='))
}

func (p *presenter) OnNotFound(title string, err error) {
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		fmt.Fprintf(p.w, "Error searching for movie: %v\n", err)
	}
	fmt.Fprintf(p.w, "Could not find movie: %s\n", title)
}

func (p *presenter) OnRecommendations(c domain.Criterion, movies []domain.MovieSummary, err error) {
	if err != nil && !errors.Is(err, recommend.ErrMissingField) && !errors.Is(err, session.ErrNoMovie) {
		fmt.Fprintf(p.w, "\nError getting %s recommendations: %v\n", strings.ToLower(c.Label()), err)
	}
	if len(movies) == 0 {
		fmt.Fprintf(p.w, "\nNo recommendations found based on %s.\n", c.Label())
		return
	}

	fmt.Fprintf(p.w, "\n\n%s\n", rule('#'))
	fmt.Fprintf(p.w, "RECOMMENDATIONS BASED ON %s\n", strings.ToUpper(c.Label()))
	fmt.Fprintln(p.w, rule('#'))
	for i, m := range movies {
		fmt.Fprintf(p.w, "\n%d. %s (%s) - Rating: %s/10\n", i+1, titleOrUnknown(m.Title), yearOrUnknown(m), formatRating(m.VoteAverage))
	}
}

func rule(ch byte) string { return strings.Repeat(string(ch), ruleWidth) }

func center(s string) string { return strings.Repeat(" ", 20) + s }

func titleOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func yearOrUnknown(m domain.MovieSummary) string {
	if y := m.Year(); y != "" {
		return y
	}
	return "Unknown"
}

// formatRating 保留远端给出的精度（8.4 -> "8.4"，8 -> "8"）。
func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
