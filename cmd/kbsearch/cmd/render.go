package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

// Palette (256-colour codes).
const (
	colorAccent = "39"
	colorGray   = "245"
	colorGreen  = "114"
	colorYellow = "220"
)

// styles holds the CLI text styles.
type styles struct {
	Title   lipgloss.Style
	Meta    lipgloss.Style
	Score   lipgloss.Style
	Summary lipgloss.Style
	Tag     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Meta:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Summary: lipgloss.NewStyle().Italic(true).PaddingLeft(2),
		Tag:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func renderSearch(w io.Writer, query string, resp *kbsearch.SearchResponse) {
	st := defaultStyles()

	if resp.Total == 0 {
		fmt.Fprintf(w, "No articles match %q\n", query)
		return
	}

	fmt.Fprintln(w, st.Meta.Render(fmt.Sprintf(
		"%d result(s), page %d, %s (%s)", resp.Total, resp.Page, resp.Took.Round(time.Microsecond), resp.SearchID)))
	if resp.Summary != "" {
		fmt.Fprintln(w, st.Summary.Render(resp.Summary))
	}
	fmt.Fprintln(w)

	offset := (resp.Page - 1) * resp.PageSize
	for i, a := range resp.Articles {
		fmt.Fprintf(w, "%d. %s %s\n", offset+i+1, st.Title.Render(a.Title), st.Score.Render(fmt.Sprintf("[%.2f]", a.RelevanceScore)))
		fmt.Fprintf(w, "   %s\n", st.Meta.Render(fmt.Sprintf("%s · %s · %d views · updated %s",
			a.ID, a.Category, a.ViewCount, a.LastUpdated.Format("2006-01-02"))))
		if len(a.Tags) > 0 {
			fmt.Fprintf(w, "   %s\n", st.Tag.Render("#"+strings.Join(a.Tags, " #")))
		}
		fmt.Fprintf(w, "   %s\n\n", a.Snippet)
	}
	if resp.HasMore {
		fmt.Fprintln(w, st.Meta.Render(fmt.Sprintf("more results: --page %d", resp.Page+1)))
	}
}

func renderSuggestions(w io.Writer, fragment string, out []kbsearch.Suggestion) {
	st := defaultStyles()

	if len(out) == 0 {
		fmt.Fprintf(w, "No suggestions for %q\n", fragment)
		return
	}
	for _, s := range out {
		label := st.Meta.Render(string(s.Kind))
		if s.Kind != kbsearch.SuggestionRecent {
			label = st.Meta.Render(fmt.Sprintf("%s, %d article(s)", s.Kind, s.Count))
		}
		fmt.Fprintf(w, "%s  %s\n", st.Title.Render(s.Text), label)
	}
}
