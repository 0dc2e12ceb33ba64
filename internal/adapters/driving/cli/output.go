package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// styles holds the terminal styles used for tables.
type styles struct {
	Header  lipgloss.Style
	Muted   lipgloss.Style
	High    lipgloss.Style
	Mid     lipgloss.Style
	Low     lipgloss.Style
	Heading lipgloss.Style
}

func newStyles(colour bool) styles {
	if !colour {
		plain := lipgloss.NewStyle()
		return styles{Header: plain, Muted: plain, High: plain, Mid: plain, Low: plain, Heading: plain}
	}
	return styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		High:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Mid:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Low:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
}

// stylesFor enables colour only when w is a terminal.
func stylesFor(w io.Writer) styles {
	f, ok := w.(*os.File)
	return newStyles(ok && term.IsTerminal(int(f.Fd())))
}

// scoreStyle picks a colour band for a total score out of 100.
func (s styles) scoreStyle(total float64) lipgloss.Style {
	switch {
	case total >= 70:
		return s.High
	case total >= 40:
		return s.Mid
	default:
		return s.Low
	}
}

// pad right-pads to a display width. Hangul counts as two columns.
func pad(text string, width int) string {
	if w := lipgloss.Width(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}

// truncate shortens text to at most width display columns.
func truncate(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	var b strings.Builder
	for _, r := range text {
		if lipgloss.Width(b.String()+string(r)+"…") > width {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func formatWon(amount float64) string {
	switch {
	case amount >= 100_000_000:
		return trimZero(fmt.Sprintf("%.1f", amount/100_000_000)) + "억원"
	case amount >= 10_000:
		return trimZero(fmt.Sprintf("%.1f", amount/10_000)) + "만원"
	default:
		return fmt.Sprintf("%.0f원", amount)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
