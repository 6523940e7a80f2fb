package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Theme colors
var (
	ColorCyan   = lipgloss.Color("#00d4ff")
	ColorPurple = lipgloss.Color("#8b5cf6")
	ColorOrange = lipgloss.Color("#f97316")
	ColorField  = lipgloss.Color("#0099cc")
)

const (
	wordmark = "HYPERNODE"
	tagline  = "VAGRANT RUNNER"
)

// letterGlyph holds the three rows of a block-art character.
type letterGlyph struct {
	Top string
	Mid string
	Bot string
}

// glyphs maps rune to its block-art representation.
var glyphs = map[rune]letterGlyph{
	'H': {
		Top: `█  █`,
		Mid: `█▄▄█`,
		Bot: `█  █`,
	},
	'Y': {
		Top: `█   █`,
		Mid: `▀▄ ▄▀`,
		Bot: `  █  `,
	},
	'P': {
		Top: `█▀▀▄`,
		Mid: `█▄▄▀`,
		Bot: `█   `,
	},
	'E': {
		Top: `█▀▀▀`,
		Mid: `█▄▄ `,
		Bot: `█▄▄▄`,
	},
	'R': {
		Top: `█▀▀▄`,
		Mid: `█▄▄▀`,
		Bot: `█  █`,
	},
	'N': {
		Top: `█▄  █`,
		Mid: `█ ▀▄█`,
		Bot: `█   █`,
	},
	'O': {
		Top: `▄▀▀▄`,
		Mid: `█  █`,
		Bot: `▀▄▄▀`,
	},
	'D': {
		Top: `█▀▀▄`,
		Mid: `█  █`,
		Bot: `█▄▄▀`,
	},
}

// buildWordmark assembles the 3-row block text for a given word.
func buildWordmark(word string) [3]string {
	var rows [3]string
	for i, ch := range word {
		g, ok := glyphs[ch]
		if !ok {
			continue
		}
		if i > 0 {
			rows[0] += " "
			rows[1] += " "
			rows[2] += " "
		}
		rows[0] += g.Top
		rows[1] += g.Mid
		rows[2] += g.Bot
	}
	return rows
}

// applyGradient colors a string with a linear gradient from colorA to colorB.
func applyGradient(s string, colorA, colorB lipgloss.Color) string {
	runes := []rune(s)
	n := len(runes)
	if n == 0 {
		return s
	}

	aR, aG, aB, _ := colorA.RGBA()
	bR, bG, bB, _ := colorB.RGBA()

	var out strings.Builder
	for i, r := range runes {
		if r == ' ' {
			out.WriteRune(r)
			continue
		}
		t := float64(i) / float64(max(n-1, 1))
		cr := uint8(float64(aR>>8)*(1-t) + float64(bR>>8)*t)
		cg := uint8(float64(aG>>8)*(1-t) + float64(bG>>8)*t)
		cb := uint8(float64(aB>>8)*(1-t) + float64(bB>>8)*t)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", cr, cg, cb)))
		out.WriteString(style.Render(string(r)))
	}
	return out.String()
}

// CompactHeaderThreshold is the terminal height below which the header
// collapses to a single line.
const CompactHeaderThreshold = 15

const defaultBannerWidth = 80

// HeaderInfo describes the box being started.
type HeaderInfo struct {
	RunID string
	PHP   string
	Image string
}

func (info HeaderInfo) String() string {
	return fmt.Sprintf("php %s ╱╱ %s ╱╱ %s", info.PHP, info.Image, info.RunID)
}

// PrintHeader writes the header to w, sized to the terminal on stdout.
func PrintHeader(w io.Writer, info *HeaderInfo) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	width, height = normalizeBannerSize(width, height, err)
	writeBanner(w, info, width, height)
}

func writeBanner(w io.Writer, info *HeaderInfo, width, height int) {
	fmt.Fprintln(w, RenderHeader(info, width, height))
	fmt.Fprintln(w)
}

func normalizeBannerSize(width int, height int, err error) (int, int) {
	if err != nil || width <= 0 {
		width = defaultBannerWidth
	}
	if err != nil || height <= 0 {
		height = 0
	}
	return width, height
}

// RenderHeader produces the wordmark with tagline and, when info is not nil,
// the run details. It uses the compact layout when height is below
// CompactHeaderThreshold.
func RenderHeader(info *HeaderInfo, width, height int) string {
	if width < 40 {
		width = 40
	}
	if height > 0 && height < CompactHeaderThreshold {
		return renderCompactHeader(info, width)
	}
	return renderFullHeader(info, width)
}

// renderCompactHeader produces a single line: gradient name, tagline, a
// field of diagonal characters and the run details.
func renderCompactHeader(info *HeaderInfo, width int) string {
	fieldChar := lipgloss.NewStyle().Foreground(ColorField).Render("╱")

	name := applyGradient(wordmark, ColorCyan, ColorPurple)
	tag := lipgloss.NewStyle().Foreground(ColorOrange).Italic(true).Render(tagline)

	details := ""
	if info != nil {
		details = " " + lipgloss.NewStyle().Foreground(ColorField).Render(info.String())
	}

	pad := strings.Repeat(fieldChar, 3)

	fixedWidth := 3 + 1 + ansi.StringWidth(wordmark) + 2 + ansi.StringWidth(tagline) + 1 + ansi.StringWidth(details) + 1 + 3
	fill := max(width-fixedWidth, 1)

	return pad + " " + name + "  " + tag + " " + strings.Repeat(fieldChar, fill) + details + " " + pad
}

func renderFullHeader(info *HeaderInfo, width int) string {
	rows := buildWordmark(wordmark)
	wordmarkWidth := ansi.StringWidth(rows[0])

	tag := lipgloss.NewStyle().Foreground(ColorOrange).Italic(true).Render(tagline)
	fieldChar := lipgloss.NewStyle().Foreground(ColorField).Render("╱")
	leftFieldCharLen := 3
	leftPadLen := leftFieldCharLen + 2

	var lines []string
	for i := 0; i < 3; i++ {
		coloredRow := applyGradient(rows[i], ColorCyan, ColorPurple)
		remaining := max(width-wordmarkWidth-leftPadLen, 0)
		lines = append(lines, strings.Repeat(fieldChar, leftFieldCharLen)+"  "+coloredRow+strings.Repeat(fieldChar, remaining))
	}

	last := strings.Repeat(" ", leftPadLen) + tag
	if info != nil {
		details := lipgloss.NewStyle().Foreground(ColorField).Render(info.String())
		gap := max(width-leftPadLen-ansi.StringWidth(tag)-ansi.StringWidth(details), 2)
		last += strings.Repeat(" ", gap) + details
	}
	lines = append(lines, last)

	return strings.Join(lines, "\n")
}
