package strip

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coreman2200/funtimes-ledsegs/internal/rgb"
)

// Term draws the strip as a line of coloured blocks, one per LED.
type Term struct {
	Frame
	Glyph string

	w  io.Writer
	r  *lipgloss.Renderer
	sb strings.Builder
}

func NewTerm(w io.Writer, n int) *Term {
	return &Term{Frame: NewFrame(n), Glyph: "█", w: w, r: lipgloss.NewRenderer(w)}
}

func (t *Term) Begin() error {
	t.clear()
	return nil
}

func (t *Term) Show() error {
	t.sb.Reset()
	for _, c := range t.px {
		p := rgb.NRGBA(c, 1)
		hex := fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
		t.sb.WriteString(t.r.NewStyle().Foreground(lipgloss.Color(hex)).Render(t.Glyph))
	}
	t.sb.WriteByte('\n')
	_, err := io.WriteString(t.w, t.sb.String())
	return err
}
