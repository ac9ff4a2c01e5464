package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thereceipt/qr-engine/internal/renderer"
	"github.com/thereceipt/qr-engine/internal/session"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

// PreviewModel shows the current code with half-block characters
type PreviewModel struct {
	backend renderer.Backend
	code    string
	payload string
	pixels  int
	message string
	failed  bool
}

// NewPreviewModel creates an empty preview
func NewPreviewModel(backend renderer.Backend) PreviewModel {
	if backend == nil {
		backend, _ = renderer.NewBackend("")
	}
	return PreviewModel{backend: backend}
}

// Apply takes a scheduled preview result
func (m *PreviewModel) Apply(res session.Result, style qrformat.Style) {
	if res.Err != nil {
		m.code = ""
		m.payload = ""
		m.pixels = 0
		m.message = qrformat.UserMessage(res.Err)
		m.failed = true
		return
	}

	matrix, err := m.backend.Encode(res.Preview.Payload)
	if err != nil {
		m.code = ""
		m.message = qrformat.RenderMessage
		m.failed = true
		return
	}

	m.code = halfBlocks(matrix, 1, style)
	m.payload = res.Preview.Payload
	m.pixels = res.Preview.Image.Bounds().Dx()
	m.message = ""
	m.failed = false
}

// Clear drops the preview
func (m *PreviewModel) Clear() {
	m.code = ""
	m.payload = ""
	m.pixels = 0
	m.message = ""
	m.failed = false
}

// Ready reports whether a preview is shown
func (m PreviewModel) Ready() bool {
	return m.code != ""
}

// View renders the preview card
func (m PreviewModel) View() string {
	var b strings.Builder
	b.WriteString(CardTitleStyle.Render("Preview"))
	b.WriteString("\n")

	switch {
	case m.failed:
		b.WriteString(ErrorStyle.Render(m.message))
	case m.code == "":
		b.WriteString(TextMuted.Render("Fill in the form to generate a code"))
	default:
		b.WriteString(m.code)
		b.WriteString("\n")
		b.WriteString(TextMuted.Render(fmt.Sprintf("%d×%d px, %d chars", m.pixels, m.pixels, len(m.payload))))
	}
	return b.String()
}

// halfBlocks draws two module rows per text line, surrounded by a quiet zone
// of margin modules
func halfBlocks(matrix *renderer.Matrix, margin int, style qrformat.Style) string {
	n := matrix.Size()
	dark := func(x, y int) bool {
		return matrix.Dark(x-margin, y-margin)
	}

	var lines []string
	total := n + 2*margin
	for y := 0; y < total; y += 2 {
		var row strings.Builder
		for x := 0; x < total; x++ {
			top, bottom := dark(x, y), dark(x, y+1)
			switch {
			case top && bottom:
				row.WriteRune('█')
			case top:
				row.WriteRune('▀')
			case bottom:
				row.WriteRune('▄')
			default:
				row.WriteRune(' ')
			}
		}
		lines = append(lines, row.String())
	}

	s := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Foreground))
	if bg := style.BackgroundColor(); bg != qrformat.Transparent {
		s = s.Background(lipgloss.Color(bg))
	}
	return s.Render(strings.Join(lines, "\n"))
}
