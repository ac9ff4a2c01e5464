package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thereceipt/qr-engine/internal/command"
)

// commandDoneMsg reports that a command changed the session
type commandDoneMsg struct {
	result *command.Result
}

// CommandModel handles command input
type CommandModel struct {
	executor   *command.Executor
	input      textinput.Model
	visible    bool
	lastResult *command.Result
	width      int
	height     int
	scrollPos  int // For scrolling long results
	history    []string
	historyPos int
}

// NewCommandModel creates a new command model
func NewCommandModel(executor *command.Executor) CommandModel {
	input := textinput.New()
	input.Placeholder = "Enter command (e.g., 'kind wifi', 'help')"
	input.CharLimit = 500
	input.Prompt = "> "
	input.PromptStyle = lipgloss.NewStyle().Foreground(Secondary)

	return CommandModel{
		executor: executor,
		input:    input,
		visible:  false,
		width:    80,
	}
}

// SetSize sets the component size
func (m *CommandModel) SetSize(width int) {
	if width < 40 {
		width = 40
	}
	m.width = width
	// Input width should account for prompt and padding
	m.input.Width = width - 6
}

// SetHeight sets the maximum height for the command view
func (m *CommandModel) SetHeight(height int) {
	m.height = height
}

// Show shows the command input
func (m *CommandModel) Show() tea.Cmd {
	m.visible = true
	m.lastResult = nil
	m.scrollPos = 0
	m.historyPos = len(m.history)
	return m.input.Focus()
}

// Hide hides the command input
func (m *CommandModel) Hide() {
	m.visible = false
	m.input.Blur()
	m.input.SetValue("")
}

// IsVisible returns whether the command input is visible
func (m *CommandModel) IsVisible() bool {
	return m.visible
}

// Update handles messages
func (m CommandModel) Update(msg tea.Msg) (CommandModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmdStr := strings.TrimSpace(m.input.Value())
			if cmdStr == "" {
				return m, nil
			}
			m.lastResult = m.executor.Execute(context.Background(), cmdStr)
			m.history = append(m.history, cmdStr)
			m.historyPos = len(m.history)
			m.input.SetValue("")
			m.scrollPos = 0
			// Keep command bar open for quick commands
			res := m.lastResult
			return m, func() tea.Msg { return commandDoneMsg{result: res} }

		case "esc":
			m.Hide()
			return m, nil

		case "up":
			if m.historyPos > 0 {
				m.historyPos--
				m.input.SetValue(m.history[m.historyPos])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.historyPos < len(m.history)-1 {
				m.historyPos++
				m.input.SetValue(m.history[m.historyPos])
				m.input.CursorEnd()
			} else {
				m.historyPos = len(m.history)
				m.input.SetValue("")
			}
			return m, nil

		case "pgup", "pageup":
			if m.scrollPos > 5 {
				m.scrollPos -= 5
			} else {
				m.scrollPos = 0
			}
			return m, nil

		case "pgdown", "pagedown":
			m.scrollPos += 5
			return m, nil

		case "ctrl+y":
			// Copy the payload text shown by the last command
			if m.lastResult != nil && m.lastResult.Success {
				if payload, ok := m.lastResult.Data["payload"].(string); ok && payload != "" {
					if err := copyToClipboard(payload); err != nil {
						m.lastResult.Message = fmt.Sprintf("%s (copy failed: %v)", m.lastResult.Message, err)
					} else {
						m.lastResult.Message = fmt.Sprintf("%s (copied payload)", m.lastResult.Message)
					}
				}
			}
			return m, nil

		default:
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	return m, cmd
}

// View renders the command input
func (m CommandModel) View() string {
	if !m.visible {
		return ""
	}

	headerHeight := 3 // Title + blank + input
	footerHeight := 2 // Help text
	availableHeight := m.height - headerHeight - footerHeight
	if m.height == 0 {
		availableHeight = 15
	}
	if availableHeight < 1 {
		availableHeight = 1
	}

	var b strings.Builder

	b.WriteString(HeaderStyle.Render("Command"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	resultLines := m.resultLines()

	totalLines := len(resultLines)
	maxScroll := totalLines - availableHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	scrollPos := m.scrollPos
	if scrollPos > maxScroll {
		scrollPos = maxScroll
	}

	start := scrollPos
	end := start + availableHeight
	if end > totalLines {
		end = totalLines
	}

	for i := start; i < end; i++ {
		b.WriteString(resultLines[i])
		b.WriteString("\n")
	}

	helpText := "Enter to execute, Esc to close, ↑/↓ history"
	if totalLines > availableHeight {
		helpText += fmt.Sprintf(", PgUp/PgDn to scroll (%d/%d)", scrollPos+1, totalLines)
	}
	if m.lastResult != nil && m.lastResult.Data["payload"] != nil {
		helpText += ", Ctrl+Y copy payload"
	}
	b.WriteString(TextMuted.Render(helpText))

	return b.String()
}

func (m CommandModel) resultLines() []string {
	if m.lastResult == nil {
		return nil
	}

	var lines []string
	width := m.width - 4

	if !m.lastResult.Success {
		for _, line := range wrapText("✗ "+m.lastResult.Error, width) {
			lines = append(lines, ErrorStyle.Render(line))
		}
		return lines
	}

	msg := m.lastResult.Message
	switch {
	case msg == "":
	case strings.Contains(msg, "\n"):
		// Help, field lists and multi-line payloads keep their layout
		for _, line := range strings.Split(msg, "\n") {
			lines = append(lines, TextNormal.Render(Truncate(line, width)))
		}
	default:
		for _, line := range wrapText("✓ "+msg, width) {
			lines = append(lines, SuccessStyle.Render(line))
		}
	}

	if path, ok := m.lastResult.Data["path"].(string); ok {
		lines = append(lines, InfoStyle.Render("  "+path))
	}
	return lines
}

func copyToClipboard(text string) error {
	// Prefer system clipboard (works in most setups including alt-screen).
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}

	// Fallback to OSC52 for terminals that support it (incl. tmux/screen).
	seq := osc52.New(text).Tmux().Screen()
	_, _ = fmt.Fprint(os.Stderr, seq)
	return fmt.Errorf("system clipboard unavailable; sent OSC52 copy sequence (may not be supported by your terminal)")
}

// wrapText wraps text to fit within a given width
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	currentLine := words[0]
	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
