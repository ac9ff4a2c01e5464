// Package tui is the interactive terminal front end of the qr engine
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/thereceipt/qr-engine/internal/command"
	"github.com/thereceipt/qr-engine/internal/export"
	"github.com/thereceipt/qr-engine/internal/renderer"
	"github.com/thereceipt/qr-engine/internal/session"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

// focusArea is the part of the screen that receives keys
type focusArea int

const (
	focusKinds focusArea = iota
	focusForm
)

// Messages
type previewMsg session.Result
type exportDoneMsg struct {
	saved *export.Saved
	err   error
}
type copyDoneMsg struct {
	err error
}

const (
	sidebarWidth  = 24
	consoleHeight = 4
)

// App is the main Bubble Tea model
type App struct {
	// Dependencies
	session  *session.Session
	executor *command.Executor
	backend  renderer.Backend
	format   export.Format

	// UI State
	focus      focusArea
	kindCursor int
	width      int
	height     int
	ready      bool
	quitting   bool

	// Status line message
	status      string
	statusLevel string

	logs     *LogConsole
	previews chan session.Result

	// Components
	form    FormModel
	preview PreviewModel
	command CommandModel
}

// NewApp creates a new Bubble Tea TUI application. logs may be shared with
// the session logger so its output lands in the console pane.
func NewApp(s *session.Session, backend renderer.Backend, format export.Format, logs *LogConsole) *App {
	if backend == nil {
		backend, _ = renderer.NewBackend("")
	}
	if logs == nil {
		logs = NewLogConsole(100)
	}

	app := &App{
		session:  s,
		executor: command.NewExecutor(s, format),
		backend:  backend,
		format:   format,
		logs:     logs,
		previews: make(chan session.Result, 1),
	}

	app.form = NewFormModel(s.Kind())
	app.preview = NewPreviewModel(backend)
	app.command = NewCommandModel(app.executor)
	app.kindCursor = kindIndex(s.Kind())

	return app
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.waitForPreview()
}

// waitForPreview blocks until the next debounced preview arrives
func (a *App) waitForPreview() tea.Cmd {
	ch := a.previews
	return func() tea.Msg {
		return previewMsg(<-ch)
	}
}

// deliver hands a preview to the UI loop, replacing one not yet picked up
func (a *App) deliver(res session.Result) {
	for {
		select {
		case a.previews <- res:
			return
		default:
			select {
			case <-a.previews:
			default:
			}
		}
	}
}

func (a *App) schedulePreview() {
	a.session.SchedulePreview(context.Background(), a.deliver)
}

// syncForm copies the form into the session and reschedules the preview
func (a *App) syncForm() {
	for id, v := range a.form.Values() {
		if err := a.session.Set(id, v); err != nil {
			a.setStatus(err.Error(), "error")
			return
		}
	}
	a.schedulePreview()
}

// loadForm rebuilds the form from the session after a command changed it
func (a *App) loadForm() {
	kind := a.session.Kind()
	a.form.SetKind(kind)
	a.kindCursor = kindIndex(kind)
	for id, v := range a.session.Values() {
		_ = a.form.SetValue(id, v)
	}
	a.form.SetSize(a.formWidth())
}

func (a *App) selectKind(delta int) {
	kinds := qrformat.AllKinds()
	a.kindCursor = (a.kindCursor + delta + len(kinds)) % len(kinds)
	kind := kinds[a.kindCursor]

	if err := a.session.SetKind(kind); err != nil {
		a.setStatus(err.Error(), "error")
		return
	}
	a.form.SetKind(kind)
	a.form.SetSize(a.formWidth())
	a.preview.Clear()
	a.schedulePreview()
}

func (a *App) setStatus(message, level string) {
	a.status = message
	a.statusLevel = level
	a.logs.add(message, level)
}

// updateStyle applies fn to a copy of the style and previews the result
func (a *App) updateStyle(fn func(*qrformat.Style)) {
	style := a.session.Style()
	fn(&style)
	if err := a.session.SetStyle(style); err != nil {
		a.setStatus(err.Error(), "error")
		return
	}
	a.schedulePreview()
}

func (a *App) exportCmd(format export.Format) tea.Cmd {
	s := a.session
	return func() tea.Msg {
		// Export what the form holds now, not what the last preview saw
		if _, err := s.Build(); err != nil {
			return exportDoneMsg{err: err}
		}
		saved, err := s.Export(context.Background(), format)
		return exportDoneMsg{saved: saved, err: err}
	}
}

func (a *App) copyCmd() tea.Cmd {
	s := a.session
	return func() tea.Msg {
		if _, err := s.Build(); err != nil {
			return copyDoneMsg{err: err}
		}
		return copyDoneMsg{err: s.Copy(context.Background())}
	}
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Handle command area first if visible - it has priority
		if a.command.IsVisible() {
			newCmd, cmd := a.command.Update(msg)
			a.command = newCmd
			return a, cmd
		}

		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}

		if a.focus == focusForm {
			if msg.String() == "esc" {
				a.focus = focusKinds
				a.form.Blur()
				return a, nil
			}
			before := a.form.Values()
			newForm, cmd := a.form.Update(msg)
			a.form = newForm
			if !sameValues(before, a.form.Values()) {
				a.syncForm()
			}
			return a, cmd
		}

		switch msg.String() {
		case ":":
			a.command.SetSize(maxInt(20, a.width))
			a.command.SetHeight(a.bottomAreaHeight(true))
			cmds = append(cmds, a.command.Show())
		case "q":
			a.quitting = true
			return a, tea.Quit
		case "up", "k":
			a.selectKind(-1)
		case "down", "j":
			a.selectKind(1)
		case "enter", "tab", "right", "l":
			a.focus = focusForm
			cmds = append(cmds, a.form.Focus())
		case "e":
			cmds = append(cmds, a.exportCmd(export.FormatPNG))
		case "s":
			cmds = append(cmds, a.exportCmd(export.FormatSVG))
		case "c":
			cmds = append(cmds, a.copyCmd())
		case "r":
			a.session.Reset()
			a.loadForm()
			a.preview.Clear()
			a.setStatus("Form reset", "info")
		case "d":
			a.updateStyle(func(st *qrformat.Style) { st.Dots = cycle(qrformat.DotStyles(), st.Dots) })
		case "o":
			a.updateStyle(func(st *qrformat.Style) { st.Eyes = cycle(qrformat.EyeStyles(), st.Eyes) })
		case "b":
			a.updateStyle(func(st *qrformat.Style) { st.BackgroundEnabled = !st.BackgroundEnabled })
		case "+", "=":
			a.updateStyle(func(st *qrformat.Style) { st.LogoSize = minInt(st.LogoSize+2, qrformat.MaxLogoSize) })
		case "-":
			a.updateStyle(func(st *qrformat.Style) { st.LogoSize = maxInt(st.LogoSize-2, 0) })
		case "x":
			if a.session.HasLogo() {
				a.session.RemoveLogo()
				a.schedulePreview()
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.form.SetSize(a.formWidth())
		a.command.SetSize(a.width)
		a.command.SetHeight(a.bottomAreaHeight(a.command.IsVisible()))

	case previewMsg:
		res := session.Result(msg)
		a.preview.Apply(res, a.session.Style())
		if res.Err != nil && !qrformat.IsValidation(res.Err) {
			a.setStatus(qrformat.UserMessage(res.Err), "error")
		}
		cmds = append(cmds, a.waitForPreview())

	case commandDoneMsg:
		if msg.result.Refresh {
			a.loadForm()
			a.schedulePreview()
		}
		if msg.result.Success {
			a.setStatus(firstLine(msg.result.Message), "info")
		} else {
			a.setStatus(msg.result.Error, "error")
		}

	case exportDoneMsg:
		if msg.err != nil {
			a.setStatus(errorText(msg.err), "error")
		} else {
			a.setStatus(fmt.Sprintf("Saved %s (%s)", msg.saved.Path, humanize.Bytes(uint64(msg.saved.Bytes))), "success")
		}

	case copyDoneMsg:
		if msg.err != nil {
			a.setStatus(errorText(msg.err), "error")
		} else {
			a.setStatus("Copied to clipboard", "success")
		}
	}

	return a, tea.Batch(cmds...)
}

// View renders the UI
func (a *App) View() string {
	if a.quitting {
		return "\n  Goodbye!\n\n"
	}

	if !a.ready {
		return "\n  Loading...\n"
	}

	contentHeight := a.height - a.bottomAreaHeight(a.command.IsVisible())
	if contentHeight < 1 {
		contentHeight = 1
	}
	contentWidth := a.width - sidebarWidth - 1
	if contentWidth < 20 {
		contentWidth = 20
	}
	sidebar := a.renderSidebar(sidebarWidth, contentHeight)
	content := a.renderContent(contentWidth, contentHeight)
	top := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)

	var bottom string
	if a.command.IsVisible() {
		bottom = a.renderCommandArea()
	} else {
		bottom = lipgloss.JoinVertical(lipgloss.Left, a.renderConsole(), a.renderStatusBar())
	}

	fullView := lipgloss.JoinVertical(lipgloss.Left, top, bottom)

	// Fill exactly a.height lines to clear leftover content
	lines := strings.Split(fullView, "\n")
	if len(lines) < a.height {
		for len(lines) < a.height {
			lines = append(lines, strings.Repeat(" ", a.width))
		}
	} else if len(lines) > a.height {
		lines = lines[:a.height]
	}

	return strings.Join(lines, "\n")
}

func (a *App) renderSidebar(width, height int) string {
	var lines []string

	lines = append(lines, LogoStyle.Render("QR Engine"))
	lines = append(lines, TextMuted.Render("backend "+a.backend.Name()))
	lines = append(lines, "")
	lines = append(lines, SectionHeaderStyle.Render(" TYPE"))

	for i, k := range qrformat.AllKinds() {
		itemText := " " + k.Label()
		padding := width - lipgloss.Width(itemText) - 2
		if padding > 0 {
			itemText += strings.Repeat(" ", padding)
		}

		switch {
		case i == a.kindCursor && a.focus == focusKinds:
			lines = append(lines, SidebarActiveStyle.Render(itemText))
		case i == a.kindCursor:
			lines = append(lines, SelectedItemStyle.Render(itemText))
		default:
			lines = append(lines, SidebarItemStyle.Render(itemText))
		}
	}

	content := strings.Join(lines, "\n")
	for lipgloss.Height(content) < height-2 {
		content += "\n"
	}

	return SidebarStyle.
		Width(width).
		Height(height).
		Render(content)
}

func (a *App) formWidth() int {
	contentWidth := a.width - sidebarWidth - 1
	w := contentWidth - a.previewWidth() - 4
	if w < 24 {
		w = 24
	}
	return w
}

func (a *App) previewWidth() int {
	w := (a.width - sidebarWidth) / 2
	if w < 30 {
		w = 30
	}
	return w
}

func (a *App) renderContent(width, height int) string {
	form := lipgloss.NewStyle().Width(a.formWidth()).Render(a.form.View() + "\n" + a.renderHelp())
	preview := lipgloss.NewStyle().PaddingLeft(2).Render(a.preview.View())
	content := lipgloss.JoinHorizontal(lipgloss.Top, form, preview)

	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
		content = strings.Join(lines, "\n")
	}

	return ContentStyle.
		Width(width).
		Height(height).
		Render(content)
}

func (a *App) renderHelp() string {
	var keys []string
	if a.focus == focusForm {
		keys = []string{
			RenderHelp("tab", "next field"),
			RenderHelp("←/→", "option"),
			RenderHelp("esc", "done"),
		}
	} else {
		keys = []string{
			RenderHelp("↑/↓", "type"),
			RenderHelp("enter", "edit"),
			RenderHelp("e/s", "png/svg"),
			RenderHelp("c", "copy"),
			RenderHelp("d/o", "dots/eyes"),
			RenderHelp("b", "background"),
			RenderHelp("+/-", "logo"),
			RenderHelp("r", "reset"),
			RenderHelp(":", "command"),
		}
	}
	return strings.Join(wrapKeys(keys, a.formWidth()), "\n")
}

func (a *App) renderConsole() string {
	var lines []string
	for _, e := range a.logs.tail(consoleHeight - 1) {
		line := Truncate(e.time.Format("15:04:05")+" "+e.message, maxInt(10, a.width-2))
		switch e.level {
		case "error":
			lines = append(lines, ErrorStyle.Render(line))
		case "warning":
			lines = append(lines, WarningStyle.Render(line))
		case "success":
			lines = append(lines, SuccessStyle.Render(line))
		default:
			lines = append(lines, TextMuted.Render(line))
		}
	}
	for len(lines) < consoleHeight-1 {
		lines = append(lines, "")
	}
	return ConsoleStyle.Width(a.width).Render(strings.Join(lines, "\n"))
}

func (a *App) renderStatusBar() string {
	base := lipgloss.NewStyle().Background(BgCard).Foreground(colorTextNormal)

	seg := func(text string, fg, bg lipgloss.Color, bold bool) string {
		s := lipgloss.NewStyle().Foreground(fg).Background(bg).Padding(0, 1)
		if bold {
			s = s.Bold(true)
		}
		return s.Render(text)
	}
	pipe := base.Render(" | ")

	modeText := "NAV"
	modeBg := BgHover
	switch {
	case a.command.IsVisible():
		modeText = "CMD"
		modeBg = Warning
	case a.focus == focusForm:
		modeText = "FORM"
		modeBg = Secondary
	}
	mode := seg(modeText, colorTextBright, modeBg, true)

	kind := seg(string(a.session.Kind()), colorTextBright, Primary, false)

	logoText := "no logo"
	if a.session.HasLogo() {
		logoText = "logo"
	}
	logo := seg(logoText, colorTextBright, BgHover, false)

	exportText := "export off"
	exportBg := BgHover
	if _, ok := a.session.Payload(); ok {
		exportText = "export " + string(a.format)
		exportBg = Success
	}
	exp := seg(exportText, colorTextBright, exportBg, false)

	msgText := "ready"
	msgBg := BgCard
	msgFg := colorTextNormal
	if a.status != "" {
		msgText = a.status
		msgFg = colorTextBright
		switch a.statusLevel {
		case "error":
			msgBg = Error
		case "warning":
			msgBg = Warning
		case "success":
			msgBg = Success
		default:
			msgBg = BgConsole
		}
	}

	sid := seg(a.session.ID()[:8], colorTextBright, Primary, true)

	leftFixed := mode + pipe + kind + pipe + logo + pipe + exp + pipe
	remaining := a.width - lipgloss.Width(leftFixed) - lipgloss.Width(pipe) - lipgloss.Width(sid)
	if remaining < 10 {
		remaining = 10
	}
	msg := seg(Truncate(msgText, remaining), msgFg, msgBg, false)

	left := leftFixed + msg
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(pipe) - lipgloss.Width(sid)
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + pipe + sid
	return base.Width(a.width).Render(line)
}

func (a *App) renderCommandArea() string {
	base := lipgloss.NewStyle().Background(BgCard).Foreground(colorTextNormal)
	view := a.command.View()

	lines := strings.Split(view, "\n")
	h := a.bottomAreaHeight(true)
	if len(lines) < h {
		for len(lines) < h {
			lines = append(lines, "")
		}
	} else if len(lines) > h {
		lines = lines[len(lines)-h:]
	}
	return base.Width(a.width).Height(h).Render(strings.Join(lines, "\n"))
}

func (a *App) bottomAreaHeight(commandVisible bool) int {
	if commandVisible {
		h := a.height / 3
		if h < 6 {
			h = 6
		}
		if h > 12 {
			h = 12
		}
		return h
	}
	// Console with its top border, then the status bar
	return consoleHeight + 1
}

// LogWriter returns an io.Writer feeding the log console
func (a *App) LogWriter() io.Writer {
	return a.logs
}

// Run starts the TUI
func (a *App) Run() error {
	defer a.session.Close()

	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// errorText returns the user-facing text for an error from the session
func errorText(err error) string {
	if qrformat.IsValidation(err) {
		return qrformat.UserMessage(err)
	}
	var re *qrformat.RenderError
	if errors.As(err, &re) {
		return qrformat.RenderMessage
	}
	return err.Error()
}

func kindIndex(k qrformat.Kind) int {
	for i, kind := range qrformat.AllKinds() {
		if kind == k {
			return i
		}
	}
	return 0
}

func cycle(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func sameValues(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// wrapKeys joins help items into lines no wider than width
func wrapKeys(items []string, width int) []string {
	var lines []string
	var current string
	for _, item := range items {
		switch {
		case current == "":
			current = item
		case lipgloss.Width(current)+2+lipgloss.Width(item) <= width:
			current += "  " + item
		default:
			lines = append(lines, current)
			current = item
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
