// Package tui is the terminal front end of the calculator.
package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/njchilds90/integralcalc/internal/calc"
	"github.com/njchilds90/integralcalc/internal/calcerr"
	"github.com/njchilds90/integralcalc/internal/config"
	"github.com/njchilds90/integralcalc/internal/confetti"
	"github.com/njchilds90/integralcalc/internal/history"
	"github.com/njchilds90/integralcalc/internal/plot"
	"github.com/njchilds90/integralcalc/internal/translate"
)

const (
	focusFunction = iota
	focusLower
	focusUpper
	focusKeypad
	focusCount
)

const (
	defaultWidth  = 100
	defaultHeight = 32
	chartHeight   = 14

	// The confetti burst works in pixels; one cell is about 8x16.
	cellWidth         = 8
	cellHeight        = 16
	confettiRows      = 4
	confettiParticles = 100
)

const helpLine = "enter calculate • ctrl+d derivative • ctrl+s simplify • ctrl+l clear • tab focus • f2 menu • ctrl+c quit"

const aboutText = `Graphical Integral Calculator

Integrates a function of x symbolically, evaluates the definite
integral between two limits and plots the area.

Also computes derivatives, simplifies expressions, keeps a history
of calculations and exports it to PDF or XLSX.`

type confettiTickMsg struct{ gen int }

type dialog struct {
	title, body string
	failed      bool
}

type promptKind int

const (
	promptPDF promptKind = iota
	promptXLSX
	promptPlot
)

type prompt struct {
	kind  promptKind
	title string
	input textinput.Model
}

// Deps are the services the model drives. Calculator is required; the
// rest have defaults.
type Deps struct {
	Calculator *calc.Calculator
	Renderer   *plot.Renderer
	Exports    config.ExportConfig
	Log        *zap.Logger
	Rand       *rand.Rand
}

type Model struct {
	calc     *calc.Calculator
	store    *history.Store
	renderer *plot.Renderer
	exports  config.ExportConfig
	log      *zap.Logger
	rng      *rand.Rand

	width, height int
	inputs        [3]textinput.Model
	focus         int
	lastInput     int
	keypad        keypad
	menu          MenuModel
	dialog        *dialog
	prompt        prompt
	prompting     bool
	viewer        viewport.Model
	viewing       bool
	burst         *confetti.Burst
	burstGen      int
	figure        *plot.Figure
}

func NewModel(d Deps) Model {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Renderer == nil {
		d.Renderer = plot.NewRenderer(plot.DefaultConfig(), d.Log)
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	defaults := config.DefaultConfig().Export
	if d.Exports.PDF == "" {
		d.Exports.PDF = defaults.PDF
	}
	if d.Exports.XLSX == "" {
		d.Exports.XLSX = defaults.XLSX
	}
	if d.Exports.Plot == "" {
		d.Exports.Plot = defaults.Plot
	}

	m := Model{
		calc:     d.Calculator,
		store:    d.Calculator.History(),
		renderer: d.Renderer,
		exports:  d.Exports,
		log:      d.Log,
		rng:      d.Rand,
		menu:     NewMenuModel(),
		figure:   d.Renderer.Current(),
	}
	placeholders := [3]string{"x**2", "0", "2"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 32
		ti.TextStyle = lipgloss.NewStyle().Foreground(Text)
		ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(Muted)
		m.inputs[i] = ti
	}
	m.inputs[focusFunction].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.list.SetSize(clamp(msg.Width-4, 10, 48), clamp(msg.Height-4, 5, 20))
		m.viewer.Width, m.viewer.Height = m.viewerSize()
		return m, nil

	case confettiTickMsg:
		if msg.gen != m.burstGen || m.burst == nil {
			return m, nil
		}
		if !m.burst.Step() {
			m.burst = nil
			return m, nil
		}
		return m, confettiTick(m.burstGen)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch {
	case m.prompting:
		m.prompt.input, cmd = m.prompt.input.Update(msg)
	case m.focus != focusKeypad:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case m.dialog != nil:
		m.dialog = nil
		return m, nil

	case m.prompting:
		switch msg.String() {
		case "esc":
			m.prompting = false
			m.calc.SetStatus("Export cancelled.")
			return m, nil
		case "enter":
			m.prompting = false
			path := strings.TrimSpace(m.prompt.input.Value())
			if path == "" {
				path = m.prompt.input.Placeholder
			}
			m.export(m.prompt.kind, path)
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt.input, cmd = m.prompt.input.Update(msg)
		return m, cmd

	case m.viewing:
		switch msg.String() {
		case "esc", "q":
			m.viewing = false
			return m, nil
		}
		var cmd tea.Cmd
		m.viewer, cmd = m.viewer.Update(msg)
		return m, cmd

	case m.menu.active:
		var action menuAction
		var cmd tea.Cmd
		m.menu, action, cmd = m.menu.Update(msg)
		if action != actionNone {
			cmd = m.run(action)
			return m, cmd
		}
		return m, cmd
	}

	switch msg.String() {
	case "f2", "ctrl+o":
		m.menu.open()
		return m, nil
	case "ctrl+d":
		m.derive()
		return m, nil
	case "ctrl+s":
		m.simplify()
		return m, nil
	case "ctrl+l":
		cmd := m.clear()
		return m, cmd
	case "tab":
		cmd := m.setFocus((m.focus + 1) % focusCount)
		return m, cmd
	case "shift+tab":
		cmd := m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, cmd
	case "esc":
		return m, nil
	case "enter":
		if m.focus == focusKeypad {
			cmd := m.pressKey(m.keypad.selected())
			return m, cmd
		}
		cmd := m.calculate()
		return m, cmd
	}

	if m.focus == focusKeypad {
		switch msg.String() {
		case "up", "k":
			m.keypad.move(-1, 0)
		case "down", "j":
			m.keypad.move(1, 0)
		case "left", "h":
			m.keypad.move(0, -1)
		case "right", "l":
			m.keypad.move(0, 1)
		case " ":
			cmd := m.pressKey(m.keypad.selected())
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f int) tea.Cmd {
	m.focus = f
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if f == focusKeypad {
		return nil
	}
	m.lastInput = f
	return m.inputs[f].Focus()
}

func (m *Model) calculate() tea.Cmd {
	res, err := m.calc.ComputeDefinite(m.inputs[focusFunction].Value(), m.inputs[focusLower].Value(), m.inputs[focusUpper].Value())
	if err != nil {
		m.fail(err)
		return nil
	}
	m.figure = m.renderer.Render(res.Function, res.Lower, res.Upper)
	if m.figure.Status != "" {
		m.calc.SetStatus(m.figure.Status)
	}
	return m.celebrate()
}

func (m *Model) derive() {
	if _, err := m.calc.ComputeDerivative(m.inputs[focusFunction].Value()); err != nil {
		m.fail(err)
	}
}

func (m *Model) simplify() {
	out, err := m.calc.Simplify(m.inputs[focusFunction].Value())
	if err != nil {
		m.fail(err)
		return
	}
	m.inputs[focusFunction].SetValue(out)
	m.inputs[focusFunction].CursorEnd()
}

func (m *Model) clear() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.figure = m.renderer.Clear()
	m.calc.Reset()
	return m.setFocus(focusFunction)
}

func (m *Model) pressKey(label string) tea.Cmd {
	action, text := press(label)
	switch action {
	case keyDerive:
		m.derive()
	case keySimplify:
		m.simplify()
	case keyCalculate:
		return m.calculate()
	default:
		m.insert(text)
	}
	return nil
}

// insert puts text at the cursor of the last focused input.
func (m *Model) insert(text string) {
	in := &m.inputs[m.lastInput]
	value := []rune(in.Value())
	pos := clamp(in.Position(), 0, len(value))
	in.SetValue(string(value[:pos]) + text + string(value[pos:]))
	in.SetCursor(pos + len([]rune(text)))
}

func (m *Model) celebrate() tea.Cmd {
	width, _ := m.size()
	m.burst = confetti.NewBurst(m.rng, width*cellWidth, confettiRows*cellHeight, confettiParticles)
	m.burstGen++
	return confettiTick(m.burstGen)
}

func confettiTick(gen int) tea.Cmd {
	return tea.Tick(confetti.Interval, func(time.Time) tea.Msg { return confettiTickMsg{gen: gen} })
}

func (m *Model) run(action menuAction) tea.Cmd {
	switch action {
	case actionExportPDF:
		if m.historyReady() {
			return m.ask(promptPDF, "Export history to PDF", m.exports.PDF)
		}
	case actionExportXLSX:
		if m.historyReady() {
			return m.ask(promptXLSX, "Export history to XLSX", m.exports.XLSX)
		}
	case actionExportPlot:
		return m.ask(promptPlot, "Export plot (.png, .jpg)", m.exports.Plot)
	case actionSaveHistory:
		m.saveHistory()
	case actionViewHistory:
		m.viewHistory()
	case actionClearHistory:
		m.clearHistory()
	case actionClearPlot:
		m.figure = m.renderer.Clear()
		m.calc.SetStatus("Plot cleared.")
	case actionAbout:
		m.notify("About", aboutText)
	case actionQuit:
		return tea.Quit
	}
	return nil
}

func (m *Model) historyReady() bool {
	switch {
	case m.store == nil:
		m.notify("Info", "History is disabled.")
		return false
	case m.store.Len() == 0:
		m.notify("Info", "History is empty.")
		return false
	}
	return true
}

func (m *Model) ask(kind promptKind, title, name string) tea.Cmd {
	in := textinput.New()
	in.Prompt = "file: "
	in.Placeholder = name
	in.SetValue(name)
	in.CharLimit = 512
	in.Width = 40
	m.prompt = prompt{kind: kind, title: title, input: in}
	m.prompting = true
	return m.prompt.input.Focus()
}

func (m *Model) export(kind promptKind, path string) {
	var err error
	var done string
	switch kind {
	case promptPDF:
		err, done = m.store.ExportPDF(path), "Report saved as '%s'."
	case promptXLSX:
		err, done = m.store.ExportXLSX(path), "Spreadsheet saved as '%s'."
	case promptPlot:
		err, done = m.renderer.Export(path), "Plot saved as '%s'."
	}
	switch {
	case errors.Is(err, history.ErrEmpty):
		m.notify("Info", "History is empty.")
	case err != nil:
		m.fail(err)
	default:
		msg := fmt.Sprintf(done, filepath.Base(path))
		m.calc.SetStatus(msg)
		if kind == promptPDF {
			msg += m.reportPages(path)
		}
		m.notify("Success", msg)
	}
}

// reportPages reads the written report back and describes its length.
func (m *Model) reportPages(path string) string {
	n, err := history.ReportPages(path)
	if err != nil {
		m.log.Warn("report not readable", zap.String("path", path), zap.Error(err))
		return ""
	}
	if n == 1 {
		return "\nThe report has 1 page."
	}
	return fmt.Sprintf("\nThe report has %d pages.", n)
}

func (m *Model) saveHistory() {
	if m.store == nil {
		m.notify("Info", "History is disabled.")
		return
	}
	err := m.store.Save()
	switch {
	case errors.Is(err, history.ErrEmpty):
		m.notify("Info", "There is no history to save.")
	case err != nil:
		m.fail(err)
	default:
		msg := fmt.Sprintf("History saved to '%s'.", m.store.Path())
		m.calc.SetStatus(msg)
		m.notify("Success", msg)
	}
}

func (m *Model) viewHistory() {
	if m.store == nil {
		m.notify("Info", "History is disabled.")
		return
	}
	text, err := m.store.ReadSaved()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.notify("Info", fmt.Sprintf("No saved history file '%s' was found.", m.store.Path()))
	case err != nil:
		m.fail(err)
	default:
		w, h := m.viewerSize()
		m.viewer = viewport.New(w, h)
		m.viewer.SetContent(text)
		m.viewing = true
		m.calc.SetStatus("Showing saved history.")
	}
}

func (m *Model) clearHistory() {
	if m.store == nil {
		m.notify("Info", "History is disabled.")
		return
	}
	if err := m.store.Clear(); err != nil {
		m.fail(err)
		return
	}
	m.calc.SetStatus("History cleared.")
	m.notify("Success", "The history has been cleared.")
}

func (m *Model) notify(title, body string) {
	m.dialog = &dialog{title: title, body: body}
}

// fail shows err in a dialog. Parse errors get a caret under the offending
// position.
func (m *Model) fail(err error) {
	body := calcerr.Message(err)
	var ce *calcerr.Error
	var se *translate.SyntaxError
	if errors.As(err, &ce) && errors.As(err, &se) {
		body = se.Show(ce.Text)
	}
	m.calc.SetStatus(fmt.Sprintf("%s: %s", calcerr.Title(err), calcerr.Message(err)))
	m.dialog = &dialog{title: calcerr.Title(err), body: body, failed: true}
	m.log.Debug("action failed", zap.Error(err))
}

func (m Model) size() (int, int) {
	if m.width == 0 || m.height == 0 {
		return defaultWidth, defaultHeight
	}
	return m.width, m.height
}

func (m Model) viewerSize() (int, int) {
	w, h := m.size()
	return max(w-8, 20), max(h-8, 5)
}

func (m Model) View() string {
	w, h := m.size()

	var overlay string
	switch {
	case m.dialog != nil:
		style := DialogStyle
		if m.dialog.failed {
			style = DialogErrorStyle
		}
		overlay = style.Render(DialogTitleStyle.Render(m.dialog.title) + "\n" + m.dialog.body + "\n\n" + HelpStyle.Render("press any key"))
	case m.prompting:
		overlay = DialogStyle.Render(DialogTitleStyle.Render(m.prompt.title) + "\n" + m.prompt.input.View() + "\n\n" + HelpStyle.Render("enter save • esc cancel"))
	case m.viewing:
		overlay = PanelStyle.Render(DialogTitleStyle.Render("Saved history") + "\n" + m.viewer.View() + "\n" + HelpStyle.Render("esc close"))
	case m.menu.active:
		overlay = m.menu.View()
	}
	if overlay != "" {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, overlay)
	}

	left := PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.inputsView(), "", m.resultsView(), "", m.keypad.View(m.focus == focusKeypad)))
	chartWidth := max(w-lipgloss.Width(left)-5, 20)
	chart := PanelStyle.Render(renderChart(m.figure, chartWidth, chartHeight))

	parts := []string{
		TitleStyle.Render("∫ Integral Calculator"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", chart),
	}
	if m.burst != nil {
		parts = append(parts, m.confettiView(w))
	}
	parts = append(parts,
		StatusBarStyle.Width(w).Render(m.calc.State().Status),
		HelpStyle.Render(helpLine))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) inputsView() string {
	labels := [3]string{"Function f(x)", "Lower limit a", "Upper limit b"}
	rows := make([]string, 0, 2*len(labels))
	for i, label := range labels {
		style := InputStyle
		if m.focus == i {
			style = InputActiveStyle
		}
		rows = append(rows, LabelStyle.Render(label), style.Render(m.inputs[i].View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) resultsView() string {
	st := m.calc.State()
	return lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Indefinite integral:"), ResultStyle.Render(st.IndefiniteText),
		LabelStyle.Render("Definite integral:"), ResultStyle.Render(st.Definite),
		LabelStyle.Render("Derivative f'(x):"), ResultStyle.Render(st.DerivativeText),
	)
}

func (m Model) confettiView(width int) string {
	grid := make([][]string, confettiRows)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	for _, p := range m.burst.Particles() {
		if p.Y < 0 {
			continue
		}
		r, c := int(p.Y)/cellHeight, int(p.X)/cellWidth
		if r >= confettiRows || c < 0 || c >= width {
			continue
		}
		glyph := "•"
		if p.Size >= 8 {
			glyph = "■"
		}
		grid[r][c] = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render(glyph)
	}
	lines := make([]string, confettiRows)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n")
}
