package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/pixelcfg/internal/client"
	"github.com/muurk/pixelcfg/internal/pixelconfig"
)

// Controller is the part of client.Client the editor needs.
type Controller interface {
	GetConfig(ctx context.Context) (pixelconfig.PixelConfig, error)
	UpdateAndVerify(ctx context.Context, update *client.Update, opts *client.VerificationOptions) *client.VerificationResult
}

// DefaultRequestTimeout bounds one apply or reload round trip.
const DefaultRequestTimeout = 30 * time.Second

// Message types for async operations
type applyCompleteMsg struct {
	result   *client.VerificationResult
	duration time.Duration
}

type reloadCompleteMsg struct {
	config pixelconfig.PixelConfig
	err    error
}

var fieldLabels = map[string]string{
	pixelconfig.FieldDevName:      "Device name",
	pixelconfig.FieldUniverse:     "Universe",
	pixelconfig.FieldChannelStart: "Start channel",
	pixelconfig.FieldPixelCount:   "Pixel count",
	pixelconfig.FieldPixelType:    "Pixel type",
	pixelconfig.FieldPixelColor:   "Color order",
	pixelconfig.FieldGamma:        "Gamma",
}

// editorKeyMap defines key bindings for the editor
type editorKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Apply  key.Binding
	Reload key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Apply, k.Cancel, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Enter, k.Apply, k.Reload, k.Cancel},
		{k.Help, k.Quit},
	}
}

func newEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next option"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit/apply"),
		),
		Apply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "apply"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "discard"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model edits the pixel configuration of one controller. Rows follow the
// page order of pixelconfig.Fields; the last row is the apply button.
type Model struct {
	Target string
	ctl    Controller

	fields  []pixelconfig.Field
	Current pixelconfig.PixelConfig // last configuration read from the controller
	Pending pixelconfig.PixelConfig // user's in-progress edits

	Cursor  int
	Editing bool
	Input   textinput.Model

	Busy       bool
	Spinner    spinner.Model
	Status     string
	StatusErr  bool
	Mismatches []string

	Width  int
	Height int

	Help help.Model
	Keys editorKeyMap

	RequestTimeout time.Duration
}

// New creates an editor for the controller at target, starting from cfg.
func New(ctl Controller, target string, cfg pixelconfig.PixelConfig) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.CharLimit = 64
	input.Width = 32

	width, height := GetTerminalSize()

	return Model{
		Target:         target,
		ctl:            ctl,
		fields:         pixelconfig.Fields.Fields(),
		Current:        cfg,
		Pending:        cfg,
		Input:          input,
		Spinner:        s,
		Width:          width,
		Height:         height,
		Help:           help.New(),
		Keys:           newEditorKeyMap(),
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Run starts the editor full screen and blocks until the user quits.
func Run(ctl Controller, target string, cfg pixelconfig.PixelConfig) error {
	p := tea.NewProgram(New(ctl, target, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the editor
func (m Model) Init() tea.Cmd {
	return nil
}

// HasChanges reports whether any field was edited.
func (m Model) HasChanges() bool {
	return !client.DiffUpdate(m.Current, m.Pending).IsEmpty()
}

func (m Model) applyRow() int {
	return len(m.fields)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = clampWidth(msg.Width)
		m.Height = msg.Height
		m.Help.Width = m.Width
		return m, nil

	case spinner.TickMsg:
		if !m.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case applyCompleteMsg:
		return m.finishApply(msg), nil

	case reloadCompleteMsg:
		m.Busy = false
		if msg.err != nil {
			m.setError(client.GetShortErrorMessage(msg.err))
			return m, nil
		}
		m.Current, m.Pending = msg.config, msg.config
		m.Mismatches = nil
		m.setStatus("Reloaded from controller")
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Busy {
			return m, nil
		}
		if m.Editing {
			return m.updateEditing(msg)
		}
		return m.updateNormalMode(msg)
	}

	if m.Editing {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateNormalMode handles input when no field is being edited
func (m Model) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := len(m.fields) + 1

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.Cursor = (m.Cursor - 1 + rows) % rows

	case key.Matches(msg, m.Keys.Down):
		m.Cursor = (m.Cursor + 1) % rows

	case key.Matches(msg, m.Keys.Left):
		m.cycleOption(-1)

	case key.Matches(msg, m.Keys.Right):
		m.cycleOption(1)

	case key.Matches(msg, m.Keys.Enter):
		if m.Cursor == m.applyRow() {
			return m.apply()
		}
		if len(m.fields[m.Cursor].Options) > 0 {
			m.cycleOption(1)
			return m, nil
		}
		return m.startEditing()

	case key.Matches(msg, m.Keys.Apply):
		return m.apply()

	case key.Matches(msg, m.Keys.Reload):
		m.Busy = true
		m.Status = ""
		return m, tea.Batch(m.Spinner.Tick, reloadCmd(m.ctl, m.RequestTimeout))

	case key.Matches(msg, m.Keys.Cancel):
		if m.HasChanges() {
			m.Pending = m.Current
			m.setStatus("Changes discarded")
		}

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
	}

	return m, nil
}

func (m Model) startEditing() (tea.Model, tea.Cmd) {
	f := m.fields[m.Cursor]
	m.Editing = true
	m.Input.SetValue(f.Get(&m.Pending))
	m.Input.CursorEnd()
	return m, m.Input.Focus()
}

// updateEditing handles input while a text field is focused
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Editing = false
		m.Input.Blur()
		return m, nil

	case "enter":
		f := m.fields[m.Cursor]
		raw := m.Input.Value()
		if f.Set(&m.Pending, raw) {
			m.Status = ""
		} else if f.Kind == pixelconfig.KindText {
			m.setError(fmt.Sprintf("%s truncated to %d bytes", f.Name, pixelconfig.NameMaxLen))
		} else {
			m.setError(fmt.Sprintf("%s: %q is not a clean %s, stored as %s", f.Name, raw, f.Kind, f.Get(&m.Pending)))
		}
		m.Editing = false
		m.Input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// cycleOption moves a select field through its catalog, wrapping at both
// ends. A code outside the catalog starts from the first entry.
func (m *Model) cycleOption(step int) {
	if m.Cursor >= len(m.fields) {
		return
	}
	f := m.fields[m.Cursor]
	if len(f.Options) == 0 {
		return
	}

	current := f.Get(&m.Pending)
	idx := -1
	for i, o := range f.Options {
		if fmt.Sprint(o.Code) == current {
			idx = i
			break
		}
	}

	n := len(f.Options)
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + step + n) % n
	}
	f.Set(&m.Pending, fmt.Sprint(f.Options[idx].Code))
}

func (m Model) apply() (tea.Model, tea.Cmd) {
	update := client.DiffUpdate(m.Current, m.Pending)
	if update.IsEmpty() {
		m.setStatus("No changes to apply")
		return m, nil
	}

	m.Busy = true
	m.Status = ""
	m.Mismatches = nil
	return m, tea.Batch(m.Spinner.Tick, applyCmd(m.ctl, update, m.RequestTimeout))
}

func (m Model) finishApply(msg applyCompleteMsg) Model {
	m.Busy = false
	r := msg.result
	if r.Actual != nil {
		m.Current = *r.Actual
	}

	if r.Success {
		m.Pending = m.Current
		m.Mismatches = nil
		m.setStatus(fmt.Sprintf("%s Saved and verified in %s", SuccessMarker, msg.duration.Round(time.Millisecond)))
		return m
	}

	m.Mismatches = r.Mismatches
	if r.Error != nil {
		m.setError(FailureMarker + " " + client.GetShortErrorMessage(r.Error))
	} else {
		m.setError(FailureMarker + " Apply failed")
	}
	return m
}

func (m *Model) setStatus(s string) {
	m.Status = s
	m.StatusErr = false
}

func (m *Model) setError(s string) {
	m.Status = s
	m.StatusErr = true
}

// applyCmd sends update and verifies the controller stored it
func applyCmd(ctl Controller, update *client.Update, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		result := ctl.UpdateAndVerify(ctx, update, nil)
		return applyCompleteMsg{result: result, duration: time.Since(start)}
	}
}

func reloadCmd(ctl Controller, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cfg, err := ctl.GetConfig(ctx)
		return reloadCompleteMsg{config: cfg, err: err}
	}
}

// View renders the editor
func (m Model) View() string {
	width := clampWidth(m.Width)

	rows := make([]string, 0, len(m.fields)+1)
	for i := range m.fields {
		rows = append(rows, m.renderField(i))
	}
	rows = append(rows, "", m.renderApplyButton())

	sections := []string{
		RenderHeader(m.Target),
		RenderDivider(width - 2),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	}

	if warnings := pixelconfig.Validate(m.Pending); len(warnings) > 0 {
		lines := make([]string, 0, len(warnings))
		for _, w := range warnings {
			lines = append(lines, WarningStyle.Render("! "+w.Error()))
		}
		sections = append(sections, "", strings.Join(lines, "\n"))
	}

	if status := m.renderStatus(); status != "" {
		sections = append(sections, "", status)
	}

	sections = append(sections, HelpStyle.Render(m.Help.View(m.Keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderField renders one configuration row
// Format: "→ Label          Value *" when selected
func (m Model) renderField(i int) string {
	f := m.fields[i]
	selected := m.Cursor == i

	labelStyle, valueStyle, arrow := LabelStyle, ValueStyle, "  "
	if selected {
		labelStyle, valueStyle, arrow = SelectedLabelStyle, SelectedValueStyle, CursorMarker
	}

	var value string
	switch {
	case selected && m.Editing:
		value = m.Input.View()
	case len(f.Options) > 0:
		value = optionValue(f, &m.Pending)
		if selected {
			value = "◀ " + value + " ▶"
		}
		value = valueStyle.Render(value)
	default:
		value = valueStyle.Render(f.Get(&m.Pending))
	}

	marker := ""
	if f.Get(&m.Pending) != f.Get(&m.Current) {
		marker = ChangedMarkerStyle.Render(" " + ChangedMarker)
	}

	return lipgloss.JoinHorizontal(lipgloss.Left, arrow, labelStyle.Render(fieldLabels[f.Name]), value, marker)
}

func optionValue(f pixelconfig.Field, cfg *pixelconfig.PixelConfig) string {
	code := f.Get(cfg)
	for _, o := range f.Options {
		if fmt.Sprint(o.Code) == code {
			return o.Label
		}
	}
	return "unknown (" + code + ")"
}

func (m Model) renderApplyButton() string {
	label := "[ Apply ]"
	if m.HasChanges() {
		label = "[ Apply changes ]"
	}
	if m.Cursor == m.applyRow() {
		return CursorMarker + SelectedValueStyle.Render(label)
	}
	return "  " + ValueStyle.Render(label)
}

func (m Model) renderStatus() string {
	if m.Busy {
		return m.Spinner.View() + " Talking to controller..."
	}
	if m.Status == "" {
		return ""
	}
	if !m.StatusErr {
		return SuccessMessageStyle.Render(m.Status)
	}

	lines := []string{ErrorMessageStyle.Render(m.Status)}
	for _, mm := range m.Mismatches {
		lines = append(lines, ErrorMessageStyle.Render("  "+mm))
	}
	return strings.Join(lines, "\n")
}
