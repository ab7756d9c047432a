// Package tui is the full-screen front-end: a navigation bar with one tab per
// mode, the conversation of the active tab and an input field.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/render"
	"github.com/longkey1/docchat/internal/docchat/session"
)

// ControllerFactory builds a fresh controller for a mode.
type ControllerFactory func(mode docchat.Mode) (*session.Controller, error)

// RendererFactory builds a renderer for the given terminal width.
type RendererFactory func(width int) *render.Renderer

// responseMsg carries a settled submission back to the event loop.
type responseMsg struct {
	controllerID string
	message      docchat.Message
}

// Model is the bubbletea model of the application.
type Model struct {
	ctx         context.Context
	newCtrl     ControllerFactory
	newRenderer RendererFactory
	modes       []docchat.Mode
	active      int
	ctrl        *session.Controller
	renderer    *render.Renderer

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
	err    error
}

// New creates the model with start as the active tab. ctx bounds every
// dispatch issued from the interface.
func New(ctx context.Context, newCtrl ControllerFactory, newRenderer RendererFactory, start docchat.Mode) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Write your question here..."
	ti.CharLimit = 0
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		newCtrl:     newCtrl,
		newRenderer: newRenderer,
		modes:       docchat.Modes(),
		input:       ti,
		spinner:     sp,
		width:       80,
		height:      24,
	}
	for i, mode := range m.modes {
		if mode == start {
			m.active = i
		}
	}

	ctrl, err := newCtrl(m.modes[m.active])
	if err != nil {
		return Model{}, err
	}
	m.ctrl = ctrl
	m.resize()
	return m, nil
}

// Controller returns the controller of the active tab.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case responseMsg:
		// Responses for a controller discarded by navigation are dropped
		if msg.controllerID != m.ctrl.ID() {
			return m, nil
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.State() != session.StateDispatching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.ctrl.Close()
			return m, tea.Quit
		case "tab", "ctrl+right":
			return m.navigate(m.active + 1)
		case "shift+tab", "ctrl+left":
			return m.navigate(m.active - 1)
		case "enter":
			return m.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInputText(m.input.Value())
	return m, cmd
}

// submit hands the input to the controller and dispatches in the background.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.ctrl.SetInputText(m.input.Value())
	sub, err := m.ctrl.Begin(m.ctrl.InputText())
	if err != nil {
		return m, nil
	}
	m.input.SetValue(m.ctrl.InputText())
	m.refresh()

	ctx := m.ctx
	id := m.ctrl.ID()
	run := func() tea.Msg {
		return responseMsg{controllerID: id, message: sub.Run(ctx)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

// navigate discards the active controller and instantiates a fresh one for
// the target tab.
func (m Model) navigate(target int) (tea.Model, tea.Cmd) {
	n := len(m.modes)
	target = ((target % n) + n) % n
	if target == m.active {
		return m, nil
	}

	ctrl, err := m.newCtrl(m.modes[target])
	if err != nil {
		m.err = err
		return m, nil
	}
	m.ctrl.Close()
	m.ctrl = ctrl
	m.active = target
	m.err = nil
	m.input.Reset()
	m.refresh()
	return m, nil
}

func (m *Model) resize() {
	// nav bar, status line and input take four lines
	vpHeight := m.height - 4
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport = viewport.New(m.width, vpHeight)
	m.input.Width = m.width - 4
	m.renderer = m.newRenderer(m.width)
	m.refresh()
}

// refresh redraws the viewport from the controller's history.
func (m *Model) refresh() {
	history := m.ctrl.History()
	if len(history) == 0 {
		m.viewport.SetContent(helpStyle.Render("Ask something about the " + m.ctrl.Mode().Title() + " source."))
		return
	}
	m.viewport.SetContent(m.renderer.RenderHistory(history, m.ctrl.Mode().Markdown()))
	m.viewport.GotoBottom()
}

func (m Model) navBar() string {
	tabs := make([]string, len(m.modes))
	for i, mode := range m.modes {
		if i == m.active {
			tabs[i] = activeTabStyle.Render(mode.Title())
		} else {
			tabs[i] = tabStyle.Render(mode.Title())
		}
	}
	return navBarStyle.Width(m.width).Render(strings.Join(tabs, " "))
}

func (m Model) statusLine() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.ctrl.State() == session.StateDispatching {
		return statusBarStyle.Render(m.spinner.View() + " Aguardando resposta...")
	}
	return statusBarStyle.Render("tab: switch mode • enter: send • pgup/pgdown: scroll • esc: quit")
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.navBar(),
		m.viewport.View(),
		m.statusLine(),
		m.input.View(),
	)
}
