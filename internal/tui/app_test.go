package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/render"
	"github.com/longkey1/docchat/internal/docchat/session"
)

type fixture struct {
	created []*session.Controller
	answer  func(mode docchat.Mode, query string) (string, error)
}

func (f *fixture) factory(mode docchat.Mode) (*session.Controller, error) {
	d := docchat.DispatcherFunc(func(_ context.Context, q string) (string, error) {
		return f.answer(mode, q)
	})
	ctrl := session.New(mode, d)
	f.created = append(f.created, ctrl)
	return ctrl, nil
}

func plainRenderer(width int) *render.Renderer {
	return render.NewRenderer(render.Options{Width: width})
}

func newTestModel(t *testing.T, f *fixture, start docchat.Mode) Model {
	t.Helper()
	m, err := New(context.Background(), f.factory, plainRenderer, start)
	require.NoError(t, err)
	return m
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(Model), cmd
}

// collect runs cmd and returns the messages it produces, expanding batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func responses(msgs []tea.Msg) []responseMsg {
	var out []responseMsg
	for _, msg := range msgs {
		if r, ok := msg.(responseMsg); ok {
			out = append(out, r)
		}
	}
	return out
}

func TestModel_SubmitAndRespond(t *testing.T) {
	f := &fixture{answer: func(docchat.Mode, string) (string, error) { return "**Paris**", nil }}
	m := newTestModel(t, f, docchat.ModePPTChat)

	m = typeText(m, "What is the capital of France?")
	assert.Equal(t, "What is the capital of France?", m.Controller().InputText())

	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.input.Value(), "input cleared before the response arrives")
	assert.Equal(t, 1, m.Controller().Len())
	assert.Equal(t, session.StateDispatching, m.Controller().State())
	assert.Contains(t, m.View(), "Aguardando resposta")

	rs := responses(collect(cmd))
	require.Len(t, rs, 1)
	assert.Equal(t, "**Paris**", rs[0].message.Content)

	next, _ := m.Update(rs[0])
	m = next.(Model)

	history := m.Controller().History()
	require.Len(t, history, 2)
	assert.Equal(t, docchat.RoleUser, history[0].Role)
	assert.Equal(t, "What is the capital of France?", history[0].Content)
	assert.Equal(t, "**Paris**", history[1].Content)
	assert.Contains(t, m.View(), "Paris")
}

func TestModel_LongInputIsKept(t *testing.T) {
	f := &fixture{answer: func(docchat.Mode, string) (string, error) { return "ok", nil }}
	m := newTestModel(t, f, docchat.ModePDFChat)

	long := strings.Repeat("pergunta ", 500) + "fim"
	m = typeText(m, long)
	assert.Equal(t, long, m.Controller().InputText())

	m, cmd := press(m, tea.KeyEnter)
	collect(cmd)
	history := m.Controller().History()
	require.NotEmpty(t, history)
	assert.Equal(t, long, history[0].Content)
}

func TestModel_EmptySubmitIsIgnored(t *testing.T) {
	f := &fixture{answer: func(docchat.Mode, string) (string, error) {
		t.Error("dispatcher must not be called")
		return "", nil
	}}
	m := newTestModel(t, f, docchat.ModePDFChat)

	m = typeText(m, "   ")
	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Controller().Len())
}

func TestModel_FailureShowsErrorText(t *testing.T) {
	f := &fixture{answer: func(docchat.Mode, string) (string, error) { return "", errors.New("refused") }}
	m := newTestModel(t, f, docchat.ModePPTChat)

	m = typeText(m, "test")
	m, cmd := press(m, tea.KeyEnter)
	next, _ := m.Update(responses(collect(cmd))[0])
	m = next.(Model)

	assert.Contains(t, m.View(), "Erro ao obter resposta.")
}

func TestModel_NavigationStartsFreshControllerAndDropsStaleResponses(t *testing.T) {
	f := &fixture{answer: func(mode docchat.Mode, q string) (string, error) { return string(mode) + ": " + q, nil }}
	m := newTestModel(t, f, docchat.ModePDFChat)
	first := m.Controller()

	m = typeText(m, "regras")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	// Navigate away while the first submission is in flight
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, docchat.ModePPTChat, m.Controller().Mode())
	assert.NotEqual(t, first.ID(), m.Controller().ID())
	assert.Equal(t, 0, m.Controller().Len())

	stale := responses(collect(cmd))
	require.Len(t, stale, 1)
	next, _ := m.Update(stale[0])
	m = next.(Model)

	assert.Equal(t, 0, m.Controller().Len())
	assert.Equal(t, 1, first.Len(), "closed controller does not append the late answer")

	// Wrap around backwards
	m, _ = press(m, tea.KeyShiftTab)
	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, docchat.ModeTextToMongo, m.Controller().Mode())
	assert.Len(t, f.created, 4)
}

func TestModel_ViewShowsTabs(t *testing.T) {
	f := &fixture{answer: func(docchat.Mode, string) (string, error) { return "", nil }}
	m := newTestModel(t, f, docchat.ModeTextToMongo)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	view := m.View()
	for _, mode := range docchat.Modes() {
		assert.Contains(t, view, mode.Title())
	}
	assert.Equal(t, docchat.ModeTextToMongo, m.Controller().Mode())
}

func TestModel_QuitClosesController(t *testing.T) {
	f := &fixture{answer: func(docchat.Mode, string) (string, error) { return "late", nil }}
	m := newTestModel(t, f, docchat.ModePPTChat)

	m = typeText(m, "q")
	m, cmd := press(m, tea.KeyEnter)
	m, quit := press(m, tea.KeyEsc)
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())

	collect(cmd)
	assert.Equal(t, 1, m.Controller().Len())
}
