package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/docchat/internal/docchat"
)

func TestProject(t *testing.T) {
	history := []docchat.Message{
		docchat.NewMessage(docchat.RoleUser, "What is the capital of France?"),
		docchat.NewMessage(docchat.RoleAssistant, "**Paris**"),
	}

	blocks := Project(history, true)
	require.Len(t, blocks, 2)

	assert.Equal(t, Block{
		Role:  docchat.RoleUser,
		Label: "Você",
		Align: AlignRight,
		Body:  "What is the capital of France?",
	}, blocks[0])
	assert.Equal(t, Block{
		Role:     docchat.RoleAssistant,
		Label:    "Assistente",
		Avatar:   AssistantAvatar,
		Align:    AlignLeft,
		Markdown: true,
		Body:     "**Paris**",
	}, blocks[1])

	plain := Project(history, false)
	assert.False(t, plain[1].Markdown)
	assert.False(t, plain[0].Markdown, "user text is never markdown")
}

func TestRenderer_PlainLayout(t *testing.T) {
	r := NewRenderer(Options{Width: 60})

	user := r.RenderBlock(BlockFor(docchat.NewMessage(docchat.RoleUser, "hi"), true))
	assert.Contains(t, user, "Você: hi")
	assert.True(t, strings.HasPrefix(user, " "), "user block is right-aligned")
	assert.Equal(t, 60, lipgloss.Width(user))

	assistant := r.RenderBlock(BlockFor(docchat.NewMessage(docchat.RoleAssistant, "**Paris**"), true))
	assert.True(t, strings.HasPrefix(assistant, AssistantAvatar))
	assert.Contains(t, assistant, "Assistente:")
	assert.Contains(t, assistant, "**Paris**", "markdown disabled prints the body verbatim")
}

func TestRenderer_Markdown(t *testing.T) {
	r := NewRenderer(Options{Width: 80, Style: "notty", Markdown: true})

	body := r.Body(Block{Markdown: true, Body: "# Title\n\nBody text"})
	assert.Contains(t, body, "Title")
	assert.Contains(t, body, "Body text")
	assert.False(t, strings.HasPrefix(body, "\n"))

	assert.Equal(t, "# raw", r.Body(Block{Markdown: false, Body: "# raw"}))
}

func TestRenderer_LongUserTextWraps(t *testing.T) {
	r := NewRenderer(Options{Width: 40})
	long := strings.Repeat("palavra ", 20)

	out := r.RenderBlock(BlockFor(docchat.NewMessage(docchat.RoleUser, long), false))
	assert.Greater(t, strings.Count(out, "\n"), 0)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}

func TestRenderHistory(t *testing.T) {
	r := NewRenderer(Options{})
	assert.Equal(t, DefaultWidth, r.Width())

	out := r.RenderHistory([]docchat.Message{
		docchat.NewMessage(docchat.RoleUser, "test"),
		docchat.NewMessage(docchat.RoleAssistant, "Erro ao obter resposta."),
	}, false)

	userIdx := strings.Index(out, "Você: test")
	errIdx := strings.Index(out, "Erro ao obter resposta.")
	require.GreaterOrEqual(t, userIdx, 0)
	require.GreaterOrEqual(t, errIdx, 0)
	assert.Less(t, userIdx, errIdx)
	assert.Equal(t, "", r.RenderHistory(nil, true))
}
