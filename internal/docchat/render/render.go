// Package render projects a conversation into display blocks and draws them
// for the terminal: user entries right-aligned as plain text, assistant
// entries left-aligned with an avatar and rendered markdown.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/longkey1/docchat/internal/docchat"
)

const (
	UserLabel       = "Você"
	AssistantLabel  = "Assistente"
	AssistantAvatar = "🤖"

	DefaultWidth = 80
)

// Align is the horizontal placement of a block.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Block is the display form of one message.
type Block struct {
	Role     docchat.Role
	Label    string
	Avatar   string // empty for user blocks
	Align    Align
	Markdown bool // body is rendered as markdown
	Body     string
}

// BlockFor maps a message to its display block. markdown reports whether the
// mode's assistant answers are markdown.
func BlockFor(msg docchat.Message, markdown bool) Block {
	if msg.IsUser() {
		return Block{
			Role:  msg.Role,
			Label: UserLabel,
			Align: AlignRight,
			Body:  msg.Content,
		}
	}
	return Block{
		Role:     msg.Role,
		Label:    AssistantLabel,
		Avatar:   AssistantAvatar,
		Align:    AlignLeft,
		Markdown: markdown,
		Body:     msg.Content,
	}
}

// Project maps a history to display blocks in the same order.
func Project(history []docchat.Message, markdown bool) []Block {
	blocks := make([]Block, len(history))
	for i, msg := range history {
		blocks[i] = BlockFor(msg, markdown)
	}
	return blocks
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("#d1e7dd")).
			Padding(0, 1)

	assistantStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#378fc6")).
			Padding(0, 1)
)

// Options configures a Renderer.
type Options struct {
	Width    int
	Style    string // glamour style name; "auto" or empty picks by terminal background
	Markdown bool   // false prints markdown bodies verbatim
}

// Renderer draws blocks for a terminal of a fixed width.
type Renderer struct {
	width int
	md    *glamour.TermRenderer
}

// NewRenderer creates a renderer. If the markdown renderer cannot be built,
// markdown bodies fall back to plain text.
func NewRenderer(opts Options) *Renderer {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	r := &Renderer{width: width}

	if opts.Markdown {
		styleOpt := glamour.WithAutoStyle()
		if opts.Style != "" && opts.Style != "auto" {
			styleOpt = glamour.WithStandardStyle(opts.Style)
		}
		md, err := glamour.NewTermRenderer(
			styleOpt,
			glamour.WithWordWrap(r.contentWidth()),
		)
		if err == nil {
			r.md = md
		}
	}
	return r
}

// Width returns the terminal width the renderer lays out for.
func (r *Renderer) Width() int {
	return r.width
}

// contentWidth leaves room for the avatar, border and padding.
func (r *Renderer) contentWidth() int {
	w := r.width - 8
	if w < 20 {
		return 20
	}
	return w
}

// Body returns the block body, rendering markdown when requested.
func (r *Renderer) Body(b Block) string {
	if !b.Markdown || r.md == nil {
		return b.Body
	}
	rendered, err := r.md.Render(b.Body)
	if err != nil {
		return b.Body
	}
	return strings.Trim(rendered, "\n")
}

// RenderBlock draws a single block.
func (r *Renderer) RenderBlock(b Block) string {
	body := r.Body(b)
	label := labelStyle.Render(b.Label + ":")

	if b.Align == AlignRight {
		style := userStyle
		maxWidth := r.width * 3 / 4
		if lipgloss.Width(body)+lipgloss.Width(label)+3 > maxWidth {
			style = style.Width(maxWidth)
		}
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, style.Render(label+" "+body))
	}

	box := assistantStyle.Render(label + "\n" + body)
	if b.Avatar == "" {
		return box
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, b.Avatar+" ", box)
}

// Render draws all blocks separated by blank lines.
func (r *Renderer) Render(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = r.RenderBlock(b)
	}
	return strings.Join(parts, "\n\n")
}

// RenderHistory projects and draws a history in one step.
func (r *Renderer) RenderHistory(history []docchat.Message, markdown bool) string {
	return r.Render(Project(history, markdown))
}
