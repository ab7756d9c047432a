// Package session implements the conversational session controller. A
// Controller owns the ordered, append-only message history of one view and
// turns each submitted input into exactly one backend dispatch.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/markdown"
	"github.com/longkey1/docchat/internal/logging"
)

// DefaultErrorText is shown to the user for every failed dispatch.
const DefaultErrorText = "Erro ao obter resposta."

var (
	// ErrEmptyInput is returned when the submitted text is empty after trimming.
	// Nothing is appended and nothing is dispatched.
	ErrEmptyInput = errors.New("empty input")

	// ErrBusy is returned when a submission is still dispatching.
	ErrBusy = errors.New("a submission is already in flight")
)

// State is the submission state of a controller.
type State int

const (
	StateIdle State = iota
	StateDispatching
)

func (s State) String() string {
	if s == StateDispatching {
		return "dispatching"
	}
	return "idle"
}

// Controller owns a conversation and the transient input text of one view.
// It is safe for concurrent use.
type Controller struct {
	id         string
	mode       docchat.Mode
	dispatcher docchat.Dispatcher
	normalize  func(string) string
	errorText  string
	logger     *zap.Logger
	single     bool

	mu       sync.Mutex
	messages []docchat.Message
	input    string
	state    State
	closed   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger that receives dispatch failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithErrorText overrides the text appended for failed dispatches.
func WithErrorText(text string) Option {
	return func(c *Controller) {
		if text != "" {
			c.errorText = text
		}
	}
}

// WithNormalizer overrides the transform applied to successful responses.
func WithNormalizer(fn func(string) string) Option {
	return func(c *Controller) {
		c.normalize = fn
	}
}

// New creates a controller for mode that dispatches through d. Markdown modes
// normalize responses with markdown.Normalize; the text-to-mongo mode trims
// them and keeps only the latest exchange.
func New(mode docchat.Mode, d docchat.Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		id:         uuid.New().String(),
		mode:       mode,
		dispatcher: d,
		normalize:  markdown.Normalize,
		errorText:  DefaultErrorText,
		logger:     zap.NewNop(),
		single:     !mode.Conversational(),
		messages:   []docchat.Message{},
	}
	if !mode.Markdown() {
		c.normalize = strings.TrimSpace
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the controller's instance id.
func (c *Controller) ID() string {
	return c.id
}

// ShortID returns the first 8 characters of the instance id.
func (c *Controller) ShortID() string {
	if len(c.id) >= 8 {
		return c.id[:8]
	}
	return c.id
}

// Mode returns the mode this controller dispatches to.
func (c *Controller) Mode() docchat.Mode {
	return c.mode
}

// History returns a copy of the conversation in append order.
func (c *Controller) History() []docchat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	history := make([]docchat.Message, len(c.messages))
	copy(history, c.messages)
	return history
}

// Len returns the number of messages in the conversation.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// InputText returns the current input field text.
func (c *Controller) InputText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInputText replaces the input field text.
func (c *Controller) SetInputText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close discards the controller. A submission settling afterwards does not
// append anything.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Submit appends raw as a user message, dispatches it and appends the
// assistant answer or the fixed error text. It blocks until the dispatch
// settles and returns the appended assistant message.
func (c *Controller) Submit(ctx context.Context, raw string) (docchat.Message, error) {
	sub, err := c.Begin(raw)
	if err != nil {
		return docchat.Message{}, err
	}
	return sub.Run(ctx), nil
}

// SubmitInput submits the current input text.
func (c *Controller) SubmitInput(ctx context.Context) (docchat.Message, error) {
	return c.Submit(ctx, c.InputText())
}

// Begin performs the synchronous half of a submission: the user message is
// appended and the input text cleared. The returned Submission must be Run to
// dispatch the query.
func (c *Controller) Begin(raw string) (*Submission, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDispatching {
		return nil, ErrBusy
	}
	if c.single {
		c.messages = []docchat.Message{}
	}
	c.messages = append(c.messages, docchat.NewMessage(docchat.RoleUser, raw))
	c.input = ""
	c.state = StateDispatching

	return &Submission{c: c, query: query}, nil
}

// Submission is a query between Begin and its terminal message.
type Submission struct {
	c     *Controller
	query string

	once   sync.Once
	result docchat.Message
}

// Query returns the trimmed text being dispatched.
func (s *Submission) Query() string {
	return s.query
}

// Run dispatches the query, appends the terminal assistant message and
// returns it. Dispatch errors never escape: they are logged and replaced by
// the controller's error text. Calling Run again returns the same message
// without dispatching.
func (s *Submission) Run(ctx context.Context) docchat.Message {
	s.once.Do(func() {
		ctx = logging.WithTrace(ctx, s.c.ShortID())
		s.result = s.c.settle(s.dispatch(ctx))
	})
	return s.result
}

func (s *Submission) dispatch(ctx context.Context) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatcher panic: %v", r)
		}
	}()
	return s.c.dispatcher.Dispatch(ctx, s.query)
}

func (c *Controller) settle(text string, err error) docchat.Message {
	var msg docchat.Message
	if err != nil {
		c.logger.Error("dispatch failed",
			zap.String("controller", c.ShortID()),
			zap.String("mode", string(c.mode)),
			zap.Error(err),
		)
		msg = docchat.NewMessage(docchat.RoleAssistant, c.errorText)
	} else {
		msg = docchat.NewMessage(docchat.RoleAssistant, c.normalize(text))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	if c.closed {
		c.logger.Debug("discarding response for closed controller",
			zap.String("controller", c.ShortID()),
			zap.String("mode", string(c.mode)),
		)
		return msg
	}
	c.messages = append(c.messages, msg)
	return msg
}
