/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/config"
	"github.com/longkey1/docchat/internal/docchat/render"
	"github.com/longkey1/docchat/internal/docchat/session"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [mode]",
	Short: "Start an interactive session",
	Long: `Start an interactive chat session with continuous conversation.

The conversation lives only as long as the session: nothing is saved.
Switching mode with '/mode' discards the current conversation and starts a fresh one.

Examples:
  docchat start           # Start with the default mode
  docchat start pdf       # Chat about the PDF document
  docchat start mongo     # Translate questions into MongoDB queries`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		mode, err := cfg.GetDefaultMode()
		if len(args) > 0 {
			mode, err = docchat.ParseMode(args[0])
		}
		if err != nil {
			return fmt.Errorf("invalid mode: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		if err := runInteractiveMode(cmd.Context(), cfg, mode, logger); err != nil {
			return fmt.Errorf("interactive mode: %w", err)
		}
		return nil
	},
}

// interactiveSession holds the state of one interactive run
type interactiveSession struct {
	cfg      *config.Config
	logger   *zap.Logger
	renderer *render.Renderer
	ctrl     *session.Controller
}

// switchMode discards the current controller and instantiates a fresh one
func (s *interactiveSession) switchMode(mode docchat.Mode) error {
	ctrl, err := newController(s.cfg, mode, s.logger)
	if err != nil {
		return err
	}
	if s.ctrl != nil {
		s.ctrl.Close()
	}
	s.ctrl = ctrl
	return nil
}

func (s *interactiveSession) printHeader() {
	endpoint, _ := s.cfg.GetEndpoint(s.ctrl.Mode())
	fmt.Fprintf(os.Stderr, "\n=== %s [%s] ===\n", s.ctrl.Mode().Title(), s.ctrl.ShortID())
	fmt.Fprintf(os.Stderr, "Endpoint: %s\n", endpoint)
	fmt.Fprintf(os.Stderr, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(os.Stderr, "===================================\n\n")
}

// runInteractiveMode starts an interactive chat session
func runInteractiveMode(ctx context.Context, cfg *config.Config, mode docchat.Mode, logger *zap.Logger) error {
	s := &interactiveSession{
		cfg:      cfg,
		logger:   logger,
		renderer: newRenderer(cfg, false),
	}
	if err := s.switchMode(mode); err != nil {
		return err
	}
	s.printHeader()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("Você> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(os.Stderr, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		line.AppendHistory(trimmed)

		// Handle special commands
		if strings.HasPrefix(trimmed, "/") {
			if s.handleSpecialCommand(trimmed) {
				continue
			}
			return nil
		}

		s.ctrl.SetInputText(input)
		sub, err := s.ctrl.Begin(s.ctrl.InputText())
		if err != nil {
			continue
		}

		done := make(chan bool)
		go showSpinner(done)
		msg := sub.Run(ctx)
		done <- true
		close(done)

		fmt.Printf("\n%s\n\n", s.renderer.RenderBlock(render.BlockFor(msg, s.ctrl.Mode().Markdown())))

		if ctx.Err() != nil {
			return nil
		}
	}
}

// showSpinner displays a spinner animation while waiting for response
func showSpinner(done chan bool) {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	i := 0
	for {
		select {
		case <-done:
			// Clear the spinner line
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		default:
			fmt.Fprintf(os.Stderr, "\r%s Aguardando resposta...", spinners[i])
			i = (i + 1) % len(spinners)
			time.Sleep(80 * time.Millisecond)
		}
	}
}

// handleSpecialCommand processes special commands in interactive mode
// Returns true to continue the loop, false to exit
func (s *interactiveSession) handleSpecialCommand(command string) bool {
	fields := strings.Fields(strings.TrimSpace(command))
	name := strings.ToLower(fields[0])

	switch name {
	case "/help", "/h":
		fmt.Fprintln(os.Stderr, "\nAvailable commands:")
		fmt.Fprintln(os.Stderr, "  /help, /h         - Show this help message")
		fmt.Fprintln(os.Stderr, "  /info, /i         - Show session information")
		fmt.Fprintln(os.Stderr, "  /history          - Show the whole conversation")
		fmt.Fprintln(os.Stderr, "  /mode, /m <mode>  - Switch mode (starts a new conversation)")
		fmt.Fprintln(os.Stderr, "  /clear, /c        - Clear screen (Unix/Linux only)")
		fmt.Fprintln(os.Stderr, "  /exit, /quit      - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "  Ctrl+D            - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/info", "/i":
		endpoint, _ := s.cfg.GetEndpoint(s.ctrl.Mode())
		fmt.Fprintln(os.Stderr, "\nSession Information:")
		fmt.Fprintf(os.Stderr, "  ID: %s\n", s.ctrl.ShortID())
		fmt.Fprintf(os.Stderr, "  Full ID: %s\n", s.ctrl.ID())
		fmt.Fprintf(os.Stderr, "  Mode: %s\n", s.ctrl.Mode())
		fmt.Fprintf(os.Stderr, "  Endpoint: %s\n", endpoint)
		fmt.Fprintf(os.Stderr, "  Messages: %d\n", s.ctrl.Len())
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/history":
		history := s.ctrl.History()
		if len(history) == 0 {
			fmt.Fprintln(os.Stderr, "No messages in this session.")
			return true
		}
		fmt.Printf("\n%s\n\n", s.renderer.RenderHistory(history, s.ctrl.Mode().Markdown()))
		return true

	case "/mode", "/m":
		if len(fields) < 2 {
			fmt.Fprintf(os.Stderr, "Current mode: %s (available: %s)\n", s.ctrl.Mode(), strings.Join(docchat.ModeNames(), ", "))
			return true
		}
		mode, err := docchat.ParseMode(fields[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return true
		}
		if err := s.switchMode(mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return true
		}
		s.printHeader()
		return true

	case "/clear", "/c":
		fmt.Print("\033[H\033[2J")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(os.Stderr, "Goodbye!")
		return false

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (type '/help' for available commands)\n", name)
		return true
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
}
