package cmd

import (
	"fmt"
	"os"

	"github.com/longkey1/docchat/internal/backend"
	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/config"
	"github.com/longkey1/docchat/internal/docchat/render"
	"github.com/longkey1/docchat/internal/docchat/session"
	"github.com/longkey1/docchat/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// newLogger creates the diagnostic logger based on the configuration
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		File:  cfg.LogFile,
		Level: cfg.LogLevel,
	})
}

// newController creates a fresh session controller for mode based on the configuration
func newController(cfg *config.Config, mode docchat.Mode, logger *zap.Logger) (*session.Controller, error) {
	path, err := cfg.GetPath(mode)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, err
	}

	client, err := backend.NewClient(cfg.BaseURL, path,
		backend.WithProxy(cfg.ProxyURL, cfg.NoProxy),
		backend.WithTimeout(timeout),
		backend.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}

	ctrl := session.New(mode, client,
		session.WithLogger(logger.With(zap.String("endpoint", client.URL()))),
		session.WithErrorText(cfg.ErrorText),
	)

	if verbose {
		fmt.Fprintf(os.Stderr, "Session %s: %s -> %s\n", ctrl.ShortID(), mode, client.URL())
	}
	return ctrl, nil
}

// newRenderer creates a renderer for the terminal. Markdown is only rendered
// when enabled in the configuration and stdout is a terminal.
func newRenderer(cfg *config.Config, raw bool) *render.Renderer {
	width := cfg.WordWrap
	if isStdoutTTY() {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && (width <= 0 || w < width) {
			width = w
		}
	}
	return render.NewRenderer(render.Options{
		Width:    width,
		Style:    cfg.Style,
		Markdown: cfg.RenderMarkdown && !raw && isStdoutTTY(),
	})
}

// isStdoutTTY reports whether stdout is a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
