package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/config"
	"github.com/longkey1/docchat/internal/docchat/render"
	"github.com/longkey1/docchat/internal/docchat/session"
	"github.com/longkey1/docchat/internal/tui"
	"github.com/spf13/cobra"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui [mode]",
	Short: "Open the full-screen interface",
	Long: `Open the full-screen interface with one tab per mode.

Switching tabs discards the current conversation and starts a fresh one.
Keys: tab/shift+tab switch mode, enter sends, pgup/pgdown scroll, esc quits.

Example:
  docchat tui          # Start on the default mode
  docchat tui pdf      # Start on pdf-chat`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		start, err := cfg.GetDefaultMode()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			if start, err = docchat.ParseMode(args[0]); err != nil {
				return err
			}
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		newCtrl := func(mode docchat.Mode) (*session.Controller, error) {
			return newController(cfg, mode, logger)
		}
		newRenderer := func(width int) *render.Renderer {
			return render.NewRenderer(render.Options{
				Width:    width,
				Style:    cfg.Style,
				Markdown: cfg.RenderMarkdown,
			})
		}

		// Verbose output would corrupt the alternate screen
		verbose = false

		m, err := tui.New(cmd.Context(), newCtrl, newRenderer, start)
		if err != nil {
			return err
		}

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running interface: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
