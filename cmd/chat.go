/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/config"
	"github.com/longkey1/docchat/internal/docchat/render"
	"github.com/longkey1/docchat/internal/docchat/session"
	tmplpkg "github.com/longkey1/docchat/internal/docchat/template"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	modeFlag     string
	templateName string
	argFlags     []string
	useEditor    bool
	rawOutput    bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Send a single question to the backend",
	Long: `Send a single question to the backend and print the answer.
This command performs one request against the endpoint of the selected mode.

For a conversation with history, use 'docchat start' or 'docchat tui' instead.

If no question is provided as an argument, it reads from stdin.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the question.

Several modes can be given separated by commas (e.g. --mode pdf,ppt); they are
queried concurrently and the answers are printed in the order given.

The template file should be in TOML format with the following structure:
query = "Question wrapper with {{input}} and optional {{key}} placeholders"
mode = "ppt"  # Optional: mode used when --mode is not given`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// Get question from arguments, editor, or stdin
		var question string
		if useEditor {
			question, err = getMessageFromEditor()
			if err != nil {
				return fmt.Errorf("getting question from editor: %w", err)
			}
		} else if len(args) > 0 {
			question = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			question = strings.TrimSpace(string(input))
		}

		query, templateMode, err := tmplpkg.FormatQuery(question, templateName, cfg.TemplateDirs, argFlags)
		if err != nil {
			return fmt.Errorf("formatting question with template: %w", err)
		}
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("question cannot be empty")
		}

		// Apply mode with priority: flag > env > template > config file
		var modes []docchat.Mode
		envMode := os.Getenv("DOCCHAT_MODE")
		switch {
		case cmd.Flags().Changed("mode"):
			modes, err = docchat.ParseModes(modeFlag)
		case envMode != "":
			modes, err = docchat.ParseModes(envMode)
		case templateMode != nil:
			modes = []docchat.Mode{*templateMode}
		default:
			var mode docchat.Mode
			mode, err = cfg.GetDefaultMode()
			modes = []docchat.Mode{mode}
		}
		if err != nil {
			return fmt.Errorf("invalid mode: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		controllers := make([]*session.Controller, len(modes))
		for i, mode := range modes {
			controllers[i], err = newController(cfg, mode, logger)
			if err != nil {
				return fmt.Errorf("creating session for %s: %w", mode, err)
			}
		}

		// Each mode owns an independent controller, so they can run concurrently
		answers := make([]docchat.Message, len(controllers))
		g, ctx := errgroup.WithContext(cmd.Context())
		for i, ctrl := range controllers {
			g.Go(func() error {
				msg, err := ctrl.Submit(ctx, query)
				if err != nil {
					return fmt.Errorf("%s: %w", ctrl.Mode(), err)
				}
				answers[i] = msg
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if errors.Is(err, session.ErrEmptyInput) {
				return fmt.Errorf("question cannot be empty")
			}
			return err
		}

		renderer := newRenderer(cfg, rawOutput)
		for i, ctrl := range controllers {
			if len(controllers) > 1 {
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("== %s ==\n", ctrl.Mode().Title())
			}
			fmt.Println(renderer.Body(render.BlockFor(answers[i], ctrl.Mode().Markdown())))
		}
		return nil
	},
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	tmpFile, err := os.CreateTemp("", "docchat-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %v", err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %v", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Mode(s) to query: text-to-mongo, pdf-chat, ppt-chat (comma separated, aliases: mongo, db, pdf, ppt)")
	chatCmd.Flags().StringVarP(&templateName, "template", "t", "", "Name of the query template (without .toml extension)")
	chatCmd.Flags().StringArrayVar(&argFlags, "arg", []string{}, "Key-value pairs for the query template (format: key:value)")
	chatCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose the question")
	chatCmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the answer without markdown rendering")
}
