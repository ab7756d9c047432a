/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/config"
	"github.com/spf13/cobra"
)

// modesCmd represents the modes command
var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the available modes and their endpoints",
	Long: `List every mode with its aliases and the backend endpoint it queries.

text-to-mongo keeps a single exchange per question, pdf-chat and ppt-chat keep
the whole conversation.

Example:
  docchat modes
  docchat --base-url http://backend:8000 modes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		defaultMode, err := cfg.GetDefaultMode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		type row struct {
			name, aliases, endpoint, history, isDefault string
		}

		var rows []row
		maxNameWidth := len("MODE")
		maxAliasWidth := len("ALIASES")
		maxEndpointWidth := len("ENDPOINT")
		for _, mode := range docchat.Modes() {
			endpoint, err := cfg.GetEndpoint(mode)
			if err != nil {
				endpoint = "invalid: " + err.Error()
			}
			history := "conversation"
			if !mode.Conversational() {
				history = "single"
			}
			r := row{
				name:     string(mode),
				aliases:  strings.Join(mode.Aliases(), ","),
				endpoint: endpoint,
				history:  history,
			}
			if mode == defaultMode {
				r.isDefault = "Yes"
			}
			maxNameWidth = max(maxNameWidth, len(r.name))
			maxAliasWidth = max(maxAliasWidth, len(r.aliases))
			maxEndpointWidth = max(maxEndpointWidth, len(r.endpoint))
			rows = append(rows, r)
		}

		// Display header
		fmt.Printf("%-*s  %-*s  %-*s  %-12s  %s\n", maxNameWidth, "MODE", maxAliasWidth, "ALIASES", maxEndpointWidth, "ENDPOINT", "HISTORY", "DEFAULT")
		fmt.Printf("%s  %s  %s  %s  %s\n",
			strings.Repeat("-", maxNameWidth),
			strings.Repeat("-", maxAliasWidth),
			strings.Repeat("-", maxEndpointWidth),
			strings.Repeat("-", 12),
			strings.Repeat("-", 7))

		for _, r := range rows {
			fmt.Printf("%-*s  %-*s  %-*s  %-12s  %s\n",
				maxNameWidth, r.name,
				maxAliasWidth, r.aliases,
				maxEndpointWidth, r.endpoint,
				r.history,
				r.isDefault)
		}

		// Usage hint
		fmt.Printf("\nUse a mode with: docchat chat --mode <mode> [question]\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
