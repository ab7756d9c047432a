/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/longkey1/docchat/internal/docchat/config"
	"github.com/longkey1/docchat/internal/docchat/template"
	"github.com/spf13/cobra"
)

var withDir bool

// templateCmd represents the template command
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "List available query templates",
	Long: `List all available query templates from the configured template directories.
This command recursively scans all template directories specified in the configuration and displays
the names of available .toml template files, including those in subdirectories.

The template files should be in TOML format with the following structure:
query = "Question with an optional {{input}} placeholder"
mode = "ppt"   # optional, one of the mode names or aliases

Template names are displayed as relative paths from the template directory root.
For example, a file at ${template_dir}/foo/bar.toml will be displayed as "foo/bar".
When a name exists in several directories, the later directory wins.

If you want to see which directory each template comes from, use the --with-dir option.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Load configuration from file
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Template directories: %v\n", cfg.TemplateDirs)
		}

		entries, err := template.ListTemplates(cfg.TemplateDirs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing templates: %v\n", err)
			os.Exit(1)
		}

		if len(entries) == 0 {
			fmt.Println("No query templates found.")
			fmt.Println("Create .toml files in the following directories:")
			for _, dir := range cfg.TemplateDirs {
				fmt.Printf("  - %s\n", dir)
			}
			return
		}

		fmt.Printf("Available query templates (%d found):\n\n", len(entries))
		for _, entry := range entries {
			if withDir {
				fmt.Printf("  %s (from %s)\n", entry.Name, entry.Dir)
			} else {
				fmt.Printf("  %s\n", entry.Name)
			}
		}

		fmt.Printf("\nUse a query template with: docchat chat --template <name> [question]\n")
		fmt.Printf("Example: docchat chat --template foo/bar [question]\n")
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().BoolVar(&withDir, "with-dir", false, "Show the directory each template was found in")
}
