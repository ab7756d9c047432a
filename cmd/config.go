package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/longkey1/docchat/internal/docchat/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, base_url, text_to_mongo_path, pdf_chat_path, ppt_chat_path, default_mode, error_text, request_timeout, proxy_url, no_proxy, render_markdown, word_wrap, style, log_file, log_level, template_dirs"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  docchat config                 # Show all configuration
  docchat config base_url        # Show only the backend base URL
  docchat config default_mode    # Show only the default mode
  docchat config template_dirs   # Show only template directories`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Load configuration from file
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		// If a field is specified, show only that field
		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "base_url", "baseurl":
				fmt.Println(cfg.BaseURL)
			case "text_to_mongo_path":
				fmt.Println(cfg.TextToMongoPath)
			case "pdf_chat_path":
				fmt.Println(cfg.PDFChatPath)
			case "ppt_chat_path":
				fmt.Println(cfg.PPTChatPath)
			case "default_mode", "mode":
				fmt.Println(cfg.DefaultMode)
			case "error_text":
				fmt.Println(cfg.ErrorText)
			case "request_timeout", "timeout":
				fmt.Println(cfg.RequestTimeout)
			case "proxy_url":
				fmt.Println(maskProxy(cfg.ProxyURL))
			case "no_proxy":
				fmt.Println(cfg.NoProxy)
			case "render_markdown":
				fmt.Println(cfg.RenderMarkdown)
			case "word_wrap":
				fmt.Println(cfg.WordWrap)
			case "style":
				fmt.Println(cfg.Style)
			case "log_file":
				fmt.Println(cfg.LogFile)
			case "log_level":
				fmt.Println(cfg.LogLevel)
			case "template_dirs", "templatedirs":
				// TemplateDirs are already absolute paths
				fmt.Println(strings.Join(cfg.TemplateDirs, ","))
			default:
				fmt.Fprintf(os.Stderr, "Unknown field: %s\n", args[0])
				fmt.Fprintf(os.Stderr, "Available fields: %s\n", configFields)
				os.Exit(1)
			}
			return
		}

		// Display all configuration values
		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("BaseURL: %s\n", cfg.BaseURL)
		fmt.Printf("TextToMongoPath: %s\n", cfg.TextToMongoPath)
		fmt.Printf("PDFChatPath: %s\n", cfg.PDFChatPath)
		fmt.Printf("PPTChatPath: %s\n", cfg.PPTChatPath)
		fmt.Printf("DefaultMode: %s\n", cfg.DefaultMode)
		fmt.Printf("ErrorText: %s\n", cfg.ErrorText)
		fmt.Printf("RequestTimeout: %s\n", cfg.RequestTimeout)
		fmt.Printf("ProxyURL: %s\n", maskProxy(cfg.ProxyURL))
		fmt.Printf("NoProxy: %s\n", cfg.NoProxy)
		fmt.Printf("RenderMarkdown: %v\n", cfg.RenderMarkdown)
		fmt.Printf("WordWrap: %d\n", cfg.WordWrap)
		fmt.Printf("Style: %s\n", cfg.Style)
		fmt.Printf("LogFile: %s\n", cfg.LogFile)
		fmt.Printf("LogLevel: %s\n", cfg.LogLevel)
		fmt.Printf("TemplateDirectories: %s\n", strings.Join(cfg.TemplateDirs, ","))
	},
}

// maskProxy hides the password of a proxy URL with credentials
func maskProxy(proxyURL string) string {
	at := strings.LastIndex(proxyURL, "@")
	scheme := strings.Index(proxyURL, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return proxyURL
	}
	userinfo := proxyURL[scheme+3 : at]
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		userinfo = userinfo[:colon] + ":********"
	}
	return proxyURL[:scheme+3] + userinfo + proxyURL[at:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
