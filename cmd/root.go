/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/longkey1/docchat/internal/docchat/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	baseURL string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "A terminal client for the document query service",
	Long: `docchat is a command-line client for the document query service.
It offers three modes: text-to-mongo (natural language to MongoDB query),
pdf-chat and ppt-chat (conversations about an indexed PDF or slide deck).
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/docchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides config, e.g. http://127.0.0.1:8000)")
}

// userConfigDir returns $HOME/.config/docchat
func userConfigDir() string {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	return filepath.Join(home, ".config", "docchat")
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// .env in the working directory feeds the environment before viper reads it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	viper.SetEnvPrefix("DOCCHAT")
	viper.AutomaticEnv()

	configDir := userConfigDir()

	// Note: Later directories in the array take precedence over earlier ones
	defaultTemplateDirs := []string{
		"/usr/share/docchat/templates",
		"/usr/local/share/docchat/templates",
		filepath.Join(configDir, "templates"),
	}
	defaultConfig := config.NewDefaultConfig(filepath.Join(configDir, "templates"), filepath.Join(configDir, "logs", "docchat.log"))
	defaultConfig.TemplateDirs = defaultTemplateDirs
	config.SetDefaults(defaultConfig)

	viper.BindEnv("base_url", "DOCCHAT_BASE_URL")
	viper.BindEnv("default_mode", "DOCCHAT_MODE")
	viper.BindEnv("request_timeout", "DOCCHAT_REQUEST_TIMEOUT")
	viper.BindEnv("log_file", "DOCCHAT_LOG_FILE")
	viper.BindEnv("log_level", "DOCCHAT_LOG_LEVEL")
	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// Load system-wide config first (lower priority)
		viper.AddConfigPath("/etc/docchat")
		viper.AddConfigPath("/usr/local/etc/docchat")
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			if verbose {
				fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
			}
		}

		// Load user config (higher priority) - merge with system config
		viper.AddConfigPath(configDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
				}
			} else if verbose {
				fmt.Fprintln(os.Stderr, "Merged user config:", viper.ConfigFileUsed())
			}
		} else {
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
				}
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "Environment variables:")
		fmt.Fprintln(os.Stderr, "  DOCCHAT_BASE_URL:", viper.GetString("base_url"))
		fmt.Fprintln(os.Stderr, "  DOCCHAT_MODE:", viper.GetString("default_mode"))
		fmt.Fprintln(os.Stderr, "  DOCCHAT_REQUEST_TIMEOUT:", viper.GetString("request_timeout"))
		fmt.Fprintln(os.Stderr, "  DOCCHAT_LOG_FILE:", viper.GetString("log_file"))
	}
}
