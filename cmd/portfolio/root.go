package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sebas2906/portfolio/internal/config"
)

var (
	verbose       bool
	contentPath   string
	endpoint      string
	ephemeral     bool
	fps           int
	reducedMotion bool
	version       = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Scroll-driven 3D portfolio page in the terminal",
	Long: `A personal portfolio page rendered in the terminal: three toon-shaded
objects drift past as you scroll, the camera follows the mouse, and the
last section hosts a chat with the portfolio's agent.

Settings come from PORTFOLIO_* environment variables (or a .env file) and
can be overridden with flags.

Quick Start:
  portfolio                      # open the page
  portfolio chat "what do you build?"
  portfolio devserver            # local chat API stub on :3001`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runPage(cmd.Context(), cfg)
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&contentPath, "content", "", "Page content YAML (default: built-in page)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Chat API endpoint")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the conversation id in memory only")

	rootCmd.Flags().IntVar(&fps, "fps", 30, "Target FPS")
	rootCmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "Show text at once and jump instead of smooth scrolling")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()
	flags := cmd.Flags()

	if flags.Changed("verbose") {
		cfg.App.Verbose = verbose
	}
	if flags.Changed("content") {
		cfg.App.ContentPath = contentPath
	}
	if flags.Changed("endpoint") {
		cfg.Chat.Endpoint = endpoint
	}
	if flags.Changed("ephemeral") {
		cfg.Storage.Ephemeral = ephemeral
	}
	if flags.Changed("fps") {
		cfg.App.FPS = fps
	}
	if flags.Changed("reduced-motion") {
		cfg.App.ReducedMotion = reducedMotion
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
