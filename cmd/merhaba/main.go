package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/merhaba/internal/cli"
	"codeberg.org/snonux/merhaba/internal/logging"
	"codeberg.org/snonux/merhaba/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, flags *cli.Flags) error {
	settings, err := cli.LoadSettings(flags)
	if err != nil {
		return err
	}

	logCloser, err := logging.Setup(settings.LogLevel, settings.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	log.Debug("Starting", "provider", settings.Provider, "cache", settings.CacheEnabled, "mute", settings.Mute)

	proc := processor.NewProcessor(settings)
	defer proc.Close()

	if flags.Anki != "" && flags.Lesson == "" {
		return fmt.Errorf("--anki requires --lesson")
	}

	switch {
	case flags.ListCategories:
		return proc.ListCategories()
	case flags.CacheStats:
		return proc.CacheStats(ctx)
	case flags.ClearCache:
		return proc.ClearCache(ctx)
	case flags.Lesson != "" && flags.Anki != "":
		return proc.ExportLesson(ctx, flags.Lesson, flags.Anki)
	case flags.Lesson != "":
		return proc.RunLesson(ctx, flags.Lesson)
	case flags.Say != "":
		return proc.Say(ctx, flags.Say)
	default:
		// No mode selected - launch GUI mode by default
		return proc.RunGUIMode(ctx)
	}
}
