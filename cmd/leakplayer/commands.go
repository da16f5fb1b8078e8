package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/leakplayer/internal/config"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "leakplayer",
		Short:         "A terminal music player for a personal song library",
		Long:          `A terminal music player: browse and search the library, import audio files, edit song details and play songs one at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.setup(ctx, configPath, verbose)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write debug messages to the log")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createSearchCommand())
	rootCmd.AddCommand(app.createImportCommand(ctx))
	rootCmd.AddCommand(app.createEditCommand(ctx))
	rootCmd.AddCommand(app.createDeleteCommand(ctx))
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createRemoteCommand())
	rootCmd.AddCommand(app.createTUICommand())

	return rootCmd
}
