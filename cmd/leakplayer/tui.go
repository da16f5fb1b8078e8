package main

import (
	"github.com/spf13/cobra"

	"github.com/hazadus/leakplayer/internal/tui"
	mainModel "github.com/hazadus/leakplayer/internal/tui/app"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for browsing, importing, editing and playing songs.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI()
		},
	}
}

func (app *Application) launchTUI() error {
	tuiApp := tui.NewApp(mainModel.Deps{
		Library:    app.Library,
		Importer:   app.Importer,
		NewSession: app.NewSession,
		ImportDir:  app.Config.ImportDir,
		Logger:     app.Logger,
	})
	return tuiApp.Run()
}
