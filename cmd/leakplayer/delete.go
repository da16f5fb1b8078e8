package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createDeleteCommand создает команду delete с привязкой к экземпляру приложения
func (app *Application) createDeleteCommand(ctx context.Context) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "delete [N]",
		Short: "Delete a song by its number",
		Long:  `Delete a song from the library by its number in the list output. An imported audio file is removed as well.`,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			index, err := parseNumber(args[0])
			if err != nil {
				fmt.Printf("❌ Ошибка: %v\n", err)
				return
			}
			app.deleteSong(ctx, query, index)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "number songs within the search results")
	return cmd
}

func (app *Application) deleteSong(ctx context.Context, query string, index int) {
	song, err := app.songAt(query, index)
	if err != nil {
		fmt.Printf("❌ Ошибка: %v\n", err)
		return
	}

	fmt.Printf("🗑️  Удаляем песню: %s - %s\n", song.ArtistName, song.Name)

	if _, err := app.Library.DeleteAt(ctx, index); err != nil {
		fmt.Printf("❌ Ошибка удаления песни: %v\n", err)
		return
	}

	fmt.Println("✅ Песня удалена из библиотеки")
}
