package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all songs from the library",
		Long:  `Display the songs stored in the library, optionally narrowed by a search query.`,
		Run: func(_ *cobra.Command, _ []string) {
			app.listSongs(query)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "show only songs whose name contains the query")
	return cmd
}

// createSearchCommand создает команду search
func (app *Application) createSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search songs by name",
		Long:  `Display songs whose name contains the query, ignoring case.`,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			app.listSongs(args[0])
		},
	}
}

func (app *Application) listSongs(query string) {
	app.Library.Search(query)
	songs := app.Library.Visible()

	if len(songs) == 0 {
		if query != "" {
			fmt.Printf("🔍 По запросу '%s' ничего не найдено.\n", query)
			return
		}
		fmt.Println("📚 Библиотека пуста. Добавьте песни с помощью команды 'import'.")
		return
	}

	fmt.Printf("📚 Найдено песен: %d\n\n", len(songs))
	printSongTable(songs)

	fmt.Println()
	if query != "" {
		fmt.Printf("💡 Номера действуют вместе с '--query %s'\n", query)
	}
	fmt.Println("💡 Используйте 'leakplayer play [N]' для воспроизведения песни")
}

func printSongTable(songs []data.Song) {
	fmt.Printf("%-4s %-30s %-30s %-24s\n", "N", "Название", "Исполнитель", "Альбом")
	fmt.Println(strings.Repeat("-", 92))

	for i, song := range songs {
		fmt.Printf("%-4d %-30s %-30s %-24s\n",
			i+1,
			utils.TruncateString(song.Name, 28),
			utils.TruncateString(song.ArtistName, 28),
			utils.TruncateString(song.AlbumName, 22))
	}
}
