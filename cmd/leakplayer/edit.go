package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createEditCommand создает команду edit
func (app *Application) createEditCommand(ctx context.Context) *cobra.Command {
	var query, name, album, artist string

	cmd := &cobra.Command{
		Use:   "edit [N]",
		Short: "Edit the name, album and artist of a song",
		Long:  `Change the display fields of a song by its number in the list output. Fields without a flag keep their values.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseNumber(args[0])
			if err != nil {
				return err
			}

			song, err := app.songAt(query, index)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				song.Name = name
			}
			if cmd.Flags().Changed("album") {
				song.AlbumName = album
			}
			if cmd.Flags().Changed("artist") {
				song.ArtistName = artist
			}

			edited, err := app.Library.EditAt(ctx, index, song.Name, song.AlbumName, song.ArtistName)
			if err != nil {
				return fmt.Errorf("ошибка редактирования песни: %w", err)
			}

			fmt.Printf("✏️  Песня обновлена:\n")
			fmt.Printf("   Название: %s\n", edited.Name)
			fmt.Printf("   Альбом: %s\n", edited.AlbumName)
			fmt.Printf("   Исполнитель: %s\n", edited.ArtistName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "number songs within the search results")
	cmd.Flags().StringVar(&name, "name", "", "new song name")
	cmd.Flags().StringVar(&album, "album", "", "new album name")
	cmd.Flags().StringVar(&artist, "artist", "", "new artist name")
	return cmd
}
