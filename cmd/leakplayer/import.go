package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/utils"
)

// createImportCommand создает команду import с привязкой к экземпляру приложения
func (app *Application) createImportCommand(ctx context.Context) *cobra.Command {
	var name, album, artist string

	cmd := &cobra.Command{
		Use:   "import [file path or URL]",
		Short: "Import an audio file into the library",
		Long: `Copy an mp3, wav or flac file into the documents directory and add a song for it.
The source may be a local path, an http(s) URL or an s3://bucket/key reference.
Empty fields are taken from the file tags or set to "Unknown ...".`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Создаем контекст с таймаутом для загрузки (10 минут)
			importCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			return app.importSong(importCtx, args[0], name, album, artist)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "song name")
	cmd.Flags().StringVar(&album, "album", "", "album name")
	cmd.Flags().StringVar(&artist, "artist", "", "artist name")
	return cmd
}

func (app *Application) importSong(ctx context.Context, ref, name, album, artist string) error {
	fmt.Printf("📥 Импортируем файл: %s\n", ref)

	startTime := time.Now()
	result, err := app.Importer.Import(ctx, ref, func(bytesRead int64) {
		elapsed := time.Since(startTime)
		fmt.Printf("\r📊 Получено: %s | Прошло: %s",
			utils.FormatFileSize(bytesRead),
			utils.FormatTime(elapsed))
	})
	if err != nil {
		return fmt.Errorf("ошибка импорта файла: %w", err)
	}

	if name == "" {
		name = result.Hints.Title
	}
	if album == "" {
		album = result.Hints.Album
	}
	if artist == "" {
		artist = result.Hints.Artist
	}

	song := app.Library.Add(ctx, data.NewImportedSong(result.TrackName, name, album, artist))

	fmt.Printf("\n✅ Файл импортирован: %s (%s)\n", result.Path, utils.FormatFileSize(result.Size))
	fmt.Printf("🎵 Добавлена песня:\n")
	fmt.Printf("   Название: %s\n", song.Name)
	fmt.Printf("   Альбом: %s\n", song.AlbumName)
	fmt.Printf("   Исполнитель: %s\n", song.ArtistName)
	if result.Duration > 0 {
		fmt.Printf("   Продолжительность: %s\n", utils.FormatDuration(result.Duration))
	}
	return nil
}
