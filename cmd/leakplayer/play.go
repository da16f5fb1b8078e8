package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/leakplayer/internal/player"
	"github.com/hazadus/leakplayer/internal/utils"
)

// seekStep шаг перемотки клавишами
const seekStep = 5 * time.Second

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "play [N]",
		Short: "Play the library starting from a song",
		Long:  `Play songs one at a time starting from the song with the given number. The player moves to the next song when the current one ends.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			return app.playFrom(ctx, query, index)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "play only the search results")
	return cmd
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// readKeys читает одиночные символы без ожидания Enter до отмены контекста
func readKeys(ctx context.Context) <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buffer := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(buffer); err != nil {
				return
			}
			select {
			case keys <- buffer[0]:
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys
}

func (app *Application) playFrom(ctx context.Context, query string, index int) error {
	if _, err := app.songAt(query, index); err != nil {
		return err
	}

	session, err := app.NewSession(app.Library.Visible(), index)
	if err != nil {
		return fmt.Errorf("ошибка создания плеера: %w", err)
	}
	defer session.Close()

	session.Start()

	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
	fmt.Printf("   [n] / [p] - следующая / предыдущая песня\n")
	fmt.Printf("   [h] / [l] - перемотка на 5 секунд\n")
	fmt.Printf("   [q] - выйти\n")
	fmt.Println()

	enableRawMode()
	defer disableRawMode()

	keysCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	keys := readKeys(keysCtx)

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	current := -1
	for {
		snapshot := session.Snapshot()
		if snapshot.Position != current {
			current = snapshot.Position
			printNowPlaying(snapshot)
		}
		displayProgress(snapshot)

		select {
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			switch key {
			case ' ':
				session.TogglePlayPause()
			case 'n':
				session.Next()
			case 'p':
				session.Previous()
			case 'h':
				session.SeekBy(-seekStep)
			case 'l':
				session.SeekBy(seekStep)
			case 'q':
				fmt.Println("\n⏹️  Воспроизведение остановлено пользователем")
				return nil
			}
		case <-ticker.C:
		case <-ctx.Done():
			fmt.Println("\n🚫 Воспроизведение прервано")
			return nil
		}
	}
}

func printNowPlaying(snapshot player.Snapshot) {
	fmt.Printf("\r\033[K🎵 Сейчас играет (%d/%d):\n", snapshot.Position+1, snapshot.Count)
	fmt.Printf("   Название: %s\n", snapshot.Song.Name)
	fmt.Printf("   Исполнитель: %s\n", snapshot.Song.ArtistName)
	fmt.Printf("   Альбом: %s\n", snapshot.Song.AlbumName)
	if snapshot.State == player.StateIdle {
		fmt.Printf("⚠️  Файл песни не найден\n")
	}
}

// displayProgress отображает прогресс воспроизведения
func displayProgress(snapshot player.Snapshot) {
	statusIcon := "▶️"
	if !snapshot.Playing() {
		statusIcon = "⏸️"
	}

	if snapshot.Duration > 0 {
		percent := float64(snapshot.Elapsed) / float64(snapshot.Duration) * 100
		fmt.Printf("\r\033[K%s  %.1f%% | %s / %s",
			statusIcon,
			percent,
			utils.FormatTime(snapshot.Elapsed),
			utils.FormatTime(snapshot.Duration))
		return
	}
	fmt.Printf("\r\033[K%s  %s", statusIcon, utils.FormatTime(snapshot.Elapsed))
}
