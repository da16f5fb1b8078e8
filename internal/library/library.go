// Package library содержит логику экрана библиотеки: список песен, поиск,
// добавление, редактирование и удаление с сохранением после каждого изменения
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/hazadus/leakplayer/internal/assets"
	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/prefs"
)

// SongsKey ключ, под которым список песен лежит в хранилище настроек
const SongsKey = "savedSongs"

// ErrIndexOutOfRange возвращается при обращении к несуществующей строке списка
var ErrIndexOutOfRange = errors.New("индекс вне диапазона")

// Library владеет списком песен
type Library struct {
	store   prefs.Store
	locator *assets.Locator
	logger  *slog.Logger

	songs    []data.Song
	filtered []data.Song
	query    string
}

// New создает библиотеку. Список пуст до вызова Load.
func New(store prefs.Store, locator *assets.Locator, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		store:   store,
		locator: locator,
		logger:  logger,
		songs:   make([]data.Song, 0),
	}
}

// Load читает список из хранилища. Если данных нет или они повреждены,
// используется стартовый список.
func (l *Library) Load(ctx context.Context) {
	raw, err := l.store.Get(ctx, SongsKey)
	if err != nil {
		if !errors.Is(err, prefs.ErrNotFound) {
			l.logger.Warn("не удалось прочитать сохраненные песни", "error", err)
		}
		l.songs = data.SeedSongs()
		l.refilter()
		return
	}

	songs, err := data.DecodeSongs(raw)
	if err != nil {
		l.logger.Warn("не удалось разобрать сохраненные песни", "error", err)
		l.songs = data.SeedSongs()
		l.refilter()
		return
	}

	l.songs = songs
	l.refilter()
}

// Save сохраняет весь список целиком
func (l *Library) Save(ctx context.Context) error {
	raw, err := data.EncodeSongs(l.songs)
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, SongsKey, raw); err != nil {
		return fmt.Errorf("ошибка сохранения песен: %w", err)
	}
	return nil
}

// Songs возвращает копию полного списка
func (l *Library) Songs() []data.Song {
	return append([]data.Song(nil), l.songs...)
}

// Query возвращает текущий поисковый запрос
func (l *Library) Query() string {
	return l.query
}

// Filtering сообщает, активен ли поиск
func (l *Library) Filtering() bool {
	return l.query != ""
}

// Search устанавливает запрос и пересчитывает отфильтрованный список целиком
func (l *Library) Search(query string) {
	l.query = query
	l.refilter()
}

// Visible возвращает копию отображаемого списка: отфильтрованного при активном поиске или полного
func (l *Library) Visible() []data.Song {
	if l.Filtering() {
		return append([]data.Song(nil), l.filtered...)
	}
	return l.Songs()
}

// Add добавляет песню в конец списка и сохраняет библиотеку
func (l *Library) Add(ctx context.Context, song data.Song) data.Song {
	if song.ID == "" {
		song.ID = data.NewID()
	}
	l.songs = append(l.songs, song)
	l.refilter()
	l.persist(ctx)
	return song
}

// EditAt меняет название, альбом и исполнителя песни в строке index отображаемого списка
func (l *Library) EditAt(ctx context.Context, index int, name, album, artist string) (data.Song, error) {
	visible := l.visibleRef()
	if index < 0 || index >= len(visible) {
		return data.Song{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	i := l.indexByID(visible[index].ID)
	if i < 0 {
		return data.Song{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	l.songs[i].Name = name
	l.songs[i].AlbumName = album
	l.songs[i].ArtistName = artist
	l.refilter()
	l.persist(ctx)
	return l.songs[i], nil
}

// DeleteAt удаляет песню в строке index отображаемого списка вместе с её файлом в каталоге документов
func (l *Library) DeleteAt(ctx context.Context, index int) (data.Song, error) {
	visible := l.visibleRef()
	if index < 0 || index >= len(visible) {
		return data.Song{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	song := visible[index]

	l.removeFile(song.TrackName)

	if i := l.indexByID(song.ID); i >= 0 {
		l.songs = append(l.songs[:i], l.songs[i+1:]...)
	}
	if l.Filtering() {
		l.filtered = append(l.filtered[:index], l.filtered[index+1:]...)
	}

	l.persist(ctx)
	return song, nil
}

// removeFile удаляет файл трека, если он есть в каталоге документов. Ошибки только логируются.
func (l *Library) removeFile(trackName string) {
	if l.locator == nil || trackName == "" {
		return
	}
	path := l.locator.DocumentPath(trackName)
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return
	}
	if err := os.Remove(path); err != nil {
		l.logger.Error("ошибка удаления файла", "path", path, "error", err)
		return
	}
	l.logger.Info("файл удален", "path", path)
}

// persist сохраняет список; ошибка записи не прерывает работу
func (l *Library) persist(ctx context.Context) {
	if err := l.Save(ctx); err != nil {
		l.logger.Error("не удалось сохранить библиотеку", "error", err)
	}
}

func (l *Library) refilter() {
	if !l.Filtering() {
		l.filtered = nil
		return
	}
	l.filtered = Filter(l.songs, l.query)
}

func (l *Library) visibleRef() []data.Song {
	if l.Filtering() {
		return l.filtered
	}
	return l.songs
}

func (l *Library) indexByID(id string) int {
	_, i, ok := lo.FindIndexOf(l.songs, func(s data.Song) bool {
		return s.ID == id
	})
	if !ok {
		return -1
	}
	return i
}

// Filter возвращает песни, название которых содержит query без учета регистра, в исходном порядке
func Filter(songs []data.Song, query string) []data.Song {
	needle := strings.ToLower(query)
	return lo.Filter(songs, func(s data.Song, _ int) bool {
		return strings.Contains(strings.ToLower(s.Name), needle)
	})
}
