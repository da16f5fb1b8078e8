// Package data содержит модель песни и её сериализацию
package data

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Значения по умолчанию для импортированных песен
const (
	UnknownSong   = "Unknown Song"
	UnknownAlbum  = "Unknown Album"
	UnknownArtist = "Unknown Artist"
	DefaultCover  = "defaultCover"
)

// Song описывает одну песню библиотеки
type Song struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	AlbumName  string `yaml:"album_name"`
	ArtistName string `yaml:"artist_name"`
	ImageName  string `yaml:"image_name"` // Обложка из набора ресурсов приложения
	TrackName  string `yaml:"track_name"` // Имя аудиофайла в каталоге документов или в ресурсах
}

// NewID возвращает новый уникальный идентификатор песни
func NewID() string {
	return uuid.NewString()
}

// SeedSongs возвращает список песен для первого запуска
func SeedSongs() []Song {
	const (
		album  = "Leaked Uzi 2019"
		artist = "Lil Uzi Vert"
	)
	names := []string{"Believe Me", "FAYC", "Thought Back", "Watch This"}

	songs := make([]Song, 0, len(names))
	for i, name := range names {
		songs = append(songs, Song{
			ID:         NewID(),
			Name:       name,
			AlbumName:  album,
			ArtistName: artist,
			ImageName:  fmt.Sprintf("cover%d", i+1),
			TrackName:  fmt.Sprintf("song%d", i+1),
		})
	}
	return songs
}

// NewImportedSong создает запись для импортированного файла.
// Пустые поля заменяются значениями "Unknown ...".
func NewImportedSong(trackName, name, album, artist string) Song {
	return Song{
		ID:         NewID(),
		Name:       orDefault(name, UnknownSong),
		AlbumName:  orDefault(album, UnknownAlbum),
		ArtistName: orDefault(artist, UnknownArtist),
		ImageName:  DefaultCover,
		TrackName:  trackName,
	}
}

// EncodeSongs сериализует упорядоченный список песен
func EncodeSongs(songs []Song) ([]byte, error) {
	if songs == nil {
		songs = []Song{}
	}
	out, err := yaml.Marshal(songs)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации песен: %w", err)
	}
	return out, nil
}

// DecodeSongs разбирает список песен. Записям без ID назначается новый ID.
func DecodeSongs(raw []byte) ([]Song, error) {
	var songs []Song
	if err := yaml.Unmarshal(raw, &songs); err != nil {
		return nil, fmt.Errorf("ошибка разбора песен: %w", err)
	}
	if songs == nil {
		return nil, fmt.Errorf("ошибка разбора песен: пустые данные")
	}
	for i := range songs {
		if songs[i].ID == "" {
			songs[i].ID = NewID()
		}
	}
	return songs, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
