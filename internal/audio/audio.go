// Package audio содержит объект воспроизведения поверх gopxl/beep
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// ErrUnsupportedFormat возвращается для файлов, которые не умеем декодировать
var ErrUnsupportedFormat = errors.New("неподдерживаемый аудиоформат")

// SupportedExtensions расширения аудиофайлов, которые можно импортировать и воспроизводить
var SupportedExtensions = []string{".mp3", ".wav", ".flac"}

// Engine создает объекты воспроизведения
type Engine interface {
	// Activate подготавливает аудиовывод. Повторные вызовы ничего не делают.
	Activate() error
	// Open загружает файл; воспроизведение начинается только после Play
	Open(path string) (Playback, error)
}

// Playback один загруженный трек
type Playback interface {
	Play()
	Pause()
	Stop()
	Playing() bool
	Position() time.Duration
	Duration() time.Duration
	Seek(d time.Duration) error
	SetVolume(v float64)
}

// IsSupported проверяет расширение файла
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Decode открывает и декодирует файл по расширению. Файлы без расширения считаются MP3.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && !IsSupported(path) {
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("ошибка открытия файла: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".flac":
		streamer, format, err = flac.Decode(file)
	default:
		streamer, format, err = mp3.Decode(file)
	}
	if err != nil {
		file.Close()
		return nil, beep.Format{}, fmt.Errorf("ошибка декодирования %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}

// Duration возвращает длительность файла
func Duration(path string) (time.Duration, error) {
	streamer, format, err := Decode(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
