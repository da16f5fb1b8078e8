// Package nowplaying публикует сведения о текущем треке во внешние поверхности ОС
package nowplaying

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"gopkg.in/yaml.v3"
)

// Info сведения о воспроизведении
type Info struct {
	Elapsed  time.Duration
	Duration time.Duration
	Title    string
	Artist   string
}

// Publisher принимает обновления сведений о воспроизведении
type Publisher interface {
	Publish(info Info) error
}

// Discard публикатор, который ничего не делает
type Discard struct{}

// Publish ничего не делает
func (Discard) Publish(Info) error { return nil }

// notifyFunc позволяет подменить отправку уведомления в тестах
type notifyFunc func(title, message string) error

// Notifier показывает уведомление рабочего стола при смене трека
type Notifier struct {
	mu        sync.Mutex
	lastTitle string
	notify    notifyFunc
}

// NewNotifier создает публикатор уведомлений
func NewNotifier() *Notifier {
	return &Notifier{
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Publish показывает уведомление, только если изменилось название
func (n *Notifier) Publish(info Info) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if info.Title == "" || info.Title == n.lastTitle {
		return nil
	}
	n.lastTitle = info.Title

	if err := n.notify(info.Title, info.Artist); err != nil {
		return fmt.Errorf("ошибка отправки уведомления: %w", err)
	}
	return nil
}

// fileRecord формат файла сведений о воспроизведении
type fileRecord struct {
	Title    string  `yaml:"title"`
	Artist   string  `yaml:"artist"`
	Elapsed  float64 `yaml:"elapsed"`  // Секунды
	Duration float64 `yaml:"duration"` // Секунды
}

// FileWriter записывает сведения в YAML файл, который могут читать строки состояния
type FileWriter struct {
	path string
}

// NewFileWriter создает публикатор в файл
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Publish перезаписывает файл целиком
func (w *FileWriter) Publish(info Info) error {
	out, err := yaml.Marshal(fileRecord{
		Title:    info.Title,
		Artist:   info.Artist,
		Elapsed:  info.Elapsed.Seconds(),
		Duration: info.Duration.Seconds(),
	})
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	return nil
}

// ReadFile читает файл, записанный FileWriter
func ReadFile(path string) (Info, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	var record fileRecord
	if err := yaml.Unmarshal(raw, &record); err != nil {
		return Info{}, fmt.Errorf("ошибка разбора файла: %w", err)
	}
	return Info{
		Title:    record.Title,
		Artist:   record.Artist,
		Elapsed:  time.Duration(record.Elapsed * float64(time.Second)),
		Duration: time.Duration(record.Duration * float64(time.Second)),
	}, nil
}

// Multi рассылает сведения нескольким публикаторам
type Multi []Publisher

// Publish вызывает всех публикаторов и объединяет ошибки
func (m Multi) Publish(info Info) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(info); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
