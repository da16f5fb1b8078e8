// Package remote принимает внешние команды управления воспроизведением и события прерывания
package remote

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Command команда внешнего управления
type Command string

// Поддерживаемые команды
const (
	Play           Command = "play"
	Pause          Command = "pause"
	Next           Command = "next"
	Previous       Command = "previous"
	InterruptBegin Command = "interrupt-begin"
	InterruptEnd   Command = "interrupt-end"
)

// resumeFlag признак возобновления после окончания прерывания
const resumeFlag = "resume"

// ErrUnknownCommand возвращается при разборе неизвестной команды
var ErrUnknownCommand = errors.New("неизвестная команда")

// Event одно событие управления
type Event struct {
	Command      Command
	ShouldResume bool // Только для InterruptEnd
}

// Source поставщик событий
type Source interface {
	Events() <-chan Event
	Close() error
}

// Commands возвращает список допустимых команд
func Commands() []Command {
	return []Command{Play, Pause, Next, Previous, InterruptBegin, InterruptEnd}
}

// Parse разбирает строку вида "next" или "interrupt-end resume"
func Parse(line string) (Event, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Event{}, fmt.Errorf("%w: пустая строка", ErrUnknownCommand)
	}

	cmd := Command(fields[0])
	known := false
	for _, c := range Commands() {
		if c == cmd {
			known = true
			break
		}
	}
	if !known {
		return Event{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}

	ev := Event{Command: cmd}
	if cmd == InterruptEnd && len(fields) > 1 && fields[1] == resumeFlag {
		ev.ShouldResume = true
	}
	return ev, nil
}

// String возвращает строковое представление, которое понимает Parse
func (e Event) String() string {
	if e.Command == InterruptEnd && e.ShouldResume {
		return string(e.Command) + " " + resumeFlag
	}
	return string(e.Command)
}

// Send записывает событие в управляющий файл. Файл заменяется атомарно.
func Send(path string, ev Event) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".remote-*")
	if err != nil {
		return fmt.Errorf("ошибка создания файла: %w", err)
	}
	if _, err := tmp.WriteString(ev.String() + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("ошибка записи команды: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("ошибка записи команды: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("ошибка записи команды: %w", err)
	}
	return nil
}

// Watcher следит за управляющим файлом и отдает прочитанные команды.
// После чтения файл удаляется.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	events  chan Event
	done    chan struct{}
	logger  *slog.Logger

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWatcher начинает наблюдение за файлом path
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания наблюдателя: %w", err)
	}
	// Следим за каталогом: файл появляется через rename
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("ошибка наблюдения за %s: %w", dir, err)
	}

	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fsw,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
		logger:  logger,
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Events канал команд. Закрывается после Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close останавливает наблюдение
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.events)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	// Команда могла быть записана до запуска
	w.consume()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.consume()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("ошибка наблюдения за управляющим файлом", "error", err)
		case <-w.done:
			return
		}
	}
}

// consume читает команды из файла и удаляет его
func (w *Watcher) consume() {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn("ошибка чтения управляющего файла", "error", err)
		}
		return
	}
	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		w.logger.Warn("ошибка удаления управляющего файла", "error", err)
	}

	for _, line := range strings.Split(string(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ev, err := Parse(line)
		if err != nil {
			w.logger.Warn("пропущена команда", "line", line, "error", err)
			continue
		}
		select {
		case w.events <- ev:
		case <-w.done:
			return
		}
	}
}
