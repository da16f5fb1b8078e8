// Package logging настраивает журнал приложения
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Setup открывает файл журнала для дозаписи и возвращает логгер поверх него.
// Терминал занят интерфейсом, поэтому журнал пишется только в файл.
// Вызывающий закрывает возвращенный io.Closer.
func Setup(logPath string, verbose bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("ошибка создания директории журнала: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка открытия журнала: %w", err)
	}

	return New(logFile, verbose), logFile, nil
}

// New создает текстовый логгер. verbose включает отладочные сообщения.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard логгер, который ничего не пишет
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
