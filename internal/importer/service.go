// Package importer копирует выбранные пользователем аудиофайлы в каталог документов
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazadus/leakplayer/internal/assets"
	"github.com/hazadus/leakplayer/internal/audio"
	"github.com/hazadus/leakplayer/internal/metadata"
	"github.com/hazadus/leakplayer/internal/s3"
	"github.com/hazadus/leakplayer/internal/streaming"
)

var (
	// ErrAlreadyExists возвращается, если файл с таким именем уже импортирован
	ErrAlreadyExists = errors.New("файл с таким именем уже существует")
	// ErrUnsupportedType возвращается для файлов, не являющихся аудио
	ErrUnsupportedType = errors.New("файл не является поддерживаемым аудиофайлом")
	// ErrNoObjectStorage возвращается для ссылок s3:// без настроенного хранилища
	ErrNoObjectStorage = errors.New("хранилище S3 не настроено")
)

const streamBufferSize = 64 * 1024

// ObjectFetcher скачивает объект из объектного хранилища
type ObjectFetcher interface {
	Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error)
}

// Service управляет импортом файлов
type Service struct {
	locator           *assets.Locator
	fetcher           ObjectFetcher
	metadataExtractor *metadata.Extractor
	logger            *slog.Logger
}

// NewService создает сервис импорта. fetcher может быть nil, тогда ссылки s3:// отклоняются.
func NewService(locator *assets.Locator, fetcher ObjectFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		locator:           locator,
		fetcher:           fetcher,
		metadataExtractor: metadata.NewExtractor(),
		logger:            logger,
	}
}

// Result содержит результат импорта
type Result struct {
	TrackName string
	Path      string
	Size      int64
	Duration  time.Duration
	Hints     metadata.TrackMetadata // Теги файла для подсказок в форме
}

// Import копирует файл по ссылке ref в каталог документов под его исходным именем.
// Существующий файл не перезаписывается. progressCallback может быть nil.
func (s *Service) Import(ctx context.Context, ref string, progressCallback func(int64)) (*Result, error) {
	name := SourceName(ref)
	if name == "" {
		return nil, fmt.Errorf("не удалось определить имя файла: %s", ref)
	}
	if !audio.IsSupported(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, name)
	}

	if err := os.MkdirAll(s.locator.DocumentsDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога документов: %w", err)
	}

	var (
		dst  string
		size int64
		err  error
	)
	switch {
	case s3.IsURL(ref):
		dst, size, err = s.importObject(ctx, ref, name, progressCallback)
	case isHTTP(ref):
		dst, size, err = s.importStream(ctx, ref, name, progressCallback)
	default:
		dst, size, err = s.importLocal(ref, name, progressCallback)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		TrackName: name,
		Path:      dst,
		Size:      size,
		Hints:     s.metadataExtractor.ExtractFromFile(dst),
	}
	if fileInfo, err := s.metadataExtractor.GetFileInfo(dst); err != nil {
		s.logger.Warn("не удалось определить длительность", "path", dst, "error", err)
	} else {
		result.Duration = fileInfo.Duration
	}

	s.logger.Info("файл импортирован", "source", ref, "path", dst, "size", size)
	return result, nil
}

// Discard удаляет импортированный файл, если пользователь отменил создание записи
func (s *Service) Discard(trackName string) error {
	path := s.locator.DocumentPath(trackName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла: %w", err)
	}
	s.logger.Info("импорт отменен", "path", path)
	return nil
}

func (s *Service) importLocal(src, name string, progressCallback func(int64)) (string, int64, error) {
	file, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, fmt.Errorf("файл не найден: %s", src)
		}
		return "", 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	return s.copyTo(name, file, progressCallback)
}

func (s *Service) importStream(ctx context.Context, url, name string, progressCallback func(int64)) (string, int64, error) {
	reader, err := streaming.NewReader(ctx, url, streamBufferSize)
	if err != nil {
		return "", 0, fmt.Errorf("ошибка открытия потока: %w", err)
	}
	defer reader.Close()

	return s.copyTo(name, reader, progressCallback)
}

func (s *Service) importObject(ctx context.Context, ref, name string, progressCallback func(int64)) (string, int64, error) {
	if s.fetcher == nil {
		return "", 0, ErrNoObjectStorage
	}
	bucket, key, err := s3.ParseURL(ref)
	if err != nil {
		return "", 0, err
	}

	dst, file, err := s.create(name)
	if err != nil {
		return "", 0, err
	}

	n, err := s.fetcher.Download(ctx, bucket, key, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return "", 0, err
	}
	if progressCallback != nil {
		progressCallback(n)
	}
	return dst, n, nil
}

// copyTo создает файл назначения и копирует в него данные; при ошибке файл удаляется
func (s *Service) copyTo(name string, src io.Reader, progressCallback func(int64)) (string, int64, error) {
	dst, file, err := s.create(name)
	if err != nil {
		return "", 0, err
	}

	var reader io.Reader = src
	if progressCallback != nil {
		reader = &ProgressReader{Reader: src, OnProgress: progressCallback}
	}

	n, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return "", 0, fmt.Errorf("ошибка копирования файла: %w", err)
	}
	return dst, n, nil
}

func (s *Service) create(name string) (string, *os.File, error) {
	dst := s.locator.DocumentPath(name)
	file, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return "", nil, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
		}
		return "", nil, fmt.Errorf("ошибка создания файла: %w", err)
	}
	return dst, file, nil
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}

// SourceName возвращает имя файла, под которым источник будет сохранен
func SourceName(ref string) string {
	switch {
	case s3.IsURL(ref):
		_, key, err := s3.ParseURL(ref)
		if err != nil {
			return ""
		}
		return filepath.Base(key)
	case isHTTP(ref):
		return streaming.FileNameFromURL(ref)
	default:
		name := filepath.Base(ref)
		if name == "." || name == string(filepath.Separator) {
			return ""
		}
		return name
	}
}

func isHTTP(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
