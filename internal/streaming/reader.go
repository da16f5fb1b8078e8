// Package streaming содержит буферизованное чтение аудиофайлов по HTTP
package streaming

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path"
	"strings"
	"time"
)

// ErrNotAudio возвращается, если сервер отдает явно не аудио
var ErrNotAudio = errors.New("ответ сервера не является аудиофайлом")

// Reader буферизованный поток тела HTTP ответа
type Reader struct {
	reader      *bufio.Reader
	resp        *http.Response
	contentType string
}

// httpClient без общего таймаута: длинные файлы читаются дольше любого фиксированного лимита
var httpClient = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       300 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// NewReader открывает поток по URL
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Accept-Encoding", "identity") // Отключаем сжатие для потока
	req.Header.Set("User-Agent", "leakplayer/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isAudioContentType(contentType) {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotAudio, contentType)
	}

	return &Reader{
		reader:      bufio.NewReaderSize(resp.Body, bufferSize),
		resp:        resp,
		contentType: contentType,
	}, nil
}

// Read реализует интерфейс io.Reader
func (sr *Reader) Read(p []byte) (n int, err error) {
	return sr.reader.Read(p)
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}

// ContentType возвращает Content-Type ответа
func (sr *Reader) ContentType() string {
	return sr.contentType
}

// FileNameFromURL возвращает имя файла из пути URL без параметров запроса
func FileNameFromURL(rawURL string) string {
	trimmed := rawURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.Index(trimmed, "://"); i >= 0 {
		trimmed = trimmed[i+3:]
		if j := strings.Index(trimmed, "/"); j >= 0 {
			trimmed = trimmed[j:]
		} else {
			return ""
		}
	}
	name := path.Base(trimmed)
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// isAudioContentType пропускает пустой тип, audio/* и application/octet-stream
func isAudioContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return strings.HasPrefix(mediaType, "audio/") || mediaType == "application/octet-stream"
}
