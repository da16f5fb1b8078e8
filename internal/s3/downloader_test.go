package s3

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		ref    string
		bucket string
		key    string
		valid  bool
	}{
		{"s3://music/track.mp3", "music", "track.mp3", true},
		{"s3://music/dir/sub/track.mp3", "music", "dir/sub/track.mp3", true},
		{"s3://music", "", "", false},
		{"s3:///track.mp3", "", "", false},
		{"https://example.com/track.mp3", "", "", false},
	}

	for _, test := range tests {
		bucket, key, err := ParseURL(test.ref)
		if !test.valid {
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("ParseURL(%q): ожидалась ErrInvalidURL, получено %v", test.ref, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseURL(%q): неожиданная ошибка %v", test.ref, err)
			continue
		}
		if bucket != test.bucket || key != test.key {
			t.Errorf("ParseURL(%q) = (%s, %s), ожидалось (%s, %s)", test.ref, bucket, key, test.bucket, test.key)
		}
	}
}

func TestDownloadFromPathStyleEndpoint(t *testing.T) {
	content := []byte("fake flac content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/music/albums/track.flac" {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, "track.flac", time.Time{}, bytes.NewReader(content))
	}))
	defer server.Close()

	downloader, err := NewDownloader(&Config{
		Region:    "us-east-1",
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Endpoint:  server.URL,
	})
	if err != nil {
		t.Fatalf("Ошибка создания downloader: %v", err)
	}

	file, err := os.Create(filepath.Join(t.TempDir(), "track.flac"))
	if err != nil {
		t.Fatalf("Ошибка создания файла: %v", err)
	}
	defer file.Close()

	n, err := downloader.Download(context.Background(), "music", "albums/track.flac", file)
	if err != nil {
		t.Fatalf("Ошибка загрузки: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("Ожидалось %d байт, получено %d", len(content), n)
	}

	written, err := os.ReadFile(file.Name())
	if err != nil {
		t.Fatalf("Ошибка чтения файла: %v", err)
	}
	if !bytes.Equal(written, content) {
		t.Errorf("Неожиданное содержимое: %q", written)
	}
}

func TestDownloadMissingObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	downloader, err := NewDownloader(&Config{
		Region:    "us-east-1",
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Endpoint:  server.URL,
	})
	if err != nil {
		t.Fatalf("Ошибка создания downloader: %v", err)
	}

	buf := aws.NewWriteAtBuffer(nil)
	_, err = downloader.Download(context.Background(), "music", "missing.mp3", buf)
	if err == nil {
		t.Fatal("Ожидалась ошибка для отсутствующего объекта")
	}
	if !strings.Contains(err.Error(), "ошибка загрузки из S3") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}
