package metadata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

func TestExtractFromNoMetadataFile(t *testing.T) {
	// Файл без тегов с именем в формате "Artist - Title"
	tempDir := t.TempDir()
	testFilePath := filepath.Join(tempDir, "Artist - Title - Live.mp3")

	err := os.WriteFile(testFilePath, []byte("fake content"), 0644)
	if err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	extractor := NewExtractor()
	metadata := extractor.ExtractFromFile(testFilePath)

	if metadata.Artist != "Artist" {
		t.Errorf("Ожидался Artist: Artist, получено: %s", metadata.Artist)
	}
	if metadata.Title != "Title - Live" {
		t.Errorf("Ожидался Title: Title - Live, получено: %s", metadata.Title)
	}
	if metadata.Album != "" {
		t.Errorf("Альбом должен быть пустым, получено: %s", metadata.Album)
	}
}

func TestGetDefaultMetadata(t *testing.T) {
	extractor := NewExtractor()

	metadata := extractor.getDefaultMetadata("/music/plain_name.wav")
	if metadata.Title != "plain_name" {
		t.Errorf("Ожидался Title: plain_name, получено: %s", metadata.Title)
	}
	if metadata.Artist != "" {
		t.Errorf("Исполнитель должен быть пустым, получено: %s", metadata.Artist)
	}
}

func TestExtractFromReader(t *testing.T) {
	extractor := NewExtractor()
	reader := bytes.NewReader([]byte("no tags here"))

	metadata := extractor.ExtractFromReader(reader, "https://example.com/Band - Song.mp3")

	if metadata.Artist != "Band" {
		t.Errorf("Ожидался Artist: Band, получено: %s", metadata.Artist)
	}
	if metadata.Title != "Song" {
		t.Errorf("Ожидался Title: Song, получено: %s", metadata.Title)
	}
}

func TestExtractFromMissingFile(t *testing.T) {
	extractor := NewExtractor()
	metadata := extractor.ExtractFromFile("/non/existent/Someone - Something.mp3")

	if metadata.Artist != "Someone" || metadata.Title != "Something" {
		t.Errorf("Для отсутствующего файла ожидался разбор имени, получено: %+v", metadata)
	}
}

func TestGetFileInfo(t *testing.T) {
	tempDir := t.TempDir()
	testFilePath := filepath.Join(tempDir, "silence.wav")

	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	file, err := os.Create(testFilePath)
	if err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}
	if err := wav.Encode(file, beep.Silence(format.SampleRate.N(3*time.Second)), format); err != nil {
		t.Fatalf("Ошибка кодирования WAV: %v", err)
	}
	file.Close()

	extractor := NewExtractor()
	fileInfo, err := extractor.GetFileInfo(testFilePath)
	if err != nil {
		t.Fatalf("Ошибка получения информации о файле: %v", err)
	}

	if fileInfo.Duration != 3*time.Second {
		t.Errorf("Ожидалась длительность 3s, получено: %v", fileInfo.Duration)
	}
	if fileInfo.Size <= 0 {
		t.Errorf("Ожидался положительный размер, получено: %d", fileInfo.Size)
	}
}

func TestGetFileInfoInvalidAudio(t *testing.T) {
	tempDir := t.TempDir()
	testFilePath := filepath.Join(tempDir, "test.mp3")

	err := os.WriteFile(testFilePath, []byte("test content for file info"), 0644)
	if err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	extractor := NewExtractor()
	fileInfo, err := extractor.GetFileInfo(testFilePath)

	// Файл не является валидным MP3
	if err == nil {
		t.Fatal("Ожидалась ошибка для некорректного MP3 файла")
	}
	if fileInfo != nil {
		t.Error("fileInfo должен быть nil при ошибке")
	}
	if !strings.Contains(err.Error(), "ошибка получения длительности") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestGetFileInfoNonExistentFile(t *testing.T) {
	extractor := NewExtractor()
	_, err := extractor.GetFileInfo("/non/existent/file.mp3")

	if err == nil {
		t.Fatal("Ожидалась ошибка для несуществующего файла")
	}
	if !strings.Contains(err.Error(), "ошибка получения информации о файле") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}
