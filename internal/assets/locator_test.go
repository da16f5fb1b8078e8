package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Ошибка создания каталога: %v", err)
	}
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("Ошибка записи файла: %v", err)
	}
}

func TestResolvePrefersDocuments(t *testing.T) {
	root := t.TempDir()
	locator := NewLocator(filepath.Join(root, "docs"), filepath.Join(root, "bundle"))

	writeFile(t, filepath.Join(root, "docs", "song1"))
	writeFile(t, filepath.Join(root, "bundle", "song1.mp3"))

	path, err := locator.Resolve("song1")
	if err != nil {
		t.Fatalf("Ошибка поиска файла: %v", err)
	}
	if path != filepath.Join(root, "docs", "song1") {
		t.Errorf("Файл из документов должен иметь приоритет, получено %s", path)
	}
}

func TestResolveFallsBackToBundle(t *testing.T) {
	root := t.TempDir()
	locator := NewLocator(filepath.Join(root, "docs"), filepath.Join(root, "bundle"))

	writeFile(t, filepath.Join(root, "bundle", "song2.mp3"))
	writeFile(t, filepath.Join(root, "bundle", "exact.wav"))

	tests := []struct {
		trackName string
		expected  string
	}{
		{"song2", filepath.Join(root, "bundle", "song2.mp3")},
		{"exact.wav", filepath.Join(root, "bundle", "exact.wav")},
	}

	for _, test := range tests {
		path, err := locator.Resolve(test.trackName)
		if err != nil {
			t.Errorf("Ошибка поиска %s: %v", test.trackName, err)
			continue
		}
		if path != test.expected {
			t.Errorf("Resolve(%s) = %s, ожидалось %s", test.trackName, path, test.expected)
		}
	}
}

func TestResolveMissing(t *testing.T) {
	locator := NewLocator(t.TempDir(), t.TempDir())

	for _, name := range []string{"missing.mp3", "", "   ", "..", "."} {
		if _, err := locator.Resolve(name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Ожидалась ErrNotFound для %q, получено %v", name, err)
		}
	}
}

func TestDocumentPathStripsDirectories(t *testing.T) {
	locator := NewLocator("/docs", "")

	if got := locator.DocumentPath("../../etc/passwd"); got != filepath.Join("/docs", "passwd") {
		t.Errorf("Ожидался путь внутри каталога документов, получено %s", got)
	}
}

func TestDocumentPathStaysInsideForParentName(t *testing.T) {
	locator := NewLocator("/docs", "")

	for _, name := range []string{"..", " .. ", "a/.."} {
		if got := locator.DocumentPath(name); got != "/docs" {
			t.Errorf("Имя %q не должно выводить за каталог документов, получено %s", name, got)
		}
	}
}
