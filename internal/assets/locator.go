// Package assets определяет, где лежит аудиофайл песни
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound возвращается, если файл не найден ни в документах, ни в ресурсах
var ErrNotFound = errors.New("аудиофайл не найден")

// bundleExt расширение встроенных ресурсов
const bundleExt = ".mp3"

// Locator ищет файлы сначала в каталоге документов пользователя, затем в ресурсах приложения
type Locator struct {
	DocumentsDir string
	BundleDir    string
}

// NewLocator создает Locator
func NewLocator(documentsDir, bundleDir string) *Locator {
	return &Locator{DocumentsDir: documentsDir, BundleDir: bundleDir}
}

// DocumentPath возвращает путь к файлу в каталоге документов.
// Используется только базовое имя, чтобы запись не могла указывать за пределы каталога.
func (l *Locator) DocumentPath(trackName string) string {
	return filepath.Join(l.DocumentsDir, cleanName(trackName))
}

// Resolve возвращает путь к воспроизводимому файлу
func (l *Locator) Resolve(trackName string) (string, error) {
	name := cleanName(trackName)
	if name == "" {
		return "", fmt.Errorf("%w: пустое имя трека", ErrNotFound)
	}

	candidates := []string{l.DocumentPath(name)}
	if l.BundleDir != "" {
		candidates = append(candidates, filepath.Join(l.BundleDir, name))
		if filepath.Ext(name) == "" {
			candidates = append(candidates, filepath.Join(l.BundleDir, name+bundleExt))
		}
	}

	for _, path := range candidates {
		if isFile(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

func cleanName(trackName string) string {
	name := filepath.Base(strings.TrimSpace(trackName))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
