// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.leakplayer/config.yaml"

// Бэкенды хранилища настроек
const (
	PrefsBackendFile  = "file"
	PrefsBackendRedis = "redis"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	DocumentsDir string `yaml:"documents_dir"` // Импортированные файлы
	BundleDir    string `yaml:"bundle_dir"`    // Встроенные треки song1..song4
	ImportDir    string `yaml:"import_dir"`    // Начальный каталог выбора файла

	PrefsBackend  string `yaml:"prefs_backend"`
	PrefsFile     string `yaml:"prefs_file"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	Volume         float64 `yaml:"volume"`
	LogFile        string  `yaml:"log_file"`
	ControlFile    string  `yaml:"control_file"`
	NowPlayingFile string  `yaml:"now_playing_file"`
	Notify         *bool   `yaml:"notify"`

	AwsRegion    string `yaml:"aws_region"`
	AwsAccessKey string `yaml:"aws_access_key"`
	AwsSecretKey string `yaml:"aws_secret_key"`
	AwsEndpoint  string `yaml:"aws_endpoint"`
}

// Default возвращает конфигурацию со значениями по умолчанию и нераскрытой тильдой
func Default() *Config {
	notify := true
	return &Config{
		DocumentsDir:   "~/.leakplayer/documents",
		BundleDir:      "~/.leakplayer/bundle",
		ImportDir:      "~/Music",
		PrefsBackend:   PrefsBackendFile,
		PrefsFile:      "~/.leakplayer/prefs.yaml",
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "leakplayer:",
		Volume:         0.2,
		LogFile:        "~/.leakplayer/leakplayer.log",
		ControlFile:    "~/.leakplayer/control",
		NowPlayingFile: "~/.leakplayer/now-playing.yaml",
		Notify:         &notify,
		AwsRegion:      "us-east-1",
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файла нет, используются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	config := Default()

	data, err := os.ReadFile(ExpandHome(filePath, home))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
		}
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Раскрываем тильду во всех путях
	for _, p := range []*string{
		&config.DocumentsDir,
		&config.BundleDir,
		&config.ImportDir,
		&config.PrefsFile,
		&config.LogFile,
		&config.ControlFile,
		&config.NowPlayingFile,
	} {
		*p = ExpandHome(*p, home)
	}

	return config, nil
}

// Validate проверяет значения, для которых нет разумной замены
func (c *Config) Validate() error {
	switch c.PrefsBackend {
	case PrefsBackendFile, PrefsBackendRedis:
	default:
		return fmt.Errorf("неизвестный бэкенд настроек: %s", c.PrefsBackend)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("громкость должна быть в диапазоне 0..1, получено: %v", c.Volume)
	}
	return nil
}

// NotifyEnabled сообщает, нужно ли показывать уведомления о смене трека
func (c *Config) NotifyEnabled() bool {
	return c.Notify == nil || *c.Notify
}

// applyDefaults заполняет пустые значения, которые были явно очищены в файле
func (c *Config) applyDefaults() {
	defaults := Default()
	for _, pair := range []struct {
		value    *string
		fallback string
	}{
		{&c.DocumentsDir, defaults.DocumentsDir},
		{&c.BundleDir, defaults.BundleDir},
		{&c.ImportDir, defaults.ImportDir},
		{&c.PrefsBackend, defaults.PrefsBackend},
		{&c.PrefsFile, defaults.PrefsFile},
		{&c.RedisAddr, defaults.RedisAddr},
		{&c.LogFile, defaults.LogFile},
		{&c.ControlFile, defaults.ControlFile},
		{&c.NowPlayingFile, defaults.NowPlayingFile},
		{&c.AwsRegion, defaults.AwsRegion},
	} {
		if strings.TrimSpace(*pair.value) == "" {
			*pair.value = pair.fallback
		}
	}
	if c.Volume == 0 {
		c.Volume = defaults.Volume
	}
}

// ExpandHome заменяет ведущую тильду домашним каталогом
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
