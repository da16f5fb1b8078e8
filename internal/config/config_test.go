package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	notify := false
	testConfig := Config{
		DocumentsDir:  filepath.Join(tempDir, "docs"),
		BundleDir:     filepath.Join(tempDir, "bundle"),
		PrefsBackend:  PrefsBackendRedis,
		RedisAddr:     "redis:6380",
		RedisDB:       2,
		RedisPrefix:   "test:",
		Volume:        0.5,
		Notify:        &notify,
		AwsRegion:     "eu-west-1",
		AwsAccessKey:  "test-access-key",
		AwsSecretKey:  "test-secret-key",
		AwsEndpoint:   "https://storage.example.com",
		RedisPassword: "secret",
	}

	data, err := yaml.Marshal(testConfig)
	if err != nil {
		t.Fatalf("Ошибка сериализации конфигурации: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}

	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if loadedConfig.DocumentsDir != testConfig.DocumentsDir {
		t.Errorf("Ожидался DocumentsDir: %s, получено: %s", testConfig.DocumentsDir, loadedConfig.DocumentsDir)
	}
	if loadedConfig.PrefsBackend != PrefsBackendRedis {
		t.Errorf("Ожидался PrefsBackend: redis, получено: %s", loadedConfig.PrefsBackend)
	}
	if loadedConfig.RedisAddr != "redis:6380" || loadedConfig.RedisDB != 2 || loadedConfig.RedisPrefix != "test:" {
		t.Errorf("Неверные настройки Redis: %+v", loadedConfig)
	}
	if loadedConfig.Volume != 0.5 {
		t.Errorf("Ожидалась громкость 0.5, получено: %v", loadedConfig.Volume)
	}
	if loadedConfig.NotifyEnabled() {
		t.Error("Уведомления должны быть отключены")
	}
	if loadedConfig.AwsRegion != "eu-west-1" || loadedConfig.AwsEndpoint != testConfig.AwsEndpoint {
		t.Errorf("Неверные настройки S3: %+v", loadedConfig)
	}

	// Незаданные значения берутся по умолчанию
	home, _ := os.UserHomeDir()
	if loadedConfig.LogFile != filepath.Join(home, ".leakplayer", "leakplayer.log") {
		t.Errorf("Неверный LogFile по умолчанию: %s", loadedConfig.LogFile)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	loadedConfig, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Отсутствующий файл не должен быть ошибкой: %v", err)
	}

	home, _ := os.UserHomeDir()
	if loadedConfig.DocumentsDir != filepath.Join(home, ".leakplayer", "documents") {
		t.Errorf("Неверный DocumentsDir: %s", loadedConfig.DocumentsDir)
	}
	if loadedConfig.PrefsBackend != PrefsBackendFile {
		t.Errorf("Ожидался бэкенд file, получено: %s", loadedConfig.PrefsBackend)
	}
	if loadedConfig.Volume != 0.2 {
		t.Errorf("Ожидалась громкость 0.2, получено: %v", loadedConfig.Volume)
	}
	if !loadedConfig.NotifyEnabled() {
		t.Error("Уведомления по умолчанию включены")
	}
	for _, p := range []string{loadedConfig.PrefsFile, loadedConfig.ControlFile, loadedConfig.NowPlayingFile} {
		if strings.HasPrefix(p, "~") {
			t.Errorf("Тильда не раскрыта: %s", p)
		}
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"broken yaml", "volume: [", "ошибка разбора конфигурации"},
		{"unknown backend", "prefs_backend: sqlite\n", "неизвестный бэкенд"},
		{"volume too loud", "volume: 1.5\n", "громкость"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(test.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(configPath)
			if err == nil || !strings.Contains(err.Error(), test.message) {
				t.Errorf("Ожидалась ошибка %q, получено: %v", test.message, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"~", "/home/user"},
		{"~/music", "/home/user/music"},
		{"/abs/~/dir", "/abs/~/dir"},
		{"relative", "relative"},
	}
	for _, test := range tests {
		if got := ExpandHome(test.path, "/home/user"); got != test.expected {
			t.Errorf("ExpandHome(%q) = %q, ожидалось %q", test.path, got, test.expected)
		}
	}
}
