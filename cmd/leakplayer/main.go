package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazadus/leakplayer/internal/assets"
	"github.com/hazadus/leakplayer/internal/audio"
	"github.com/hazadus/leakplayer/internal/config"
	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/importer"
	"github.com/hazadus/leakplayer/internal/library"
	"github.com/hazadus/leakplayer/internal/logging"
	"github.com/hazadus/leakplayer/internal/nowplaying"
	"github.com/hazadus/leakplayer/internal/player"
	"github.com/hazadus/leakplayer/internal/prefs"
	"github.com/hazadus/leakplayer/internal/remote"
	"github.com/hazadus/leakplayer/internal/s3"
	"github.com/hazadus/leakplayer/internal/schedule"
)

// Application содержит всё, что нужно командам
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Locator  *assets.Locator
	Library  *library.Library
	Importer *importer.Service

	engine  audio.Engine
	closers []io.Closer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &Application{}
	defer app.Close()

	rootCmd := app.createRootCommand(ctx)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// setup загружает конфигурацию и собирает зависимости приложения
func (app *Application) setup(ctx context.Context, configPath string, verbose bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	app.Config = cfg

	logger, logCloser, err := logging.Setup(cfg.LogFile, verbose)
	if err != nil {
		return err
	}
	app.Logger = logger
	app.closers = append(app.closers, logCloser)

	store := app.newPrefsStore()
	app.Locator = assets.NewLocator(cfg.DocumentsDir, cfg.BundleDir)

	var fetcher importer.ObjectFetcher
	downloader, err := s3.NewDownloader(&s3.Config{
		Region:    cfg.AwsRegion,
		AccessKey: cfg.AwsAccessKey,
		SecretKey: cfg.AwsSecretKey,
		Endpoint:  cfg.AwsEndpoint,
	})
	if err != nil {
		logger.Warn("хранилище S3 недоступно", "error", err)
	} else {
		fetcher = downloader
	}

	app.Importer = importer.NewService(app.Locator, fetcher, logger)
	app.Library = library.New(store, app.Locator, logger)
	app.Library.Load(ctx)

	logger.Debug("приложение запущено", "prefs", cfg.PrefsBackend, "songs", len(app.Library.Songs()))
	return nil
}

func (app *Application) newPrefsStore() prefs.Store {
	cfg := app.Config
	if cfg.PrefsBackend == config.PrefsBackendRedis {
		store := prefs.NewRedisStore(prefs.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		app.closers = append(app.closers, store)
		return store
	}
	return prefs.NewFileStore(cfg.PrefsFile)
}

// NewSession создает сессию воспроизведения для копии списка songs.
// Движок вывода звука один на процесс.
func (app *Application) NewSession(songs []data.Song, position int) (*player.Session, error) {
	if app.engine == nil {
		app.engine = audio.NewSpeakerEngine()
	}

	publishers := nowplaying.Multi{nowplaying.NewFileWriter(app.Config.NowPlayingFile)}
	if app.Config.NotifyEnabled() {
		publishers = append(publishers, nowplaying.NewNotifier())
	}

	var source remote.Source
	watcher, err := remote.NewWatcher(app.Config.ControlFile, app.Logger)
	if err != nil {
		app.Logger.Warn("внешнее управление недоступно", "error", err)
	} else {
		source = watcher
	}

	session, err := player.NewSession(player.Options{
		Songs:     songs,
		Position:  position,
		Engine:    app.engine,
		Locator:   app.Locator,
		Scheduler: schedule.NewTicker(),
		Publisher: publishers,
		Remote:    source,
		Volume:    app.Config.Volume,
		Logger:    app.Logger,
	})
	if err != nil {
		if watcher != nil {
			watcher.Close()
		}
		return nil, err
	}
	return session, nil
}

// Close освобождает ресурсы приложения
func (app *Application) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}
