package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"qiitawatch/internal/adapter/discord"
	"qiitawatch/internal/adapter/httpfetch"
	"qiitawatch/internal/adapter/image"
	"qiitawatch/internal/adapter/logging"
	"qiitawatch/internal/adapter/preview"
	"qiitawatch/internal/adapter/storage"
	"qiitawatch/internal/adapter/tui"
	"qiitawatch/internal/config"
	"qiitawatch/internal/domain/ports"
	"qiitawatch/internal/qiitaapi"
	"qiitawatch/internal/usecase"
)

// provideLogWriter opens the log destination. The TUI owns the terminal, so it logs to a file.
func provideLogWriter(cfg *config.Config) (io.Writer, func(), error) {
	return logging.OpenFile(cfg.LogFile)
}

func provideSlogLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	handler, err := logging.NewJSONHandler(w, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(handler).With("env", cfg.Env, "mode", string(cfg.Mode)), nil
}

func provideFetcher(cfg *config.Config, logger ports.Logger) ports.Fetcher {
	return httpfetch.New(cfg.RequestTimeout, cfg.AccessToken, logger)
}

func provideEndpoints(cfg *config.Config) qiitaapi.Endpoints {
	return qiitaapi.NewEndpoints(cfg.APIBaseURL)
}

func provideStore(cfg *config.Config, logger ports.Logger) (*storage.Store, func(), error) {
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error(context.Background(), "failed to close store", "error", err)
		}
	}
	return store, cleanup, nil
}

func provideImageFetcher(cfg *config.Config, logger ports.Logger) ports.ImageFetcher {
	return image.New(cfg.RequestTimeout, logger)
}

func provideArticlePreviewer(cfg *config.Config, logger ports.Logger) ports.ArticlePreviewer {
	return preview.New(cfg.RequestTimeout, logger)
}

func provideNotifier(cfg *config.Config, logger ports.Logger) ports.Notifier {
	if cfg.Watch.DiscordWebhookURL == "" {
		return logging.NewNotifier(logger)
	}
	return discord.NewWebhook(cfg.Watch.DiscordWebhookURL, cfg.RequestTimeout, logger)
}

func provideWatchConfig(cfg *config.Config) usecase.ArticleWatchConfig {
	return usecase.ArticleWatchConfig{Users: cfg.Watch.Users}
}

func provideScreens(
	cfg *config.Config,
	users *qiitaapi.UserRepository,
	articles *qiitaapi.ArticleRepository,
	store *storage.Store,
	images ports.ImageFetcher,
	previews ports.ArticlePreviewer,
	logger ports.Logger,
) tui.Deps {
	return tui.Deps{
		Users:    users,
		Articles: articles,
		Terms:    store,
		Images:   images,
		Previews: previews,
		Logger:   logger,
		Strict:   cfg.StrictInvariants(),
	}
}
