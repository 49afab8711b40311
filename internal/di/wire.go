//go:build wireinject

package di

import (
	"github.com/google/wire"

	"qiitawatch/internal/adapter/logging"
	"qiitawatch/internal/adapter/storage"
	"qiitawatch/internal/app"
	"qiitawatch/internal/config"
	"qiitawatch/internal/domain/ports"
	"qiitawatch/internal/qiitaapi"
	"qiitawatch/internal/usecase"
)

// InitializeApp wires the application components together.
func InitializeApp(configPath string) (*app.App, func(), error) {
	wire.Build(
		config.Load,
		provideLogWriter,
		provideSlogLogger,
		logging.New,
		wire.Bind(new(ports.Logger), new(*logging.SLogger)),
		provideFetcher,
		provideEndpoints,
		qiitaapi.NewUserRepository,
		qiitaapi.NewArticleRepository,
		wire.Bind(new(usecase.ArticleSource), new(*qiitaapi.ArticleRepository)),
		provideStore,
		wire.Bind(new(ports.SeenStore), new(*storage.Store)),
		provideImageFetcher,
		provideArticlePreviewer,
		provideNotifier,
		provideWatchConfig,
		usecase.NewArticleWatch,
		provideScreens,
		app.New,
	)
	return nil, nil, nil
}
