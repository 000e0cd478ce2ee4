package di

import (
	"go.uber.org/fx"

	"github.com/bernardito-luis/eurodelivery/internal/adapter/mailer"
	"github.com/bernardito-luis/eurodelivery/internal/app"
	"github.com/bernardito-luis/eurodelivery/internal/config"
	"github.com/bernardito-luis/eurodelivery/internal/logger"
	"github.com/bernardito-luis/eurodelivery/internal/pkg/auth"
	"github.com/bernardito-luis/eurodelivery/internal/server/http/handlers"
	"github.com/bernardito-luis/eurodelivery/internal/server/http/router"
	"github.com/bernardito-luis/eurodelivery/internal/storage/postgres"
	"github.com/bernardito-luis/eurodelivery/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mailer.Module,
		usecase.Module,
		fx.Provide(func(f *app.TrackerFacade) handlers.TrackerFacade { return f }),
		fx.Provide(func(s *postgres.Storage) handlers.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
