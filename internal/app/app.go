package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/bernardito-luis/eurodelivery/internal/config"
	"github.com/bernardito-luis/eurodelivery/internal/usecase"
	"github.com/bernardito-luis/eurodelivery/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewTrackerFacade,
		newHTTPServer,
		newNotificationRelay,
		func(f *TrackerFacade) Bootstrapper { return f },
	),
	fx.Invoke(registerLifecycle),
)

// Bootstrapper prepares accounts required before serving traffic.
type Bootstrapper interface {
	EnsureSuperuser(ctx context.Context, email, password string) error
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *TrackerFacade
	Config *config.Config
	Logger *slog.Logger
}

func newNotificationRelay(p workerParams) *worker.NotificationRelay {
	return worker.NewNotificationRelay(p.Facade, worker.RelayOptions{
		PollInterval:  p.Config.NotifyPollInterval,
		BatchSize:     p.Config.NotifyBatchSize,
		Workers:       p.Config.NotifyWorkers,
		MaxAttempts:   p.Config.NotifyMaxAttempts,
		RatePerSecond: p.Config.NotifyRatePerSecond,
	}, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Relay      *worker.NotificationRelay
	Bootstrap  Bootstrapper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	relayEnabled := usecase.NotifyMode(p.Config.NotifyMode) == usecase.NotifyOutbox

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Config.AdminPassword != "" {
				if err := p.Bootstrap.EnsureSuperuser(ctx, p.Config.AdminEmail, p.Config.AdminPassword); err != nil {
					return fmt.Errorf("bootstrap superuser: %w", err)
				}
				p.Logger.Info("superuser ensured", slog.String("email", p.Config.AdminEmail))
			}

			p.Logger.Info("starting eurodelivery",
				slog.String("addr", p.Server.Addr),
				slog.String("notify_mode", p.Config.NotifyMode),
			)
			if relayEnabled {
				// hook ctx ends with OnStart; the relay lives until OnStop
				p.Relay.Start(context.WithoutCancel(ctx))
				p.Logger.Info("notification relay started", slog.String("relay_id", p.Relay.ID()))
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if relayEnabled {
				p.Relay.Stop()
			}

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("eurodelivery stopped")
			return nil
		},
	})
}
