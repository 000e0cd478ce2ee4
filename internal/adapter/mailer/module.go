package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/bernardito-luis/eurodelivery/internal/config"
	"github.com/bernardito-luis/eurodelivery/internal/usecase"
)

// Module exposes the SMTP notifier to fx graph.
var Module = fx.Provide(
	fx.Annotate(newNotifier, fx.As(new(usecase.Notifier))),
)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (*SMTPNotifier, error) {
	return NewSMTPNotifier(Options{
		Host:     p.Config.SMTPHost,
		Port:     p.Config.SMTPPort,
		Username: p.Config.SMTPUsername,
		Password: p.Config.SMTPPassword,
		From:     p.Config.SMTPFrom,
	}, p.Logger)
}
