package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/entregago/entrega/internal/config"
)

// Module provides the order event publisher. Without a configured broker the
// no-op implementation is used.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	if p.Config.BrokerURL == "" {
		p.Logger.Info("no broker configured, order events disabled")
		return NopPublisher{}, nil
	}

	publisher, err := NewAMQPPublisher(p.Config.BrokerURL)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
