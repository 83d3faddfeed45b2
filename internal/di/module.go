package di

import (
	"go.uber.org/fx"

	"github.com/entregago/entrega/internal/adapter/events"
	"github.com/entregago/entrega/internal/adapter/payment"
	"github.com/entregago/entrega/internal/app"
	"github.com/entregago/entrega/internal/config"
	"github.com/entregago/entrega/internal/logger"
	"github.com/entregago/entrega/internal/pkg/auth"
	"github.com/entregago/entrega/internal/server/http/handlers"
	"github.com/entregago/entrega/internal/server/http/router"
	"github.com/entregago/entrega/internal/storage/postgres"
	"github.com/entregago/entrega/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		events.Module,
		usecase.Module,
		fx.Provide(
			func(gateway payment.Gateway) app.PaymentProvider { return gateway },
			func(facade *app.DeliveryFacade) handlers.DeliveryFacade { return facade },
			func(storage *postgres.Storage) handlers.HealthChecker { return storage },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
