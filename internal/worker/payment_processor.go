package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/entregago/entrega/internal/adapter/payment"
	"github.com/entregago/entrega/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the worker.
type PaymentFacade interface {
	OrdersAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error)
	CheckPayment(ctx context.Context, orderID string) (*model.PaymentResolution, error)
	ConfirmPayment(ctx context.Context, orderID string) error
	RejectPayment(ctx context.Context, orderID, reason string) error
}

// PaymentProcessor polls the payment gateway and resolves pending orders
// concurrently. Orders are independent; per-order serialization is enforced
// by the store's conditional transition.
type PaymentProcessor struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentProcessor constructs payment processor worker pool.
func NewPaymentProcessor(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (p *PaymentProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentProcessor) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.OrdersAwaitingPayment(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch orders awaiting payment failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *PaymentProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *PaymentProcessor) handleOrder(ctx context.Context, order model.Order) {
	result, err := p.facade.CheckPayment(ctx, order.ID)
	if err != nil {
		switch e := err.(type) {
		case payment.TooManyRequestsError:
			p.logger.Warn("payment gateway rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			if errors.Is(err, payment.ErrPaymentNotFound) {
				// Gateway hasn't registered the charge yet; next poll retries.
				time.Sleep(p.pollInterval)
				return
			}
			p.logger.Error("payment check failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		}
		return
	}

	switch result.State {
	case model.PaymentStateApproved:
		if err := p.facade.ConfirmPayment(ctx, order.ID); err != nil {
			p.logger.Error("confirm payment failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		}
	case model.PaymentStateRejected:
		reason := result.Reason
		if reason == "" {
			reason = "payment rejected"
		}
		if err := p.facade.RejectPayment(ctx, order.ID, reason); err != nil {
			p.logger.Error("reject payment failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		}
	case model.PaymentStatePending:
		// Still with the gateway; picked up again on the next poll.
	default:
		p.logger.Warn("unknown payment state", slog.String("order", order.ID), slog.String("state", string(result.State)))
	}
}
