package forward

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-kelas/internal/obs"
	"github.com/noah-isme/backend-kelas/internal/repo"
	"github.com/noah-isme/backend-kelas/internal/upstream"
)

// Poster delivers a payload to the backend.
type Poster interface {
	Post(ctx context.Context, path, tenantSlug string, body []byte) error
}

// StatusStore records the delivery outcome on the order row.
type StatusStore interface {
	SetStatus(ctx context.Context, orderID, status string) error
}

// Handler processes checkout forward tasks in the worker.
type Handler struct {
	Backend Poster
	Orders  StatusStore
	Logger  zerolog.Logger
}

// ProcessTask delivers one payload. A backend rejection marks the order
// FORWARD_FAILED and stops retrying; transient failures are returned to asynq
// so its retry schedule applies, and the order is only marked failed once
// retries are exhausted.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if h == nil || h.Backend == nil || h.Orders == nil {
		return fmt.Errorf("forward handler not configured: %w", asynq.SkipRetry)
	}
	var job Job
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return fmt.Errorf("decode job: %v: %w", err, asynq.SkipRetry)
	}

	log := h.Logger.With().
		Str("order_id", job.OrderID).
		Str("tenant", job.Tenant).
		Str("kind", job.Kind).
		Logger()

	started := time.Now()
	err := h.Backend.Post(ctx, "/api/v1/checkout/"+job.Kind, job.Tenant, job.Payload)
	if err == nil {
		obs.ObserveForwardAttempt("ok", time.Since(started))
		obs.ObserveForwardDelivery("forwarded")
		if serr := h.Orders.SetStatus(ctx, job.OrderID, repo.OrderForwarded); serr != nil {
			log.Error().Err(serr).Msg("forward_status_update_failed")
		}
		log.Info().Msg("checkout_forwarded")
		return nil
	}

	if errors.Is(err, upstream.ErrRejected) {
		obs.ObserveForwardAttempt("rejected", time.Since(started))
		obs.ObserveForwardDelivery("rejected")
		if serr := h.Orders.SetStatus(ctx, job.OrderID, repo.OrderForwardFailed); serr != nil {
			log.Error().Err(serr).Msg("forward_status_update_failed")
		}
		log.Error().Err(err).Msg("checkout_forward_rejected")
		return fmt.Errorf("rejected: %v: %w", err, asynq.SkipRetry)
	}

	obs.ObserveForwardAttempt("error", time.Since(started))
	retried, rok := asynq.GetRetryCount(ctx)
	maxRetry, mok := asynq.GetMaxRetry(ctx)
	if rok && mok && retried >= maxRetry {
		obs.ObserveForwardDelivery("failed")
		if serr := h.Orders.SetStatus(ctx, job.OrderID, repo.OrderForwardFailed); serr != nil {
			log.Error().Err(serr).Msg("forward_status_update_failed")
		}
	}
	log.Warn().Err(err).Int("retried", retried).Msg("checkout_forward_retry")
	return err
}
