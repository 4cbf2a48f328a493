// Package cancel реализует HTTP-обработчик отмены подписки.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	subscription "github.com/ballenosman966/admoneyhosting-sub001/internal/services/subscription"
)

// SubscriptionService определяет методы бизнес-логики для отмены подписок.
type SubscriptionService interface {
	CancelSubscription(ctx context.Context, userUID string) (int, error)
}

// Handler обрабатывает HTTP-запросы отмены подписки.
type Handler struct {
	log     *slog.Logger
	service SubscriptionService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service SubscriptionService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Переводит все действующие подписки пользователя в статус cancelled
// @Tags Subscription
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Количество отмененных записей"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 404 {object} response.ErrorResponse "Активной подписки нет"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	cancelled, err := h.service.CancelSubscription(r.Context(), userUID)
	if errors.Is(err, subscription.ErrNoActiveSubscription) {
		log.Error("nothing to cancel", sl.Err(err))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("no active subscription"))
		return
	}
	if err != nil {
		log.Error("failed to cancel subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to cancel subscription"))
		return
	}

	log.Info("subscription cancelled", slog.String("user_uid", userUID), slog.Int("count", cancelled))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cancelled": cancelled,
	}))
}
