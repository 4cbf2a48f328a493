// Package create реализует HTTP-обработчик покупки подписки.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	subscription "github.com/ballenosman966/admoneyhosting-sub001/internal/services/subscription"
)

// SubscriptionService определяет методы бизнес-логики для покупки подписок.
type SubscriptionService interface {
	AddSubscription(ctx context.Context, userUID string, sub models.DummySubscription) (int, error)
}

// Handler обрабатывает HTTP-запросы покупки подписки.
type Handler struct {
	log      *slog.Logger
	service  SubscriptionService
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service SubscriptionService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Купить подписку
// @Description Оформляет VIP-уровень или премиум без рекламы, оплата с баланса кошелька
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummySubscription true "Тип, уровень и способ оплаты"
// @Success 200 {object} response.OKResponse "Номер записи подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестный уровень"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 409 {object} response.ErrorResponse "Подписка уже активна или недостаточно средств"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

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

	var req models.DummySubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.AddSubscription(r.Context(), userUID, req)
	switch {
	case errors.Is(err, subscription.ErrUnknownTier):
		log.Error("purchase denied", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown vip tier"))
		return
	case errors.Is(err, subscription.ErrAlreadySubscribed):
		log.Error("purchase denied", sl.Err(err))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("active subscription already exists"))
		return
	case errors.Is(err, subscription.ErrInsufficientFunds):
		log.Error("purchase denied", sl.Err(err))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("insufficient funds"))
		return
	case err != nil:
		log.Error("failed to purchase subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to purchase subscription"))
		return
	}

	log.Info("subscription purchased", slog.String("user_uid", userUID), slog.Int("subscription_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription_id": id,
	}))
}
