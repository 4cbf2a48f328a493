// Package withdraw реализует HTTP-обработчик заявок на вывод средств.
package withdraw

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
	rewards "github.com/ballenosman966/admoneyhosting-sub001/internal/services/rewards"
)

// Request — входные данные заявки на вывод.
type Request struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Address string  `json:"address" validate:"required,min=10"`
}

// RewardsService определяет методы бизнес-логики для вывода средств.
type RewardsService interface {
	RequestWithdrawal(ctx context.Context, userUID string, amount float64, address string) (int, error)
}

// Handler обрабатывает HTTP-запросы на вывод средств.
type Handler struct {
	log      *slog.Logger
	service  RewardsService
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service RewardsService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Заявка на вывод средств
// @Description Блокирует сумму на балансе и создает заявку, решение выносит администратор
// @Tags Wallet
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Сумма и адрес кошелька"
// @Success 200 {object} response.OKResponse "Номер заявки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 409 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /wallet/withdraw [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.withdraw"

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

	var req Request
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

	id, err := h.service.RequestWithdrawal(r.Context(), userUID, req.Amount, req.Address)
	if errors.Is(err, rewards.ErrInsufficientFunds) {
		log.Error("withdrawal denied", sl.Err(err))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("insufficient funds"))
		return
	}
	if err != nil {
		log.Error("failed to create withdrawal request", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create withdrawal request"))
		return
	}

	log.Info("withdrawal requested", slog.String("user_uid", userUID), slog.Int("request_id_db", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"request_id": id,
		"status":     "pending",
	}))
}
