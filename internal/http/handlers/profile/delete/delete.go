// Package delete реализует HTTP-обработчик запроса удаления аккаунта.
package delete

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

// Request — подтверждение удаления текущим паролем.
type Request struct {
	Password string `json:"password" validate:"required"`
}

// RewardsService определяет методы бизнес-логики для удаления аккаунта.
type RewardsService interface {
	RequestDeletion(ctx context.Context, userUID, currentPassword string) error
}

// Handler обрабатывает HTTP-запросы удаления аккаунта.
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
// @Summary Запрос удаления аккаунта
// @Description Проверяет текущий пароль и помечает аккаунт на удаление, чистка выполняется после grace-периода
// @Tags Profile
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Текущий пароль"
// @Success 200 {object} response.OKResponse "Запрос принят"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 403 {object} response.ErrorResponse "Пароль не совпадает"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /profile [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.delete"

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

	err := h.service.RequestDeletion(r.Context(), userUID, req.Password)
	if errors.Is(err, rewards.ErrInvalidPassword) {
		log.Error("password mismatch on account deletion")
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("invalid password"))
		return
	}
	if err != nil {
		log.Error("failed to request account deletion", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to request account deletion"))
		return
	}

	log.Info("account deletion requested", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "account deletion scheduled",
	}))
}
