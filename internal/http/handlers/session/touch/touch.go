// Package touch реализует HTTP-обработчик обновления активности сессии.
package touch

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
)

// SessionService определяет методы бизнес-логики для обновления сессии.
type SessionService interface {
	TouchSession(ctx context.Context, id int, userUID string) error
}

// Handler обрабатывает HTTP-запросы обновления времени активности сессии.
type Handler struct {
	log     *slog.Logger
	service SessionService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service SessionService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить активность сессии
// @Description Выставляет время последней активности сессии в текущее
// @Tags Session
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор сессии"
// @Success 200 {object} response.OKResponse "Активность обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{id}/touch [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.touch"

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

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid session id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid session id"))
		return
	}

	if err := h.service.TouchSession(r.Context(), id, userUID); err != nil {
		log.Error("failed to touch session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to touch session"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "session activity updated",
	}))
}
