// Package list реализует HTTP-обработчик списка сессий устройств.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// SessionService определяет методы бизнес-логики для чтения сессий.
type SessionService interface {
	ListSessions(ctx context.Context, userUID string) ([]*models.DeviceSession, error)
}

// Handler обрабатывает HTTP-запросы списка сессий.
type Handler struct {
	log     *slog.Logger
	service SessionService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service SessionService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сессии устройств
// @Description Возвращает сессии пользователя с устройством, IP и локацией, текущая первой
// @Tags Session
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Список сессий"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.list"

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

	items, err := h.service.ListSessions(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list sessions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list sessions"))
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}
