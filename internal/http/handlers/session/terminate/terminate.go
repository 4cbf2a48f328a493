// Package terminate реализует HTTP-обработчики завершения сессий устройств.
package terminate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	session "github.com/ballenosman966/admoneyhosting-sub001/internal/services/session"
)

// SessionService определяет методы бизнес-логики для завершения сессий.
type SessionService interface {
	TerminateSession(ctx context.Context, id int, userUID string) error
	TerminateOtherSessions(ctx context.Context, userUID string, keepID int) (int, error)
}

// Handler обрабатывает HTTP-запросы завершения одной сессии.
type Handler struct {
	log     *slog.Logger
	service SessionService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service SessionService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Завершить сессию
// @Description Удаляет одну сессию устройства текущего пользователя
// @Tags Session
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор сессии"
// @Success 200 {object} response.OKResponse "Сессия завершена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.terminate"

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

	err = h.service.TerminateSession(r.Context(), id, userUID)
	if errors.Is(err, session.ErrSessionNotFound) {
		log.Error("session not found", slog.Int("session_id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to terminate session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to terminate session"))
		return
	}

	log.Info("session terminated", slog.Int("session_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "session terminated",
	}))
}

// OthersHandler обрабатывает HTTP-запросы завершения всех остальных сессий.
type OthersHandler struct {
	log     *slog.Logger
	service SessionService
}

// NewOthers создает новый экземпляр OthersHandler.
func NewOthers(log *slog.Logger, service SessionService) *OthersHandler {
	return &OthersHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Завершить остальные сессии
// @Description Удаляет все сессии пользователя, кроме указанной текущей
// @Tags Session
// @Produce  json
// @Security BearerAuth
// @Param keep query int true "Идентификатор сессии, которую нужно сохранить"
// @Success 200 {object} response.OKResponse "Количество завершенных сессий"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/others [delete]
func (h *OthersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.terminateothers"

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

	keepID, err := strconv.Atoi(r.URL.Query().Get("keep"))
	if err != nil {
		log.Error("invalid keep session id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid keep session id"))
		return
	}

	terminated, err := h.service.TerminateOtherSessions(r.Context(), userUID, keepID)
	if err != nil {
		log.Error("failed to terminate sessions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to terminate sessions"))
		return
	}

	log.Info("other sessions terminated", slog.Int("count", terminated))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"terminated": terminated,
	}))
}
