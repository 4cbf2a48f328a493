// Package markread реализует HTTP-обработчик отметки уведомления прочитанным.
package markread

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
	notification "github.com/ballenosman966/admoneyhosting-sub001/internal/services/notification"
)

// NotificationService определяет методы бизнес-логики для отметки прочтения.
type NotificationService interface {
	MarkRead(ctx context.Context, id int, userUID string) error
}

// Handler обрабатывает HTTP-запросы отметки уведомлений.
type Handler struct {
	log     *slog.Logger
	service NotificationService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service NotificationService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отметить уведомление прочитанным
// @Tags Notification
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор уведомления"
// @Success 200 {object} response.OKResponse "Уведомление отмечено"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 404 {object} response.ErrorResponse "Уведомление не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /notifications/{id}/read [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.markread"

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
		log.Error("invalid notification id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid notification id"))
		return
	}

	err = h.service.MarkRead(r.Context(), id, userUID)
	if errors.Is(err, notification.ErrNotificationNotFound) {
		log.Error("notification not found", slog.Int("notification_id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("notification not found"))
		return
	}
	if err != nil {
		log.Error("failed to mark notification", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to mark notification"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "notification marked as read",
	}))
}
