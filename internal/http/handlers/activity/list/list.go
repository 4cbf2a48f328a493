// Package list реализует HTTP-обработчик журнала активности пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// NotificationService определяет методы бизнес-логики для журнала активности.
type NotificationService interface {
	ListActivity(ctx context.Context, userUID string, limit, offset int) ([]*models.ActivityRecord, error)
}

// Handler обрабатывает HTTP-запросы журнала активности.
type Handler struct {
	log     *slog.Logger
	service NotificationService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service NotificationService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал активности
// @Description Возвращает записи начислений и операций пользователя, новые сверху
// @Tags Activity
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Количество записей, по умолчанию 20"
// @Param offset query int false "Смещение, по умолчанию 0"
// @Success 200 {object} response.OKResponse "Журнал активности"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /activity [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activity.list"

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

	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	items, err := h.service.ListActivity(r.Context(), userUID, limit, offset)
	if err != nil {
		log.Error("failed to list activity", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list activity"))
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}
