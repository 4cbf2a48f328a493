// Package list реализует HTTP-обработчик списка рефералов пользователя.
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

// RewardsService определяет методы бизнес-логики для рефералов.
type RewardsService interface {
	ListReferrals(ctx context.Context, userUID string) ([]*models.ReferralRecord, error)
}

// Handler обрабатывает HTTP-запросы списка рефералов.
type Handler struct {
	log     *slog.Logger
	service RewardsService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service RewardsService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список рефералов
// @Description Возвращает приглашенных пользователей и заработок с каждого
// @Tags Referral
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Список рефералов"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /referrals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.list"

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

	items, err := h.service.ListReferrals(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list referrals", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list referrals"))
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}
