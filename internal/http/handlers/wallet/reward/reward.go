// Package reward реализует HTTP-обработчик засчитывания просмотра рекламы.
package reward

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
)

// RewardsService определяет методы бизнес-логики для начислений за рекламу.
type RewardsService interface {
	WatchAd(ctx context.Context, userUID string) (float64, error)
}

// Handler обрабатывает HTTP-запросы засчитывания просмотров.
type Handler struct {
	log     *slog.Logger
	service RewardsService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service RewardsService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Засчитать просмотр рекламы
// @Description Начисляет награду за просмотр и комиссию пригласившему
// @Tags Wallet
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Начисленная сумма"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ads/watch [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.reward"

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

	reward, err := h.service.WatchAd(r.Context(), userUID)
	if err != nil {
		log.Error("failed to credit ad view", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to credit ad view"))
		return
	}

	log.Info("ad view credited", slog.String("user_uid", userUID), slog.Float64("reward", reward))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reward": reward,
	}))
}
