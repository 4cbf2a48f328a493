// Package claim реализует HTTP-обработчик получения ежедневной VIP-награды.
package claim

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	rewards "github.com/ballenosman966/admoneyhosting-sub001/internal/services/rewards"
)

// RewardsService определяет методы бизнес-логики для ежедневных наград.
type RewardsService interface {
	ClaimDailyReward(ctx context.Context, userUID string) (float64, error)
}

// Handler обрабатывает HTTP-запросы ежедневных наград.
type Handler struct {
	log     *slog.Logger
	service RewardsService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service RewardsService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить ежедневную VIP-награду
// @Description Начисляет ежедневную награду текущего VIP-уровня, раз в сутки
// @Tags Wallet
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Начисленная сумма"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 403 {object} response.ErrorResponse "Нет действующего VIP"
// @Failure 409 {object} response.ErrorResponse "Награда уже получена сегодня"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /rewards/daily [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.claim"

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

	reward, err := h.service.ClaimDailyReward(r.Context(), userUID)
	switch {
	case errors.Is(err, rewards.ErrNotVIP):
		log.Error("daily reward denied", sl.Err(err))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("daily reward requires an active vip tier"))
		return
	case errors.Is(err, rewards.ErrAlreadyClaimed):
		log.Error("daily reward denied", sl.Err(err))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("daily reward already claimed today"))
		return
	case err != nil:
		log.Error("failed to claim daily reward", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to claim daily reward"))
		return
	}

	log.Info("daily reward claimed", slog.String("user_uid", userUID), slog.Float64("reward", reward))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reward": reward,
	}))
}
