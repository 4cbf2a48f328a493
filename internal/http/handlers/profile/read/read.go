// Package read реализует HTTP-обработчик чтения профиля и кошелька пользователя.
package read

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

// RewardsService определяет методы бизнес-логики для чтения профиля.
type RewardsService interface {
	GetProfile(ctx context.Context, userUID string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы чтения профиля.
type Handler struct {
	log     *slog.Logger
	service RewardsService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service RewardsService) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает профиль с балансом, VIP-уровнем и статусом KYC
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Профиль"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

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

	user, err := h.service.GetProfile(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"username":      user.Username,
		"email":         user.Email,
		"balance":       user.Balance,
		"total_earned":  user.TotalEarned,
		"referral_code": user.ReferralCode,
		"vip_tier":      user.VIPTier,
		"is_subscribed": user.IsSubscribed,
		"kyc_status":    user.KYCStatus,
		"created_at":    user.CreatedAt,
	}))
}
