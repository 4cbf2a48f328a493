// Package tiers реализует HTTP-обработчик каталога VIP-уровней.
package tiers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// Handler обрабатывает HTTP-запросы каталога VIP-уровней.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Каталог VIP-уровней
// @Description Возвращает таблицу уровней с ценами и ежедневными наградами
// @Tags Subscription
// @Produce  json
// @Success 200 {object} response.OKResponse "Таблица уровней"
// @Router /subscriptions/tiers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(models.VIPTiers()))
}
