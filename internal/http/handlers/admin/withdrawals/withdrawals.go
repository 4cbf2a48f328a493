// Package withdrawals реализует административные HTTP-обработчики
// очереди заявок на вывод и вынесения решений.
package withdrawals

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	admin "github.com/ballenosman966/admoneyhosting-sub001/internal/services/admin"
)

// AdminService определяет методы бизнес-логики для заявок на вывод.
type AdminService interface {
	ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error)
	ReviewWithdrawal(ctx context.Context, id int, approve bool, reviewer string) error
}

// ListHandler обрабатывает HTTP-запросы очереди заявок на вывод.
type ListHandler struct {
	log     *slog.Logger
	service AdminService
}

// NewList создает новый экземпляр ListHandler.
func NewList(log *slog.Logger, service AdminService) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Очередь заявок на вывод
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Нерассмотренные заявки"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/withdrawals [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.withdrawals.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.ListPendingWithdrawals(r.Context())
	if err != nil {
		log.Error("failed to list pending withdrawals", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list pending withdrawals"))
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}

// ReviewRequest — решение администратора по заявке.
type ReviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// ReviewHandler обрабатывает HTTP-запросы вынесения решений по заявкам на вывод.
type ReviewHandler struct {
	log      *slog.Logger
	service  AdminService
	validate *validator.Validate
}

// NewReview создает новый экземпляр ReviewHandler.
func NewReview(log *slog.Logger, service AdminService) *ReviewHandler {
	return &ReviewHandler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Решение по заявке на вывод
// @Description Подтверждает выплату либо отклоняет заявку с возвратом суммы на баланс
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор заявки"
// @Param request body ReviewRequest true "Решение approve или reject"
// @Success 200 {object} response.OKResponse "Решение зафиксировано"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена или уже рассмотрена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/withdrawals/{id} [post]
func (h *ReviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.withdrawals.review"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	reviewer, _ := r.Context().Value(middlewarectx.User).(string)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid request id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request id"))
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err = h.service.ReviewWithdrawal(r.Context(), id, req.Decision == "approve", reviewer)
	if errors.Is(err, admin.ErrRequestNotFound) {
		log.Error("pending request not found", slog.Int("request_id_db", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("pending request not found"))
		return
	}
	if err != nil {
		log.Error("failed to review withdrawal", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to review withdrawal"))
		return
	}

	log.Info("withdrawal reviewed", slog.Int("request_id_db", id), slog.String("decision", req.Decision))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "decision recorded",
	}))
}
