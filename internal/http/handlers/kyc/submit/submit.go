// Package submit реализует HTTP-обработчик подачи заявки на верификацию личности.
package submit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/response"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
)

// Request — входные данные заявки на верификацию.
type Request struct {
	DocumentType string `json:"document_type" validate:"required,oneof=passport id_card driver_license"`
	DocumentRef  string `json:"document_ref" validate:"required"`
}

// RewardsService определяет методы бизнес-логики для верификации.
type RewardsService interface {
	SubmitKYC(ctx context.Context, userUID, documentType, documentRef string) (int, error)
}

// Handler обрабатывает HTTP-запросы подачи заявок на верификацию.
type Handler struct {
	log      *slog.Logger
	service  RewardsService
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service RewardsService) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подать заявку на верификацию
// @Description Создает заявку KYC и переводит статус пользователя в pending
// @Tags KYC
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Тип документа и ссылка"
// @Success 200 {object} response.OKResponse "Номер заявки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /kyc [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.kyc.submit"

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

	var req Request
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

	id, err := h.service.SubmitKYC(r.Context(), userUID, req.DocumentType, req.DocumentRef)
	if err != nil {
		log.Error("failed to submit kyc", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to submit verification"))
		return
	}

	log.Info("kyc submitted", slog.String("user_uid", userUID), slog.Int("submission_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"submission_id": id,
		"status":        "pending",
	}))
}
