// schedule.go — страницы «Мои участия» и «Мой planning».
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/service"
	"github.com/avolkov/camping-manager/internal/ui/i18n"
	"github.com/avolkov/camping-manager/internal/ui/middleware"
	"github.com/avolkov/camping-manager/internal/ui/pages"
)

// ScheduleHandler — обработчики персональных расписаний.
type ScheduleHandler struct {
	svc    *service.BookingService
	logger *slog.Logger
}

// NewScheduleHandler создаёт новый ScheduleHandler.
func NewScheduleHandler(svc *service.BookingService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		svc:    svc,
		logger: logger.With(slog.String("component", "ui_schedule")),
	}
}

// HandleParticipations — GET /mes-participations: créneaux, на которые
// записан текущий кемпер. Отказ чтения — страница ошибки.
func (h *ScheduleHandler) HandleParticipations(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	slots, err := h.svc.CamperSchedule(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Не удалось получить участия",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		renderPage(w, r, h.logger, http.StatusBadGateway, pages.ErrorPage(newPage(w, r)))
		return
	}

	p := newPage(w, r)
	p.Title = i18n.T(r.Context(), "participations.title")
	renderPage(w, r, h.logger, http.StatusOK, pages.ParticipationsPage(p, slots))
}

// HandlePlanning — GET /planning: créneaux, которые ведёт текущий аниматор.
// Запрос выполняется только для сессии аниматора; чтение best-effort —
// при недоступности отображается пустой список.
func (h *ScheduleHandler) HandlePlanning(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var slots []model.Slot
	if user.IsLeader() {
		slots = h.svc.LeaderSchedule(r.Context(), user.ID)
	}

	p := newPage(w, r)
	p.Title = i18n.T(r.Context(), "planning.title")
	renderPage(w, r, h.logger, http.StatusOK, pages.PlanningPage(p, slots))
}
