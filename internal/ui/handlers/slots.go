// slots.go — страница créneaux и мутации участия.
// Чтения идут через сервисный слой с кэшированием; мутации показывают
// ответ сервера во flash-баннере и возвращают на список créneaux.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/service"
	"github.com/avolkov/camping-manager/internal/ui/flash"
	"github.com/avolkov/camping-manager/internal/ui/i18n"
	"github.com/avolkov/camping-manager/internal/ui/middleware"
	"github.com/avolkov/camping-manager/internal/ui/pages"
)

// SlotsHandler — обработчики страницы créneaux.
type SlotsHandler struct {
	svc    *service.BookingService
	logger *slog.Logger
}

// NewSlotsHandler создаёт новый SlotsHandler.
func NewSlotsHandler(svc *service.BookingService, logger *slog.Logger) *SlotsHandler {
	return &SlotsHandler{
		svc:    svc,
		logger: logger.With(slog.String("component", "ui_slots")),
	}
}

// HandleSlots — GET /creneaux (и GET /): список créneaux.
// Отказ основного чтения — страница ошибки; best-effort данные
// (участники, отсутствующие, аниматоры) при недоступности пусты.
func (h *SlotsHandler) HandleSlots(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	slots, err := h.svc.Slots(r.Context())
	if err != nil {
		h.logger.Error("Не удалось получить créneaux", slog.String("error", err.Error()))
		p := newPage(w, r)
		renderPage(w, r, h.logger, http.StatusBadGateway, pages.ErrorPage(p))
		return
	}

	data := pages.SlotsData{Now: time.Now()}

	for _, slot := range slots {
		view := pages.SlotView{Slot: slot}
		// Участники видны только персоналу
		if user.IsStaff() {
			view.Participants = h.svc.CampersForSlot(r.Context(), slot.ID)
			view.Absentees = h.svc.AbsenteesForSlot(r.Context(), slot.ID)
		}
		data.Slots = append(data.Slots, view)
	}

	if user.IsAdmin() {
		data.Leaders = h.svc.Leaders(r.Context())
	}

	p := newPage(w, r)
	p.Title = i18n.T(r.Context(), "slots.title")
	renderPage(w, r, h.logger, http.StatusOK, pages.SlotsPage(p, data))
}

// HandleCreateSlot — POST /creneaux: создание créneau (администратор).
func (h *SlotsHandler) HandleCreateSlot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	duration, _ := strconv.Atoi(r.PostFormValue("dureeCreneau"))
	capacity, _ := strconv.Atoi(r.PostFormValue("nbPlacesCreneau"))

	slot := model.Slot{
		Date:            r.PostFormValue("dateCreneau"),
		StartTime:       normalizeTime(r.PostFormValue("heureCreneau")),
		DurationMinutes: duration,
		Capacity:        capacity,
	}

	if _, err := h.svc.CreateSlot(r.Context(), slot); err != nil {
		h.logger.Warn("Отказ создания créneau", slog.String("error", err.Error()))
		flash.Error(w, serverMessage(r, err))
	} else {
		flash.Success(w, i18n.T(r.Context(), "slots.create_title"))
	}
	http.Redirect(w, r, "/creneaux", http.StatusSeeOther)
}

// HandleParticipate — POST /creneaux/{id}/participer: запись текущего
// кемпера на créneau. Сервер применяет ограничения (вместимость, дубликат);
// отказ показывается дословно.
func (h *SlotsHandler) HandleParticipate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	slotID, ok := slotIDParam(w, r)
	if !ok {
		return
	}

	msg, err := h.svc.Participate(r.Context(), user.ID, slotID)
	h.finishMutation(w, r, "participer", slotID, msg, err)
}

// HandleCancel — POST /creneaux/{id}/annuler: отмена участия текущего кемпера.
// В день занятия сервер фиксирует отсутствие.
func (h *SlotsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	slotID, ok := slotIDParam(w, r)
	if !ok {
		return
	}

	msg, err := h.svc.CancelParticipation(r.Context(), user.ID, slotID)
	h.finishMutation(w, r, "annuler", slotID, msg, err)
}

// HandlePresent — POST /creneaux/{id}/present: подтверждение присутствия
// кемпера (персонал, в день занятия).
func (h *SlotsHandler) HandlePresent(w http.ResponseWriter, r *http.Request) {
	slotID, ok := slotIDParam(w, r)
	if !ok {
		return
	}
	camperID, ok := camperIDForm(w, r)
	if !ok {
		return
	}

	msg, err := h.svc.ConfirmParticipation(r.Context(), camperID, slotID)
	h.finishMutation(w, r, "present", slotID, msg, err)
}

// HandleAbsent — POST /creneaux/{id}/absent: фиксация отсутствия кемпера
// (персонал, в день занятия). На стороне API это отмена участия в день
// занятия — счётчик отсутствий кемпера увеличивается сервером.
func (h *SlotsHandler) HandleAbsent(w http.ResponseWriter, r *http.Request) {
	slotID, ok := slotIDParam(w, r)
	if !ok {
		return
	}
	camperID, ok := camperIDForm(w, r)
	if !ok {
		return
	}

	msg, err := h.svc.CancelParticipation(r.Context(), camperID, slotID)
	h.finishMutation(w, r, "absent", slotID, msg, err)
}

// HandleAssignLeader — POST /creneaux/{id}/animer: назначение аниматора
// (администратор).
func (h *SlotsHandler) HandleAssignLeader(w http.ResponseWriter, r *http.Request) {
	slotID, ok := slotIDParam(w, r)
	if !ok {
		return
	}

	leaderID, err := strconv.ParseInt(r.PostFormValue("animateurId"), 10, 64)
	if err != nil || leaderID <= 0 {
		flash.Error(w, i18n.T(r.Context(), "slots.choose_leader"))
		http.Redirect(w, r, "/creneaux", http.StatusSeeOther)
		return
	}

	msg, mErr := h.svc.AssignLeader(r.Context(), leaderID, slotID)
	h.finishMutation(w, r, "animer", slotID, msg, mErr)
}

// finishMutation устанавливает flash-баннер по исходу мутации и
// возвращает на список créneaux. Успех показывает ответ сервера дословно.
func (h *SlotsHandler) finishMutation(w http.ResponseWriter, r *http.Request, op string, slotID int64, msg string, err error) {
	if err != nil {
		h.logger.Warn("Отказ мутации",
			slog.String("operation", op),
			slog.Int64("slot_id", slotID),
			slog.String("error", err.Error()),
		)
		flash.Error(w, serverMessage(r, err))
	} else {
		flash.Success(w, msg)
	}
	http.Redirect(w, r, "/creneaux", http.StatusSeeOther)
}

// slotIDParam извлекает идентификатор créneau из пути.
func slotIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Identifiant de créneau invalide", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// camperIDForm извлекает идентификатор кемпера из формы.
func camperIDForm(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PostFormValue("campeurId"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Identifiant de campeur invalide", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// normalizeTime дополняет "15:04" до "15:04:05" (input type=time может
// не прислать секунды).
func normalizeTime(t string) string {
	if len(t) == len("15:04") {
		return t + ":00"
	}
	return t
}
