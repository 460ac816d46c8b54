// Пакет service — бизнес-логика camping UI.
// BookingService — типизированный фасад над booking API: чтения идут через
// оркестратор (кэш + дедупликация), мутации объявляют, какие пространства
// имён кэша они инвалидируют при успехе.
package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/query"
)

// Пространства имён кэша оркестратора. Ключ чтения начинается с одного
// из них; мутация перечисляет пространства, которые она делает неактуальными.
const (
	NSSlots          = "creneaux"
	NSCampers        = "campeurs"
	NSAbsentees      = "absents"
	NSCamperSchedule = "mes-creneaux"
	NSLeaderSchedule = "planning"
	NSLeaders        = "animateurs"
)

// BookingAPI — операции удалённого booking API, нужные сервисному слою.
// Реализуется apiclient.Client; в тестах подменяется фейком.
type BookingAPI interface {
	Authenticate(ctx context.Context, handle, secret string) (*model.User, error)
	Register(ctx context.Context, user model.User) (*model.User, error)
	Leaders(ctx context.Context) ([]model.User, error)
	LeaderSchedule(ctx context.Context, leaderID int64) ([]model.Slot, error)
	Slots(ctx context.Context) ([]model.Slot, error)
	CreateSlot(ctx context.Context, slot model.Slot) (*model.Slot, error)
	CampersForSlot(ctx context.Context, slotID int64) ([]model.User, error)
	AbsenteesForSlot(ctx context.Context, slotID int64) ([]model.User, error)
	CamperSchedule(ctx context.Context, camperID int64) ([]model.Slot, error)
	RegisterParticipation(ctx context.Context, camperID, slotID int64) (string, error)
	CancelParticipation(ctx context.Context, camperID, slotID int64) (string, error)
	ConfirmParticipation(ctx context.Context, camperID, slotID int64) (string, error)
	AssignLeader(ctx context.Context, leaderID, slotID int64) (string, error)
}

// BookingService — фасад над booking API с кэшированием чтений.
type BookingService struct {
	api     BookingAPI
	queries *query.Orchestrator
	leaders *LeadersCache
	logger  *slog.Logger
}

// NewBookingService создаёт сервис бронирования.
func NewBookingService(api BookingAPI, queries *query.Orchestrator, leaders *LeadersCache, logger *slog.Logger) *BookingService {
	return &BookingService{
		api:     api,
		queries: queries,
		leaders: leaders,
		logger:  logger.With(slog.String("component", "booking_service")),
	}
}

// --- Аутентификация (не кэшируется) ---

// Login проверяет учётные данные и возвращает снимок пользователя.
func (s *BookingService) Login(ctx context.Context, handle, secret string) (*model.User, error) {
	user, err := s.api.Authenticate(ctx, handle, secret)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Пользователь вошёл",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
	)
	return user, nil
}

// Register регистрирует нового пользователя.
func (s *BookingService) Register(ctx context.Context, user model.User) (*model.User, error) {
	return s.api.Register(ctx, user)
}

// Logout сбрасывает кэш оркестратора: закэшированные данные могли
// зависеть от прав завершившейся сессии.
func (s *BookingService) Logout() {
	s.queries.Clear()
}

// --- Чтения (через оркестратор) ---

// Slots возвращает все créneaux.
func (s *BookingService) Slots(ctx context.Context) ([]model.Slot, error) {
	return query.Fetch(ctx, s.queries, query.K(NSSlots), s.api.Slots)
}

// CampersForSlot возвращает записанных на créneau кемперов (best-effort).
// Отказ даёт пустой список уже после оркестратора: оркестратор не
// кэширует ошибки, поэтому следующий запрос снова пойдёт в API.
func (s *BookingService) CampersForSlot(ctx context.Context, slotID int64) []model.User {
	users, err := query.Fetch(ctx, s.queries, query.KP(NSCampers, itoa(slotID)),
		func(ctx context.Context) ([]model.User, error) {
			return s.api.CampersForSlot(ctx, slotID)
		})
	if err != nil {
		s.warnBestEffort(NSCampers, slotID, err)
		return []model.User{}
	}
	return users
}

// AbsenteesForSlot возвращает отсутствовавших кемперов (best-effort).
func (s *BookingService) AbsenteesForSlot(ctx context.Context, slotID int64) []model.User {
	users, err := query.Fetch(ctx, s.queries, query.KP(NSAbsentees, itoa(slotID)),
		func(ctx context.Context) ([]model.User, error) {
			return s.api.AbsenteesForSlot(ctx, slotID)
		})
	if err != nil {
		s.warnBestEffort(NSAbsentees, slotID, err)
		return []model.User{}
	}
	return users
}

// CamperSchedule возвращает créneaux, на которые записан кемпер.
func (s *BookingService) CamperSchedule(ctx context.Context, camperID int64) ([]model.Slot, error) {
	return query.Fetch(ctx, s.queries, query.KP(NSCamperSchedule, itoa(camperID)),
		func(ctx context.Context) ([]model.Slot, error) {
			return s.api.CamperSchedule(ctx, camperID)
		})
}

// LeaderSchedule возвращает planning аниматора (best-effort).
func (s *BookingService) LeaderSchedule(ctx context.Context, leaderID int64) []model.Slot {
	slots, err := query.Fetch(ctx, s.queries, query.KP(NSLeaderSchedule, itoa(leaderID)),
		func(ctx context.Context) ([]model.Slot, error) {
			return s.api.LeaderSchedule(ctx, leaderID)
		})
	if err != nil {
		s.warnBestEffort(NSLeaderSchedule, leaderID, err)
		return []model.Slot{}
	}
	return slots
}

// Leaders возвращает список аниматоров через TTL-кэш:
// список меняется редко и нужен на каждой отрисовке страницы créneaux
// для администратора. Чтение best-effort: отказ даёт пустой список
// и не попадает в кэш.
func (s *BookingService) Leaders(ctx context.Context) []model.User {
	leaders, err := s.leaders.Leaders(ctx, s.api)
	if err != nil {
		s.logger.Warn("Не удалось получить список аниматоров",
			slog.String("error", err.Error()),
		)
		return []model.User{}
	}
	return leaders
}

// warnBestEffort логирует отказ best-effort чтения.
func (s *BookingService) warnBestEffort(namespace string, id int64, err error) {
	s.logger.Warn("Best-effort чтение не удалось",
		slog.String("namespace", namespace),
		slog.Int64("id", id),
		slog.String("error", err.Error()),
	)
}

// --- Мутации (инвалидируют кэш при успехе) ---

// Participate записывает кемпера на créneau.
// Инвалидирует: список créneaux, участников, расписание кемпера.
func (s *BookingService) Participate(ctx context.Context, camperID, slotID int64) (string, error) {
	return query.Mutate(ctx, s.queries, "participer",
		[]string{NSSlots, NSCampers, NSCamperSchedule},
		func(ctx context.Context) (string, error) {
			return s.api.RegisterParticipation(ctx, camperID, slotID)
		})
}

// CancelParticipation отменяет участие кемпера (персонал в день занятия
// использует ту же операцию для фиксации отсутствия).
// Инвалидирует: créneaux, участников, отсутствующих, расписание кемпера.
func (s *BookingService) CancelParticipation(ctx context.Context, camperID, slotID int64) (string, error) {
	return query.Mutate(ctx, s.queries, "annuler",
		[]string{NSSlots, NSCampers, NSAbsentees, NSCamperSchedule},
		func(ctx context.Context) (string, error) {
			return s.api.CancelParticipation(ctx, camperID, slotID)
		})
}

// ConfirmParticipation подтверждает присутствие кемпера.
// Инвалидирует: участников, отсутствующих.
func (s *BookingService) ConfirmParticipation(ctx context.Context, camperID, slotID int64) (string, error) {
	return query.Mutate(ctx, s.queries, "participation-effectuee",
		[]string{NSCampers, NSAbsentees},
		func(ctx context.Context) (string, error) {
			return s.api.ConfirmParticipation(ctx, camperID, slotID)
		})
}

// AssignLeader назначает аниматора на créneau.
// Инвалидирует: créneaux, planning.
func (s *BookingService) AssignLeader(ctx context.Context, leaderID, slotID int64) (string, error) {
	return query.Mutate(ctx, s.queries, "animer",
		[]string{NSSlots, NSLeaderSchedule},
		func(ctx context.Context) (string, error) {
			return s.api.AssignLeader(ctx, leaderID, slotID)
		})
}

// CreateSlot создаёт новый créneau. Инвалидирует список créneaux.
func (s *BookingService) CreateSlot(ctx context.Context, slot model.Slot) (*model.Slot, error) {
	return query.Mutate(ctx, s.queries, "creer-creneau",
		[]string{NSSlots},
		func(ctx context.Context) (*model.Slot, error) {
			return s.api.CreateSlot(ctx, slot)
		})
}

// itoa форматирует идентификатор для ключа кэша.
func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
