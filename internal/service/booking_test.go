package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/query"
)

// fakeAPI — фейковый booking API со счётчиками вызовов.
type fakeAPI struct {
	slotsCalls    int
	campersCalls  int
	leadersCalls  int
	scheduleCalls int

	slots   []model.Slot
	campers []model.User
	leaders []model.User

	campersErr     error
	leadersErr     error
	participateErr error
	participateMsg string
}

func (f *fakeAPI) Authenticate(ctx context.Context, handle, secret string) (*model.User, error) {
	if handle == "jdupont" && secret == "secret" {
		return &model.User{ID: 10, Handle: handle, Role: model.RoleCamper}, nil
	}
	return nil, errors.New("identifiants incorrects")
}

func (f *fakeAPI) Register(ctx context.Context, user model.User) (*model.User, error) {
	user.ID = 99
	user.Password = ""
	return &user, nil
}

func (f *fakeAPI) Leaders(ctx context.Context) ([]model.User, error) {
	f.leadersCalls++
	if f.leadersErr != nil {
		return nil, f.leadersErr
	}
	return f.leaders, nil
}

func (f *fakeAPI) LeaderSchedule(ctx context.Context, leaderID int64) ([]model.Slot, error) {
	f.scheduleCalls++
	return f.slots, nil
}

func (f *fakeAPI) Slots(ctx context.Context) ([]model.Slot, error) {
	f.slotsCalls++
	return f.slots, nil
}

func (f *fakeAPI) CreateSlot(ctx context.Context, slot model.Slot) (*model.Slot, error) {
	slot.ID = 100
	return &slot, nil
}

func (f *fakeAPI) CampersForSlot(ctx context.Context, slotID int64) ([]model.User, error) {
	f.campersCalls++
	if f.campersErr != nil {
		return nil, f.campersErr
	}
	return f.campers, nil
}

func (f *fakeAPI) AbsenteesForSlot(ctx context.Context, slotID int64) ([]model.User, error) {
	return nil, nil
}

func (f *fakeAPI) CamperSchedule(ctx context.Context, camperID int64) ([]model.Slot, error) {
	f.scheduleCalls++
	return f.slots, nil
}

func (f *fakeAPI) RegisterParticipation(ctx context.Context, camperID, slotID int64) (string, error) {
	if f.participateErr != nil {
		return "", f.participateErr
	}
	return f.participateMsg, nil
}

func (f *fakeAPI) CancelParticipation(ctx context.Context, camperID, slotID int64) (string, error) {
	return "Participation annulée", nil
}

func (f *fakeAPI) ConfirmParticipation(ctx context.Context, camperID, slotID int64) (string, error) {
	return "Participation confirmée", nil
}

func (f *fakeAPI) AssignLeader(ctx context.Context, leaderID, slotID int64) (string, error) {
	return "Animateur affecté", nil
}

// newTestService собирает BookingService на фейковом API.
func newTestService(api *fakeAPI) *BookingService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewBookingService(api, query.New(logger), NewLeadersCache(time.Minute), logger)
}

// TestLogin проверяет вход и отказ.
func TestLogin(t *testing.T) {
	svc := newTestService(&fakeAPI{})
	ctx := context.Background()

	user, err := svc.Login(ctx, "jdupont", "secret")
	if err != nil {
		t.Fatalf("Ошибка входа: %v", err)
	}
	if user.ID != 10 {
		t.Errorf("ID: want 10, got %d", user.ID)
	}

	if _, err := svc.Login(ctx, "jdupont", "wrong"); err == nil {
		t.Error("Ожидался отказ при неверном пароле")
	}
}

// TestSlotsCached проверяет, что повторное чтение créneaux идёт из кэша.
func TestSlotsCached(t *testing.T) {
	api := &fakeAPI{slots: []model.Slot{{ID: 1, Date: "2026-09-01"}}}
	svc := newTestService(api)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		slots, err := svc.Slots(ctx)
		if err != nil {
			t.Fatalf("Ошибка Slots: %v", err)
		}
		if len(slots) != 1 {
			t.Fatalf("ожидался 1 créneau, получено %d", len(slots))
		}
	}

	if api.slotsCalls != 1 {
		t.Errorf("ожидался 1 вызов API, было %d", api.slotsCalls)
	}
}

// TestParticipateInvalidates проверяет, что успешная запись на créneau
// инвалидирует кэш créneaux, участников и расписания кемпера.
func TestParticipateInvalidates(t *testing.T) {
	api := &fakeAPI{
		slots:          []model.Slot{{ID: 1}},
		campers:        []model.User{{ID: 10}},
		participateMsg: "Participation enregistrée",
	}
	svc := newTestService(api)
	ctx := context.Background()

	// Наполняем кэш
	if _, err := svc.Slots(ctx); err != nil {
		t.Fatalf("Ошибка Slots: %v", err)
	}
	svc.CampersForSlot(ctx, 1)

	msg, err := svc.Participate(ctx, 10, 1)
	if err != nil {
		t.Fatalf("Ошибка мутации: %v", err)
	}
	if msg != "Participation enregistrée" {
		t.Errorf("неожиданное сообщение %q", msg)
	}

	// Повторные чтения должны пойти в API заново
	if _, err := svc.Slots(ctx); err != nil {
		t.Fatalf("Ошибка Slots: %v", err)
	}
	svc.CampersForSlot(ctx, 1)

	if api.slotsCalls != 2 {
		t.Errorf("ожидалось 2 вызова Slots после инвалидации, было %d", api.slotsCalls)
	}
	if api.campersCalls != 2 {
		t.Errorf("ожидалось 2 вызова CampersForSlot после инвалидации, было %d", api.campersCalls)
	}
}

// TestParticipateFailureKeepsCache проверяет, что отказ сервера
// не инвалидирует кэш.
func TestParticipateFailureKeepsCache(t *testing.T) {
	api := &fakeAPI{
		slots:          []model.Slot{{ID: 1}},
		participateErr: errors.New("le créneau est complet"),
	}
	svc := newTestService(api)
	ctx := context.Background()

	if _, err := svc.Slots(ctx); err != nil {
		t.Fatalf("Ошибка Slots: %v", err)
	}

	if _, err := svc.Participate(ctx, 10, 1); err == nil {
		t.Fatal("ожидался отказ сервера")
	}

	if _, err := svc.Slots(ctx); err != nil {
		t.Fatalf("Ошибка Slots: %v", err)
	}
	if api.slotsCalls != 1 {
		t.Errorf("отказ мутации не должен инвалидировать кэш: вызовов %d", api.slotsCalls)
	}
}

// TestLogoutClearsCache проверяет сброс кэша при выходе.
func TestLogoutClearsCache(t *testing.T) {
	api := &fakeAPI{slots: []model.Slot{{ID: 1}}}
	svc := newTestService(api)
	ctx := context.Background()

	if _, err := svc.Slots(ctx); err != nil {
		t.Fatalf("Ошибка Slots: %v", err)
	}

	svc.Logout()

	if _, err := svc.Slots(ctx); err != nil {
		t.Fatalf("Ошибка Slots: %v", err)
	}
	if api.slotsCalls != 2 {
		t.Errorf("после Logout чтение должно идти в API: вызовов %d", api.slotsCalls)
	}
}

// TestCampersForSlotFailureNotCached проверяет, что отказ best-effort
// чтения не запоминается как последний успешный результат: после
// восстановления API возвращаются свежие данные, а не пустой список.
func TestCampersForSlotFailureNotCached(t *testing.T) {
	api := &fakeAPI{
		campers:    []model.User{{ID: 10, FirstName: "Jean", LastName: "Dupont"}},
		campersErr: errors.New("connexion refusée"),
	}
	svc := newTestService(api)
	ctx := context.Background()

	if got := svc.CampersForSlot(ctx, 1); len(got) != 0 {
		t.Fatalf("при отказе ожидался пустой список, получено %d участников", len(got))
	}

	// API восстановился
	api.campersErr = nil

	got := svc.CampersForSlot(ctx, 1)
	if api.campersCalls != 2 {
		t.Errorf("отказ не должен кэшироваться: ожидалось 2 вызова API, было %d", api.campersCalls)
	}
	if len(got) != 1 {
		t.Errorf("после восстановления ожидался 1 участник, получено %d", len(got))
	}
}

// TestLeadersCached проверяет TTL-кэш списка аниматоров.
func TestLeadersCached(t *testing.T) {
	api := &fakeAPI{leaders: []model.User{{ID: 3, Role: model.RoleLeader}}}
	svc := newTestService(api)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		leaders := svc.Leaders(ctx)
		if len(leaders) != 1 {
			t.Fatalf("ожидался 1 аниматор, получено %d", len(leaders))
		}
	}

	if api.leadersCalls != 1 {
		t.Errorf("ожидался 1 вызов API, было %d", api.leadersCalls)
	}
}
