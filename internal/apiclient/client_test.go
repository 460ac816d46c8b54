package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/avolkov/camping-manager/internal/domain/model"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupMockAPI создаёт mock HTTP-сервер booking API.
func setupMockAPI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// TestAuthenticate проверяет успешный login.
func TestAuthenticate(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/utilisateurs/login" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var creds credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if creds.Handle != "jdupont" || creds.Secret != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Identifiant ou mot de passe incorrect"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.User{
			ID:        1,
			Handle:    "jdupont",
			LastName:  "Dupont",
			FirstName: "Jean",
			Email:     "jean.dupont@example.com",
			Role:      model.RoleCamper,
		})
	})

	client := New(server.URL, 0, testLogger())

	user, err := client.Authenticate(context.Background(), "jdupont", "secret123")
	if err != nil {
		t.Fatalf("Ошибка Authenticate: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("ожидался ID=1, получен %d", user.ID)
	}
	if user.Role != model.RoleCamper {
		t.Errorf("ожидалась роль CAMPEUR, получена %s", user.Role)
	}
}

// TestAuthenticate_Rejected проверяет, что отказ сервера возвращает
// *APIError с телом ответа дословно.
func TestAuthenticate_Rejected(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Identifiant ou mot de passe incorrect"))
	})

	client := New(server.URL, 0, testLogger())

	_, err := client.Authenticate(context.Background(), "jdupont", "wrong")
	if err == nil {
		t.Fatal("ожидалась ошибка, получен nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ожидался *APIError, получен %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", apiErr.StatusCode)
	}
	if apiErr.Message() != "Identifiant ou mot de passe incorrect" {
		t.Errorf("тело ответа должно передаваться дословно, получено %q", apiErr.Message())
	}
}

// TestAuthenticate_EmptyBody проверяет, что 200 без объекта пользователя
// считается отказом.
func TestAuthenticate_EmptyBody(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	})

	client := New(server.URL, 0, testLogger())

	_, err := client.Authenticate(context.Background(), "jdupont", "secret123")
	if err == nil {
		t.Fatal("ожидалась ошибка для ответа без id")
	}
}

// TestSlots проверяет получение списка créneaux.
func TestSlots(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/creneaux" || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]model.Slot{
			{
				ID:              10,
				Date:            "2026-09-01",
				StartTime:       "14:00:00",
				DurationMinutes: 90,
				Capacity:        12,
				Activity:        &model.Activity{ID: 3, Label: "Canoë"},
			},
			{ID: 11, Date: "2026-09-02", StartTime: "10:00:00", DurationMinutes: 60, Capacity: 8},
		})
	})

	client := New(server.URL, 0, testLogger())

	slots, err := client.Slots(context.Background())
	if err != nil {
		t.Fatalf("Ошибка Slots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("ожидалось 2 créneaux, получено %d", len(slots))
	}
	if slots[0].ActivityLabel() != "Canoë" {
		t.Errorf("ожидалась активность Canoë, получена %q", slots[0].ActivityLabel())
	}
}

// TestSlots_Error проверяет, что ошибка основного чтения возвращается вызывающему.
func TestSlots_Error(t *testing.T) {
	client := New("http://localhost:1", 0, testLogger())

	_, err := client.Slots(context.Background())
	if err == nil {
		t.Fatal("ожидалась ошибка транспорта, получен nil")
	}
}

// TestCampersForSlot проверяет получение участников créneau.
func TestCampersForSlot(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/creneaux/10/campeurs" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]model.User{
			{ID: 2, Handle: "mo", FirstName: "Marc", LastName: "Olivier", Role: model.RoleCamper},
		})
	})

	client := New(server.URL, 0, testLogger())

	campers, err := client.CampersForSlot(context.Background(), 10)
	if err != nil {
		t.Fatalf("Ошибка CampersForSlot: %v", err)
	}
	if len(campers) != 1 {
		t.Fatalf("ожидался 1 участник, получено %d", len(campers))
	}
	if campers[0].DisplayName() != "Marc Olivier" {
		t.Errorf("ожидалось имя Marc Olivier, получено %q", campers[0].DisplayName())
	}
}

// TestListReads_PropagateFailure проверяет, что транспортная ошибка
// чтений списков возвращается вызывающему: смягчение до пустого списка —
// ответственность сервисного слоя, клиент ошибки не проглатывает.
func TestListReads_PropagateFailure(t *testing.T) {
	// Порт 1 — гарантированно недоступен
	client := New("http://localhost:1", 0, testLogger())
	ctx := context.Background()

	if _, err := client.CampersForSlot(ctx, 10); err == nil {
		t.Error("CampersForSlot: ожидалась ошибка, получен nil")
	}
	if _, err := client.AbsenteesForSlot(ctx, 10); err == nil {
		t.Error("AbsenteesForSlot: ожидалась ошибка, получен nil")
	}
	if _, err := client.LeaderSchedule(ctx, 1); err == nil {
		t.Error("LeaderSchedule: ожидалась ошибка, получен nil")
	}
	if _, err := client.Leaders(ctx); err == nil {
		t.Error("Leaders: ожидалась ошибка, получен nil")
	}
}

// TestRegisterParticipation проверяет запись на créneau и формат тела запроса.
func TestRegisterParticipation(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/creneaux/participer" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var body participationBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.ID.CamperID != 2 || body.ID.SlotID != 10 {
			t.Errorf("неожиданный ключ участия: %+v", body.ID)
		}

		w.Write([]byte("Participation enregistrée"))
	})

	client := New(server.URL, 0, testLogger())

	msg, err := client.RegisterParticipation(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("Ошибка RegisterParticipation: %v", err)
	}
	if msg != "Participation enregistrée" {
		t.Errorf("ожидалось сообщение сервера дословно, получено %q", msg)
	}
}

// TestMutations_PropagateFailure проверяет, что отказ любой мутации
// доходит до вызывающего, а не проглатывается.
func TestMutations_PropagateFailure(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("Le créneau est complet"))
	})

	client := New(server.URL, 0, testLogger())
	ctx := context.Background()

	mutations := map[string]func() (string, error){
		"RegisterParticipation": func() (string, error) { return client.RegisterParticipation(ctx, 2, 10) },
		"CancelParticipation":   func() (string, error) { return client.CancelParticipation(ctx, 2, 10) },
		"ConfirmParticipation":  func() (string, error) { return client.ConfirmParticipation(ctx, 2, 10) },
		"AssignLeader":          func() (string, error) { return client.AssignLeader(ctx, 1, 10) },
	}

	for name, call := range mutations {
		t.Run(name, func(t *testing.T) {
			_, err := call()
			if err == nil {
				t.Fatal("ожидалась ошибка, получен nil")
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("ожидался *APIError, получен %T", err)
			}
			if apiErr.Message() != "Le créneau est complet" {
				t.Errorf("тело отказа должно передаваться дословно, получено %q", apiErr.Message())
			}
		})
	}

	t.Run("CreateSlot", func(t *testing.T) {
		_, err := client.CreateSlot(ctx, model.Slot{Date: "2026-09-01"})
		if err == nil {
			t.Fatal("ожидалась ошибка, получен nil")
		}
	})
}

// TestCancelParticipation_Path проверяет путь и метод DELETE.
func TestCancelParticipation_Path(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("ожидался DELETE, получен %s", r.Method)
		}
		if r.URL.Path != "/creneaux/annuler/2/10" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		w.Write([]byte("ok"))
	})

	client := New(server.URL, 0, testLogger())

	if _, err := client.CancelParticipation(context.Background(), 2, 10); err != nil {
		t.Fatalf("Ошибка CancelParticipation: %v", err)
	}
}

// TestConfirmParticipation_Path проверяет путь и метод PUT.
func TestConfirmParticipation_Path(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("ожидался PUT, получен %s", r.Method)
		}
		if r.URL.Path != "/creneaux/participation-effectuee/2/10" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		w.Write([]byte("Participation confirmée"))
	})

	client := New(server.URL, 0, testLogger())

	msg, err := client.ConfirmParticipation(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("Ошибка ConfirmParticipation: %v", err)
	}
	if msg != "Participation confirmée" {
		t.Errorf("неожиданное сообщение %q", msg)
	}
}

// TestCamperSchedule_Error проверяет, что ошибка чтения расписания кемпера
// возвращается вызывающему.
func TestCamperSchedule_Error(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := New(server.URL, 0, testLogger())

	_, err := client.CamperSchedule(context.Background(), 2)
	if err == nil {
		t.Fatal("ожидалась ошибка, получен nil")
	}
}

// TestBaseURL_TrailingSlash проверяет нормализацию базового URL.
func TestBaseURL_TrailingSlash(t *testing.T) {
	server := setupMockAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/creneaux" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})

	client := New(server.URL+"/", 0, testLogger())

	if _, err := client.Slots(context.Background()); err != nil {
		t.Fatalf("Ошибка Slots: %v", err)
	}
}
