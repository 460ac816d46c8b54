package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkov/camping-manager/internal/domain/model"
)

// TestEncryptDecryptRoundTrip проверяет шифрование и дешифрование снимка пользователя.
func TestEncryptDecryptRoundTrip(t *testing.T) {
	m, err := NewManager("", false)
	if err != nil {
		t.Fatalf("Ошибка создания Manager: %v", err)
	}

	original := &model.User{
		ID:        10,
		Handle:    "jdupont",
		LastName:  "Dupont",
		FirstName: "Jean",
		Email:     "jean.dupont@example.com",
		Role:      model.RoleCamper,
	}

	encrypted, err := m.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	decrypted, err := m.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if decrypted.ID != original.ID {
		t.Errorf("ID: want %d, got %d", original.ID, decrypted.ID)
	}
	if decrypted.Handle != original.Handle {
		t.Errorf("Handle: want %q, got %q", original.Handle, decrypted.Handle)
	}
	if decrypted.Role != original.Role {
		t.Errorf("Role: want %q, got %q", original.Role, decrypted.Role)
	}
	if decrypted.FirstName != original.FirstName {
		t.Errorf("FirstName: want %q, got %q", original.FirstName, decrypted.FirstName)
	}
}

// TestManagerWithStringKey проверяет инициализацию с произвольной строкой-ключом.
func TestManagerWithStringKey(t *testing.T) {
	m, err := NewManager("my-secret-key-for-testing", false)
	if err != nil {
		t.Fatalf("Ошибка создания Manager со string-ключом: %v", err)
	}

	user := &model.User{ID: 3, Handle: "anim", Role: model.RoleLeader}

	encrypted, err := m.Encrypt(user)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	decrypted, err := m.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if decrypted.Handle != user.Handle {
		t.Errorf("Handle: want %q, got %q", user.Handle, decrypted.Handle)
	}
}

// TestDecryptWithWrongKey проверяет, что дешифрование чужим ключом не работает.
func TestDecryptWithWrongKey(t *testing.T) {
	m1, _ := NewManager("key-one", false)
	m2, _ := NewManager("key-two", false)

	encrypted, err := m1.Encrypt(&model.User{ID: 1, Handle: "secret"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	// Попытка дешифрования другим ключом должна завершиться ошибкой
	if _, err := m2.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestLoginAndCurrentUser проверяет установку cookie при входе и чтение сессии.
func TestLoginAndCurrentUser(t *testing.T) {
	m, _ := NewManager("test-key", false)

	user := &model.User{ID: 7, Handle: "admin", Role: model.RoleAdmin}

	w := httptest.NewRecorder()
	if err := m.Login(w, user); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie не установлен")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	got := m.CurrentUser(req)
	if got == nil {
		t.Fatal("Сессия не найдена")
	}
	if got.ID != user.ID {
		t.Errorf("ID: want %d, got %d", user.ID, got.ID)
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("Role: want %q, got %q", model.RoleAdmin, got.Role)
	}

	// Проверяем атрибуты cookie
	cookie := cookies[0]
	if cookie.Name != CookieName {
		t.Errorf("Cookie name: want %q, got %q", CookieName, cookie.Name)
	}
	if cookie.Path != "/" {
		t.Errorf("Cookie path: want %q, got %q", "/", cookie.Path)
	}
	if !cookie.HttpOnly {
		t.Error("Cookie должен быть HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Cookie должен быть SameSite=Lax")
	}
}

// TestCurrentUserAnonymous проверяет, что отсутствие cookie означает
// анонимного пользователя, а не ошибку.
func TestCurrentUserAnonymous(t *testing.T) {
	m, _ := NewManager("test-key", false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user := m.CurrentUser(req); user != nil {
		t.Errorf("Ожидался nil для запроса без cookie, получено %+v", user)
	}
}

// TestCurrentUserMalformedCookie проверяет, что повреждённый cookie
// тихо превращается в анонимного пользователя.
func TestCurrentUserMalformedCookie(t *testing.T) {
	m, _ := NewManager("test-key", false)

	tests := []string{
		"not-base64-$$$",
		"dG9vLXNob3J0",
		"",
	}

	for _, value := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: value})

		if user := m.CurrentUser(req); user != nil {
			t.Errorf("Ожидался nil для повреждённого cookie %q, получено %+v", value, user)
		}
	}
}

// TestLogout проверяет очистку session cookie.
func TestLogout(t *testing.T) {
	m, _ := NewManager("test-key", false)

	w := httptest.NewRecorder()
	m.Logout(w)

	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie очистки не установлен")
	}

	cookie := cookies[0]
	if cookie.MaxAge != -1 {
		t.Errorf("MaxAge: want -1, got %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Error("Value должен быть пустым")
	}
}
