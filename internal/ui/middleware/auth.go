// Пакет middleware — HTTP middleware camping UI.
// auth.go — извлечение сессии из зашифрованного cookie и проверки прав.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/ui/session"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyUser — снимок пользователя сессии в контексте запроса.
	ContextKeyUser contextKey = "session_user"
)

// SessionLoader — middleware, извлекающий пользователя сессии в контекст.
// Анонимный доступ разрешён: отсутствующий или повреждённый cookie означает
// nil-пользователя, а не отказ. Проверки прав выполняются отдельными
// Require*-обёртками на конкретных маршрутах.
type SessionLoader struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewSessionLoader создаёт middleware извлечения сессии.
func NewSessionLoader(sessions *session.Manager, logger *slog.Logger) *SessionLoader {
	return &SessionLoader{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_middleware")),
	}
}

// Middleware возвращает HTTP middleware извлечения сессии.
// Применяется ко всем маршрутам UI.
func (sl *SessionLoader) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := sl.sessions.CurrentUser(r)
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext извлекает пользователя сессии из контекста запроса.
// nil — анонимный пользователь.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(ContextKeyUser).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// RequireUser — middleware: маршрут требует входа в систему.
// Анонимный пользователь перенаправляется на /login.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff — middleware: маршрут требует прав персонала (ADMIN или ANIMATEUR).
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if !user.IsStaff() {
			http.Error(w, "Accès refusé", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin — middleware: маршрут требует роли ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if !user.IsAdmin() {
			http.Error(w, "Accès refusé", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
