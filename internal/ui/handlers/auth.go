// Пакет handlers — HTTP-обработчики camping UI.
// auth.go — вход, регистрация и выход.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/a-h/templ"

	"github.com/avolkov/camping-manager/internal/apiclient"
	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/service"
	"github.com/avolkov/camping-manager/internal/ui/flash"
	"github.com/avolkov/camping-manager/internal/ui/i18n"
	"github.com/avolkov/camping-manager/internal/ui/middleware"
	"github.com/avolkov/camping-manager/internal/ui/pages"
	"github.com/avolkov/camping-manager/internal/ui/session"
)

// Минимальная длина пароля при регистрации.
const minPasswordLen = 6

// emailRe — проверка формата email на стороне формы.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthHandler — обработчики входа, регистрации и выхода.
type AuthHandler struct {
	svc      *service.BookingService
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler создаёт новый AuthHandler.
func NewAuthHandler(svc *service.BookingService, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "ui_auth")),
	}
}

// newPage собирает общие данные страницы: пользователь сессии и flash-баннер.
func newPage(w http.ResponseWriter, r *http.Request) pages.Page {
	return pages.Page{
		User:  middleware.UserFromContext(r.Context()),
		Flash: flash.Take(w, r),
	}
}

// HandleLoginPage — GET /login: форма входа.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	// Уже вошедший пользователь — на список créneaux
	if middleware.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/creneaux", http.StatusFound)
		return
	}

	p := newPage(w, r)
	p.Title = i18n.T(r.Context(), "login.title")
	h.render(w, r, http.StatusOK, pages.LoginPage(p, pages.LoginForm{}))
}

// HandleLogin — POST /login: проверка учётных данных.
// При отказе форма отображается заново с сохранённым identifiant.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	form := pages.LoginForm{
		Handle: strings.TrimSpace(r.PostFormValue("identifiant")),
		Errors: map[string]string{},
	}
	secret := r.PostFormValue("mdp")

	if form.Handle == "" {
		form.Errors["identifiant"] = "validation.required"
	}
	if secret == "" {
		form.Errors["mdp"] = "validation.required"
	}

	if len(form.Errors) == 0 {
		user, err := h.svc.Login(r.Context(), form.Handle, secret)
		if err == nil {
			if err := h.sessions.Login(w, user); err != nil {
				h.logger.Error("Ошибка установки session cookie", slog.String("error", err.Error()))
				http.Error(w, "Erreur interne", http.StatusInternalServerError)
				return
			}
			http.Redirect(w, r, "/creneaux", http.StatusFound)
			return
		}

		h.logger.Warn("Отказ входа",
			slog.String("handle", form.Handle),
			slog.String("error", err.Error()),
		)
		form.Errors["mdp"] = "login.failed"
	}

	p := newPage(w, r)
	p.Title = i18n.T(r.Context(), "login.title")
	h.render(w, r, http.StatusUnprocessableEntity, pages.LoginPage(p, form))
}

// HandleRegisterPage — GET /register: форма регистрации.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/creneaux", http.StatusFound)
		return
	}

	p := newPage(w, r)
	p.Title = i18n.T(r.Context(), "register.title")
	h.render(w, r, http.StatusOK, pages.RegisterPage(p, pages.RegisterForm{}))
}

// HandleRegister — POST /register: регистрация нового кемпера.
// Валидация на стороне формы: обязательные поля, формат email,
// минимальная длина пароля. Роль присваивает сервер.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	form := pages.RegisterForm{
		Handle:    strings.TrimSpace(r.PostFormValue("identifiant")),
		LastName:  strings.TrimSpace(r.PostFormValue("nom")),
		FirstName: strings.TrimSpace(r.PostFormValue("prenom")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Errors:    map[string]string{},
	}
	secret := r.PostFormValue("mdp")

	for field, value := range map[string]string{
		"identifiant": form.Handle,
		"nom":         form.LastName,
		"prenom":      form.FirstName,
		"email":       form.Email,
	} {
		if value == "" {
			form.Errors[field] = "validation.required"
		}
	}
	if form.Email != "" && !emailRe.MatchString(form.Email) {
		form.Errors["email"] = "validation.email"
	}
	switch {
	case secret == "":
		form.Errors["mdp"] = "validation.required"
	case len(secret) < minPasswordLen:
		form.Errors["mdp"] = "validation.password_short"
	}

	if len(form.Errors) == 0 {
		_, err := h.svc.Register(r.Context(), model.User{
			Handle:    form.Handle,
			LastName:  form.LastName,
			FirstName: form.FirstName,
			Email:     form.Email,
			Password:  secret,
		})
		if err == nil {
			flash.Success(w, i18n.T(r.Context(), "register.success"))
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		h.logger.Warn("Отказ регистрации",
			slog.String("handle", form.Handle),
			slog.String("error", err.Error()),
		)
		flash.Error(w, serverMessage(r, err))
	}

	p := newPage(w, r)
	p.Title = i18n.T(r.Context(), "register.title")
	h.render(w, r, http.StatusUnprocessableEntity, pages.RegisterPage(p, form))
}

// HandleLogout — POST /logout: завершение сессии.
// Кэш оркестратора сбрасывается: данные могли зависеть от прав сессии.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w)
	h.svc.Logout()

	h.logger.Info("Пользователь вышел")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// render отрисовывает страницу с HTML-заголовками.
func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	renderPage(w, r, h.logger, status, page)
}

// serverMessage — текст ошибки booking API для показа пользователю:
// тело ответа сервера дословно, либо общее сообщение о недоступности.
func serverMessage(r *http.Request, err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message() != "" {
		return apiErr.Message()
	}
	return i18n.T(r.Context(), "error.unavailable")
}
