// auth.go — страницы входа и регистрации.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/avolkov/camping-manager/internal/ui/i18n"
)

// LoginForm — значения и ошибки полей формы входа.
// Ошибки — ключи i18n; значение пароля обратно в форму не возвращается.
type LoginForm struct {
	Handle string
	Errors map[string]string
}

// RegisterForm — значения и ошибки полей формы регистрации.
type RegisterForm struct {
	Handle    string
	LastName  string
	FirstName string
	Email     string
	Errors    map[string]string
}

// fieldError выводит сообщение об ошибке поля, если оно есть.
func fieldError(ctx context.Context, w io.Writer, errors map[string]string, field string) error {
	key, ok := errors[field]
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(w, `<p class="text-red-600 text-sm mt-1">%s</p>
`, esc(i18n.T(ctx, key)))
	return err
}

// textInput выводит подписанное текстовое поле с возможной ошибкой.
func textInput(ctx context.Context, w io.Writer, form map[string]string, name, inputType, labelKey, value string) error {
	if _, err := fmt.Fprintf(w, `<div class="mb-4">
<label for="%s" class="block text-gray-700 mb-1">%s</label>
<input type="%s" id="%s" name="%s" value="%s" class="w-full border rounded px-3 py-2"/>
`, name, esc(i18n.T(ctx, labelKey)), inputType, name, name, esc(value)); err != nil {
		return err
	}
	if err := fieldError(ctx, w, form, name); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</div>\n")
	return err
}

// LoginPage — страница входа.
func LoginPage(p Page, form LoginForm) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="max-w-md mx-auto bg-white rounded shadow p-6">
<h1 class="text-xl font-bold mb-4">%s</h1>
<form method="post" action="/login">
`, esc(i18n.T(ctx, "login.title"))); err != nil {
			return err
		}

		if err := textInput(ctx, w, form.Errors, "identifiant", "text", "login.handle", form.Handle); err != nil {
			return err
		}
		if err := textInput(ctx, w, form.Errors, "mdp", "password", "login.password", ""); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `<button type="submit" class="w-full bg-blue-600 text-white rounded py-2">%s</button>
</form>
<p class="mt-4 text-sm text-gray-600">%s <a href="/register" class="text-blue-600 hover:underline">%s</a></p>
</div>
`, esc(i18n.T(ctx, "login.submit")),
			esc(i18n.T(ctx, "login.no_account")),
			esc(i18n.T(ctx, "nav.register")))
		return err
	})
	return Layout(p, content)
}

// RegisterPage — страница регистрации.
func RegisterPage(p Page, form RegisterForm) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="max-w-md mx-auto bg-white rounded shadow p-6">
<h1 class="text-xl font-bold mb-4">%s</h1>
<form method="post" action="/register">
`, esc(i18n.T(ctx, "register.title"))); err != nil {
			return err
		}

		fields := []struct {
			name, inputType, labelKey, value string
		}{
			{"identifiant", "text", "login.handle", form.Handle},
			{"nom", "text", "register.last_name", form.LastName},
			{"prenom", "text", "register.first_name", form.FirstName},
			{"email", "email", "register.email", form.Email},
			{"mdp", "password", "login.password", ""},
		}
		for _, f := range fields {
			if err := textInput(ctx, w, form.Errors, f.name, f.inputType, f.labelKey, f.value); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, `<button type="submit" class="w-full bg-blue-600 text-white rounded py-2">%s</button>
</form>
<p class="mt-4 text-sm text-gray-600">%s <a href="/login" class="text-blue-600 hover:underline">%s</a></p>
</div>
`, esc(i18n.T(ctx, "register.submit")),
			esc(i18n.T(ctx, "register.has_account")),
			esc(i18n.T(ctx, "nav.login")))
		return err
	})
	return Layout(p, content)
}
