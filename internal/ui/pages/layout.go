// Пакет pages — серверный рендеринг страниц camping UI.
// Компоненты собраны на templ.ComponentFunc; разметка пишется напрямую,
// все пользовательские данные экранируются через templ.EscapeString.
package pages

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/ui/flash"
	"github.com/avolkov/camping-manager/internal/ui/i18n"
)

// Page — общие данные страницы: заголовок, пользователь сессии, flash-баннер.
type Page struct {
	Title string
	User  *model.User
	Flash *flash.Message
}

// esc экранирует пользовательскую строку для HTML.
func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout оборачивает content в общий каркас: head, навигация, flash-баннер.
func Layout(p Page, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := p.Title
		if title == "" {
			title = i18n.T(ctx, "app.title")
		}

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<link rel="stylesheet" href="/static/css/output.css"/>
</head>
<body class="bg-gray-100 min-h-screen">
`, esc(i18n.LangFromContext(ctx)), esc(title)); err != nil {
			return err
		}

		if err := navbar(p.User).Render(ctx, w); err != nil {
			return err
		}
		if err := flashBanner(p.Flash).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<main class="max-w-5xl mx-auto px-4 py-6">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// navbar — навигационная панель с пунктами по роли пользователя.
func navbar(user *model.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<nav class="bg-white shadow px-4 py-3 flex items-center justify-between">
<div class="flex items-center gap-4">
<a href="/" class="font-bold text-lg">%s</a>
<a href="/creneaux" class="text-gray-700 hover:underline">%s</a>
`, esc(i18n.T(ctx, "app.title")), esc(i18n.T(ctx, "nav.slots"))); err != nil {
			return err
		}

		if user.IsCamper() {
			if _, err := fmt.Fprintf(w, `<a href="/mes-participations" class="text-gray-700 hover:underline">%s</a>
`, esc(i18n.T(ctx, "nav.participations"))); err != nil {
				return err
			}
		}
		if user.IsLeader() {
			if _, err := fmt.Fprintf(w, `<a href="/planning" class="text-gray-700 hover:underline">%s</a>
`, esc(i18n.T(ctx, "nav.planning"))); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</div>
<div class="flex items-center gap-4">
`); err != nil {
			return err
		}

		if user != nil {
			if _, err := fmt.Fprintf(w, `<span class="text-gray-600">%s</span>
<form method="post" action="/logout"><button type="submit" class="text-red-600 hover:underline">%s</button></form>
`, esc(i18n.Tf(ctx, "nav.greeting", user.DisplayName())), esc(i18n.T(ctx, "nav.logout"))); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, `<a href="/login" class="text-blue-600 hover:underline">%s</a>
<a href="/register" class="text-blue-600 hover:underline">%s</a>
`, esc(i18n.T(ctx, "nav.login")), esc(i18n.T(ctx, "nav.register"))); err != nil {
				return err
			}
		}

		// Переключатель языка
		if _, err := io.WriteString(w, `<form method="post" action="/language" class="flex gap-1">
<button type="submit" name="lang" value="fr" class="text-gray-500 hover:underline">FR</button>
<button type="submit" name="lang" value="en" class="text-gray-500 hover:underline">EN</button>
</form>
</div>
</nav>
`); err != nil {
			return err
		}
		return nil
	})
}

// flashBanner — баннер последней мутации. Скрывается на клиенте по
// истечении оставшегося времени жизни сообщения — таймер считается от
// ExpiresAt, а не от момента отрисовки (meta refresh не нужен: баннер
// одноразовый, сервер не отдаст его при следующей отрисовке).
func flashBanner(msg *flash.Message) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if msg == nil {
			return nil
		}
		class := "bg-green-100 text-green-800"
		if msg.Kind == flash.KindError {
			class = "bg-red-100 text-red-800"
		}
		remaining := msg.ExpiresAt - time.Now().UnixMilli()
		if remaining < 0 {
			remaining = 0
		}
		_, err := fmt.Fprintf(w, `<div class="max-w-5xl mx-auto px-4 mt-4"><div class="%s rounded px-4 py-2" data-flash>%s</div></div>
<script>setTimeout(function(){var b=document.querySelector('[data-flash]');if(b){b.remove();}}, %d);</script>
`, class, esc(msg.Text), remaining)
		return err
	})
}

// errorPage — страница ошибки с сообщением.
func errorPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="bg-white rounded shadow p-6 text-center text-gray-700">%s</div>
`, esc(i18n.T(ctx, "error.unavailable")))
		return err
	})
}

// ErrorPage — страница недоступности booking API.
func ErrorPage(p Page) templ.Component {
	p.Title = ""
	return Layout(p, errorPage())
}
