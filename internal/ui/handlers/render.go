// render.go — общий рендеринг templ-компонентов.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// renderPage отрисовывает страницу с HTML-заголовками и указанным статусом.
func renderPage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := page.Render(r.Context(), w); err != nil {
		logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}
