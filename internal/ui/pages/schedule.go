// schedule.go — страницы «Мои участия» (кемпер) и «Мой planning» (аниматор).
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/ui/i18n"
)

// slotTable — таблица créneaux без действий.
func slotTable(slots []model.Slot, emptyKey string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(slots) == 0 {
			_, err := fmt.Fprintf(w, `<p class="text-gray-600">%s</p>
`, esc(i18n.T(ctx, emptyKey)))
			return err
		}

		if _, err := fmt.Fprintf(w, `<table class="w-full bg-white rounded shadow">
<thead><tr class="text-left border-b">
<th class="px-4 py-2">%s</th>
<th class="px-4 py-2">%s</th>
<th class="px-4 py-2">%s</th>
<th class="px-4 py-2">%s</th>
<th class="px-4 py-2">%s</th>
</tr></thead>
<tbody>
`,
			esc(i18n.T(ctx, "slots.activity")),
			esc(i18n.T(ctx, "slots.date")),
			esc(i18n.T(ctx, "slots.time")),
			esc(i18n.T(ctx, "slots.duration")),
			esc(i18n.T(ctx, "slots.location"))); err != nil {
			return err
		}

		for _, slot := range slots {
			if _, err := fmt.Fprintf(w, `<tr class="border-b">
<td class="px-4 py-2">%s</td>
<td class="px-4 py-2">%s</td>
<td class="px-4 py-2">%s</td>
<td class="px-4 py-2">%s</td>
<td class="px-4 py-2">%s</td>
</tr>
`,
				esc(slot.ActivityLabel()),
				esc(slot.Date),
				esc(slot.StartTime),
				esc(i18n.Tf(ctx, "slots.duration_minutes", slot.DurationMinutes)),
				esc(locationLabel(slot))); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
}

// ParticipationsPage — créneaux, на которые записан кемпер.
func ParticipationsPage(p Page, slots []model.Slot) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1 class="text-2xl font-bold mb-4">%s</h1>
`, esc(i18n.T(ctx, "participations.title"))); err != nil {
			return err
		}
		return slotTable(slots, "participations.empty").Render(ctx, w)
	})
	return Layout(p, content)
}

// PlanningPage — créneaux, которые ведёт аниматор.
func PlanningPage(p Page, slots []model.Slot) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1 class="text-2xl font-bold mb-4">%s</h1>
`, esc(i18n.T(ctx, "planning.title"))); err != nil {
			return err
		}
		return slotTable(slots, "planning.empty").Render(ctx, w)
	})
	return Layout(p, content)
}
