// slots.go — страница créneaux: список занятий с действиями по роли.
package pages

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/avolkov/camping-manager/internal/domain/model"
	"github.com/avolkov/camping-manager/internal/ui/i18n"
)

// SlotView — créneau вместе с best-effort данными участия.
type SlotView struct {
	Slot model.Slot
	// Participants — записанные кемперы (пусто при недоступности чтения)
	Participants []model.User
	// Absentees — отсутствовавшие кемперы (пусто при недоступности чтения)
	Absentees []model.User
}

// SlotsData — данные страницы créneaux.
type SlotsData struct {
	Slots   []SlotView
	Leaders []model.User
	Now     time.Time
}

// SlotsPage — страница списка créneaux.
func SlotsPage(p Page, data SlotsData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1 class="text-2xl font-bold mb-4">%s</h1>
`, esc(i18n.T(ctx, "slots.title"))); err != nil {
			return err
		}

		if p.User.IsAdmin() {
			if err := createSlotForm().Render(ctx, w); err != nil {
				return err
			}
		}

		if len(data.Slots) == 0 {
			_, err := fmt.Fprintf(w, `<p class="text-gray-600">%s</p>
`, esc(i18n.T(ctx, "slots.empty")))
			return err
		}

		for _, view := range data.Slots {
			if err := slotCard(p.User, view, data).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	return Layout(p, content)
}

// slotCard — карточка одного créneau с действиями по роли.
func slotCard(user *model.User, view SlotView, data SlotsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		slot := view.Slot

		if _, err := fmt.Fprintf(w, `<div class="bg-white rounded shadow p-4 mb-4">
<div class="flex items-center justify-between">
<div>
<h2 class="font-semibold text-lg">%s</h2>
<p class="text-gray-600">%s %s · %s · %s</p>
<p class="text-gray-600">%s: %d · %s: %d/%d</p>
</div>
`,
			esc(slot.ActivityLabel()),
			esc(slot.Date), esc(slot.StartTime),
			esc(i18n.Tf(ctx, "slots.duration_minutes", slot.DurationMinutes)),
			esc(locationLabel(slot)),
			esc(i18n.T(ctx, "slots.capacity")), slot.Capacity,
			esc(i18n.T(ctx, "slots.participants")), len(view.Participants), slot.Capacity,
		); err != nil {
			return err
		}

		if err := slotActions(user, view).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</div>\n"); err != nil {
			return err
		}

		// Панели участников — только персоналу
		if user.IsStaff() {
			if err := participantsPanel(user, view, data.Now).Render(ctx, w); err != nil {
				return err
			}
		}

		// Назначение аниматора — только администратору
		if user.IsAdmin() {
			if err := assignLeaderForm(slot.ID, data.Leaders).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</div>\n")
		return err
	})
}

// slotActions — кнопки участия.
func slotActions(user *model.User, view SlotView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		slot := view.Slot

		if _, err := io.WriteString(w, `<div class="flex gap-2">
`); err != nil {
			return err
		}

		switch {
		case user == nil:
			// Аноним: кнопка ведёт на вход
			if _, err := fmt.Fprintf(w, `<a href="/login" class="bg-blue-600 text-white rounded px-4 py-2">%s</a>
`, esc(i18n.T(ctx, "slots.participate"))); err != nil {
				return err
			}
		case user.IsCamper():
			if _, err := fmt.Fprintf(w, `<form method="post" action="/creneaux/%d/participer"><button type="submit" class="bg-blue-600 text-white rounded px-4 py-2">%s</button></form>
<form method="post" action="/creneaux/%d/annuler"><button type="submit" class="bg-gray-200 text-gray-800 rounded px-4 py-2">%s</button></form>
`,
				slot.ID, esc(i18n.T(ctx, "slots.participate")),
				slot.ID, esc(i18n.T(ctx, "slots.cancel"))); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</div>\n")
		return err
	})
}

// participantsPanel — списки участников и отсутствующих с действиями
// персонала в день занятия.
func participantsPanel(user *model.User, view SlotView, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		slot := view.Slot
		today := slot.IsToday(now)

		if _, err := fmt.Fprintf(w, `<div class="mt-4 grid grid-cols-2 gap-4">
<div>
<h3 class="font-semibold mb-2">%s</h3>
`, esc(i18n.T(ctx, "slots.participants"))); err != nil {
			return err
		}

		if len(view.Participants) == 0 {
			if _, err := fmt.Fprintf(w, `<p class="text-gray-500">%s</p>
`, esc(i18n.T(ctx, "slots.no_participants"))); err != nil {
				return err
			}
		}
		for _, camper := range view.Participants {
			if _, err := fmt.Fprintf(w, `<div class="flex items-center gap-2 py-1">
<span>%s</span>
`, esc(camper.DisplayName())); err != nil {
				return err
			}
			// Подтверждение присутствия/отсутствия — только в день занятия
			if today {
				if _, err := fmt.Fprintf(w, `<form method="post" action="/creneaux/%d/present"><input type="hidden" name="campeurId" value="%d"/><button type="submit" class="text-green-600 hover:underline">%s</button></form>
<form method="post" action="/creneaux/%d/absent"><input type="hidden" name="campeurId" value="%d"/><button type="submit" class="text-red-600 hover:underline">%s</button></form>
`,
					slot.ID, camper.ID, esc(i18n.T(ctx, "slots.present")),
					slot.ID, camper.ID, esc(i18n.T(ctx, "slots.absent"))); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</div>\n"); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `</div>
<div>
<h3 class="font-semibold mb-2">%s</h3>
`, esc(i18n.T(ctx, "slots.absentees"))); err != nil {
			return err
		}

		if len(view.Absentees) == 0 {
			if _, err := fmt.Fprintf(w, `<p class="text-gray-500">%s</p>
`, esc(i18n.T(ctx, "slots.no_absentees"))); err != nil {
				return err
			}
		}
		for _, camper := range view.Absentees {
			if _, err := fmt.Fprintf(w, `<p class="py-1">%s (%d)</p>
`, esc(camper.DisplayName()), camper.AbsenceCount); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</div>\n</div>\n")
		return err
	})
}

// assignLeaderForm — форма назначения аниматора.
func assignLeaderForm(slotID int64, leaders []model.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<form method="post" action="/creneaux/%d/animer" class="mt-4 flex gap-2 items-center">
<span class="text-gray-700">%s</span>
<select name="animateurId" class="border rounded px-3 py-2">
<option value="">%s</option>
`, slotID, esc(i18n.T(ctx, "slots.assign_leader")), esc(i18n.T(ctx, "slots.choose_leader"))); err != nil {
			return err
		}
		for _, leader := range leaders {
			if _, err := fmt.Fprintf(w, `<option value="%d">%s</option>
`, leader.ID, esc(leader.DisplayName())); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `</select>
<button type="submit" class="bg-blue-600 text-white rounded px-4 py-2">%s</button>
</form>
`, esc(i18n.T(ctx, "slots.assign")))
		return err
	})
}

// createSlotForm — форма создания créneau (администратор).
func createSlotForm() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="bg-white rounded shadow p-4 mb-6">
<h2 class="font-semibold mb-2">%s</h2>
<form method="post" action="/creneaux" class="flex flex-wrap gap-2 items-end">
<label class="block">%s<input type="date" name="dateCreneau" class="border rounded px-3 py-2 block"/></label>
<label class="block">%s<input type="time" name="heureCreneau" step="1" class="border rounded px-3 py-2 block"/></label>
<label class="block">%s<input type="number" name="dureeCreneau" min="1" class="border rounded px-3 py-2 block w-24"/></label>
<label class="block">%s<input type="number" name="nbPlacesCreneau" min="1" class="border rounded px-3 py-2 block w-24"/></label>
<button type="submit" class="bg-blue-600 text-white rounded px-4 py-2">%s</button>
</form>
</div>
`,
			esc(i18n.T(ctx, "slots.create_title")),
			esc(i18n.T(ctx, "slots.date")),
			esc(i18n.T(ctx, "slots.time")),
			esc(i18n.T(ctx, "slots.duration")),
			esc(i18n.T(ctx, "slots.capacity")),
			esc(i18n.T(ctx, "slots.create")))
		return err
	})
}

// locationLabel — подпись места проведения или пустая строка.
func locationLabel(slot model.Slot) string {
	if slot.Location == nil {
		return ""
	}
	return slot.Location.Label
}
