// slot.go — créneau (слот активности) и связанные сущности.
package model

import "time"

// Activity — вид активности (animation). Создаётся только на сервере,
// клиент получает её внутри Slot.
type Activity struct {
	// ID — идентификатор активности
	ID int64 `json:"idAnimation"`
	// Label — название активности
	Label string `json:"libelleAnimation"`
}

// Location — место проведения активности.
type Location struct {
	// ID — идентификатор места
	ID int64 `json:"idLieu"`
	// Label — название места
	Label string `json:"libelleLieu"`
	// Coordinates — координаты (строка, формат определяет сервер)
	Coordinates string `json:"coordoneesLieu"`
}

// Slot — créneau: занятие с датой, временем, длительностью и числом мест.
// Неизменяем со стороны клиента, кроме явных мутаций (создание, назначение
// аниматора).
type Slot struct {
	// ID — идентификатор créneau
	ID int64 `json:"idCreneau"`
	// Date — дата проведения, формат "2006-01-02"
	Date string `json:"dateCreneau"`
	// StartTime — время начала, формат "15:04:05"
	StartTime string `json:"heureCreneau"`
	// DurationMinutes — длительность в минутах
	DurationMinutes int `json:"dureeCreneau"`
	// Capacity — количество мест
	Capacity int `json:"nbPlacesCreneau"`
	// Activity — связанная активность (может отсутствовать)
	Activity *Activity `json:"animation,omitempty"`
	// Location — место проведения (может отсутствовать)
	Location *Location `json:"lieu,omitempty"`
	// ActivityID — идентификатор активности при создании créneau
	ActivityID int64 `json:"idAnimation,omitempty"`
	// LocationID — идентификатор места при создании créneau
	LocationID int64 `json:"idLieu,omitempty"`
}

// ActivityLabel — название активности или пустая строка.
func (s *Slot) ActivityLabel() string {
	if s.Activity == nil {
		return ""
	}
	return s.Activity.Label
}

// StartsAt собирает дату и время начала créneau в time.Time.
// При некорректном формате возвращает нулевое время.
func (s *Slot) StartsAt() time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s.Date+"T"+s.StartTime, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsPast — начался ли créneau раньше указанного момента.
func (s *Slot) IsPast(now time.Time) bool {
	starts := s.StartsAt()
	return !starts.IsZero() && starts.Before(now)
}

// IsToday — проходит ли créneau в тот же календарный день, что now.
// Подтверждение присутствия/отсутствия доступно персоналу только в день занятия.
func (s *Slot) IsToday(now time.Time) bool {
	return s.Date == now.Format("2006-01-02")
}

// ParticipationKey — составной ключ участия (campeur, créneau).
// Статус участия (записан / присутствовал / отсутствовал) клиент не хранит:
// он определяется последней вызванной мутацией на сервере.
type ParticipationKey struct {
	// CamperID — идентификатор кемпера
	CamperID int64 `json:"campeurId"`
	// SlotID — идентификатор créneau
	SlotID int64 `json:"creneauId"`
}

// AssignmentKey — составной ключ назначения аниматора на créneau.
type AssignmentKey struct {
	// LeaderID — идентификатор аниматора
	LeaderID int64 `json:"animateurId"`
	// SlotID — идентификатор créneau
	SlotID int64 `json:"creneauId"`
}
