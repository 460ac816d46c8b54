// Пакет model — доменные модели Camping Manager.
// Все сущности — read-only снимки данных удалённого booking API:
// клиент их не создаёт и не изменяет, только отображает.
package model

// Роли пользователей, фиксированные на стороне booking API.
const (
	// RoleAdmin — администратор: создаёт créneaux, назначает аниматоров.
	RoleAdmin = "ADMIN"
	// RoleLeader — аниматор: ведёт créneaux, подтверждает участие.
	RoleLeader = "ANIMATEUR"
	// RoleCamper — кемпер: записывается на créneaux.
	RoleCamper = "CAMPEUR"
)

// User — пользователь booking API.
// JSON-теги соответствуют wire-формату удалённого API (французские имена полей).
type User struct {
	// ID — числовой идентификатор, присваивается сервером при регистрации
	ID int64 `json:"id"`
	// Handle — логин (identifiant)
	Handle string `json:"identifiant"`
	// LastName — фамилия
	LastName string `json:"nom"`
	// FirstName — имя
	FirstName string `json:"prenom"`
	// Email — адрес электронной почты
	Email string `json:"email"`
	// Role — одна из ролей: ADMIN, ANIMATEUR, CAMPEUR
	Role string `json:"role"`
	// AbsenceCount — количество зафиксированных отсутствий
	AbsenceCount int `json:"nombreAbsences"`
	// Password — передаётся только при register/login, сервер никогда не возвращает
	Password string `json:"mdp,omitempty"`
}

// IsStaff — имеет ли пользователь права персонала (просмотр участников,
// подтверждение присутствия).
func (u *User) IsStaff() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleLeader)
}

// IsAdmin — является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsLeader — является ли пользователь аниматором.
func (u *User) IsLeader() bool {
	return u != nil && u.Role == RoleLeader
}

// IsCamper — является ли пользователь кемпером.
func (u *User) IsCamper() bool {
	return u != nil && u.Role == RoleCamper
}

// DisplayName — отображаемое имя "Prénom Nom".
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ValidRole проверяет, является ли строка допустимой ролью.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleLeader, RoleCamper:
		return true
	}
	return false
}
