// Пакет flash — одноразовые баннеры-уведомления после мутаций.
// Сообщение живёт в cookie не дольше TTL; новое сообщение заменяет
// старое, баннеры не накапливаются. Чтение удаляет cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// Имя cookie для flash-сообщения.
const CookieName = "camping_flash"

// TTL — время жизни баннера: просроченное сообщение не показывается,
// даже если cookie ещё не удалён браузером.
const TTL = 5 * time.Second

// Виды баннеров.
const (
	KindSuccess = "success"
	KindError   = "error"
)

// Message — flash-сообщение с видом и сроком годности.
type Message struct {
	// Kind — success или error
	Kind string `json:"kind"`
	// Text — текст сообщения (для мутаций — ответ сервера дословно)
	Text string `json:"text"`
	// ExpiresAt — Unix-время (мс), после которого сообщение не показывается
	ExpiresAt int64 `json:"expires_at"`
}

// Set устанавливает flash-сообщение, заменяя предыдущее.
func Set(w http.ResponseWriter, kind, text string) {
	msg := Message{
		Kind:      kind,
		Text:      text,
		ExpiresAt: time.Now().Add(TTL).UnixMilli(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   int(TTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Success устанавливает баннер успеха.
func Success(w http.ResponseWriter, text string) {
	Set(w, KindSuccess, text)
}

// Error устанавливает баннер ошибки.
func Error(w http.ResponseWriter, text string) {
	Set(w, KindError, text)
}

// Take читает flash-сообщение запроса и удаляет cookie.
// Возвращает nil, если сообщения нет, оно повреждено или просрочено.
func Take(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	// Одноразовое сообщение: удаляем сразу, независимо от валидности
	clearCookie(w)

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil
	}
	if time.Now().UnixMilli() >= msg.ExpiresAt {
		return nil
	}
	return &msg
}

// clearCookie удаляет flash cookie из ответа.
func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
