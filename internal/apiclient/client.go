// Пакет apiclient — HTTP-клиент удалённого booking API.
// Один метод на одну операцию API; клиент не содержит бизнес-логики:
// валидация, права и ограничения вместимости применяются сервером,
// поэтому любая мутация может быть отклонена.
//
// Политика ошибок: ошибка транспорта или не-2xx статус возвращаются
// вызывающему (*APIError для отказов сервера). Смягчение best-effort
// чтений до пустого списка — ответственность сервисного слоя: там оно
// происходит после кэша, и отказ не запоминается как успешный результат.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avolkov/camping-manager/internal/domain/model"
)

// Таймаут HTTP-запросов к booking API по умолчанию.
const defaultTimeout = 10 * time.Second

// APIError — отказ сервера (не-2xx ответ).
// Body содержит тело ответа дословно: для мутаций оно показывается
// пользователю без переинтерпретации.
type APIError struct {
	// StatusCode — HTTP статус-код ответа
	StatusCode int
	// Body — текст тела ответа (может быть пустым)
	Body string
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("booking API вернул статус %d", e.StatusCode)
	}
	return fmt.Sprintf("booking API вернул статус %d: %s", e.StatusCode, e.Body)
}

// Message — текст для показа пользователю: тело ответа дословно,
// либо пустая строка, если сервер ничего не вернул.
func (e *APIError) Message() string {
	return e.Body
}

// Client — HTTP-клиент booking API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент booking API.
// baseURL — базовый адрес API (например, http://localhost:8080/api),
// trailing slash убирается. timeout <= 0 — используется значение по умолчанию.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "api_client")),
	}
}

// --- Пользователи ---

// credentials — тело запроса POST /utilisateurs/login.
type credentials struct {
	Handle string `json:"identifiant"`
	Secret string `json:"mdp"`
}

// Authenticate проверяет учётные данные и возвращает пользователя.
// POST /utilisateurs/login. Отказ (неверные данные, транспорт) — ошибка.
func (c *Client) Authenticate(ctx context.Context, handle, secret string) (*model.User, error) {
	var user model.User
	err := c.doJSON(ctx, http.MethodPost, "/utilisateurs/login",
		credentials{Handle: handle, Secret: secret}, &user)
	if err != nil {
		return nil, err
	}
	// Сервер может вернуть 200 без объекта пользователя — считаем отказом
	if user.ID <= 0 {
		return nil, fmt.Errorf("неожиданный ответ booking API: пользователь без id")
	}
	return &user, nil
}

// Register регистрирует нового пользователя (без id — его присвоит сервер).
// POST /utilisateurs/register. Отказ — ошибка.
func (c *Client) Register(ctx context.Context, user model.User) (*model.User, error) {
	var created model.User
	if err := c.doJSON(ctx, http.MethodPost, "/utilisateurs/register", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Leaders возвращает список аниматоров.
// GET /utilisateurs/animateurs. Отказ — ошибка.
func (c *Client) Leaders(ctx context.Context) ([]model.User, error) {
	return c.listUsers(ctx, "/utilisateurs/animateurs")
}

// LeaderSchedule возвращает planning аниматора.
// GET /utilisateurs/{id}/planning. Отказ — ошибка.
func (c *Client) LeaderSchedule(ctx context.Context, leaderID int64) ([]model.Slot, error) {
	var slots []model.Slot
	path := fmt.Sprintf("/utilisateurs/%d/planning", leaderID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// --- Créneaux ---

// Slots возвращает все créneaux.
// GET /creneaux. Отказ — ошибка.
func (c *Client) Slots(ctx context.Context) ([]model.Slot, error) {
	var slots []model.Slot
	if err := c.doJSON(ctx, http.MethodGet, "/creneaux", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// CreateSlot создаёт новый créneau (без id — его присвоит сервер).
// POST /creneaux. Отказ — ошибка.
func (c *Client) CreateSlot(ctx context.Context, slot model.Slot) (*model.Slot, error) {
	var created model.Slot
	if err := c.doJSON(ctx, http.MethodPost, "/creneaux", slot, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CampersForSlot возвращает записанных на créneau кемперов.
// GET /creneaux/{id}/campeurs. Отказ — ошибка.
func (c *Client) CampersForSlot(ctx context.Context, slotID int64) ([]model.User, error) {
	return c.listUsers(ctx, fmt.Sprintf("/creneaux/%d/campeurs", slotID))
}

// AbsenteesForSlot возвращает отсутствовавших на créneau кемперов.
// GET /creneaux/{id}/absents. Отказ — ошибка.
func (c *Client) AbsenteesForSlot(ctx context.Context, slotID int64) ([]model.User, error) {
	return c.listUsers(ctx, fmt.Sprintf("/creneaux/%d/absents", slotID))
}

// CamperSchedule возвращает créneaux, на которые записан кемпер.
// GET /creneaux/{id}/creneaux. Отказ — ошибка.
func (c *Client) CamperSchedule(ctx context.Context, camperID int64) ([]model.Slot, error) {
	var slots []model.Slot
	path := fmt.Sprintf("/creneaux/%d/creneaux", camperID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// --- Участие ---

// participationBody — тело запроса POST /creneaux/participer.
type participationBody struct {
	ID model.ParticipationKey `json:"id"`
}

// assignmentBody — тело запроса POST /creneaux/animer.
type assignmentBody struct {
	ID model.AssignmentKey `json:"id"`
}

// RegisterParticipation записывает кемпера на créneau.
// POST /creneaux/participer. Возвращает текстовое сообщение сервера.
// Отказ (мест нет, дубликат) — ошибка с телом ответа дословно.
func (c *Client) RegisterParticipation(ctx context.Context, camperID, slotID int64) (string, error) {
	return c.doText(ctx, http.MethodPost, "/creneaux/participer",
		participationBody{ID: model.ParticipationKey{CamperID: camperID, SlotID: slotID}})
}

// CancelParticipation отменяет участие кемпера (или фиксирует отсутствие).
// DELETE /creneaux/annuler/{campeur}/{creneau}. Отказ — ошибка.
func (c *Client) CancelParticipation(ctx context.Context, camperID, slotID int64) (string, error) {
	path := fmt.Sprintf("/creneaux/annuler/%d/%d", camperID, slotID)
	return c.doText(ctx, http.MethodDelete, path, nil)
}

// ConfirmParticipation подтверждает присутствие кемпера на créneau.
// PUT /creneaux/participation-effectuee/{campeur}/{creneau}. Отказ — ошибка.
func (c *Client) ConfirmParticipation(ctx context.Context, camperID, slotID int64) (string, error) {
	path := fmt.Sprintf("/creneaux/participation-effectuee/%d/%d", camperID, slotID)
	return c.doText(ctx, http.MethodPut, path, nil)
}

// AssignLeader назначает аниматора на créneau.
// POST /creneaux/animer. Отказ — ошибка.
func (c *Client) AssignLeader(ctx context.Context, leaderID, slotID int64) (string, error) {
	return c.doText(ctx, http.MethodPost, "/creneaux/animer",
		assignmentBody{ID: model.AssignmentKey{LeaderID: leaderID, SlotID: slotID}})
}

// --- Внутренние помощники ---

// listUsers выполняет GET списка пользователей.
func (c *Client) listUsers(ctx context.Context, path string) ([]model.User, error) {
	var users []model.User
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// doJSON выполняет запрос с JSON-телом (in может быть nil) и декодирует
// JSON-ответ в out. Не-2xx статус — *APIError с телом ответа.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("декодирование ответа %s %s: %w", method, path, err)
	}
	return nil
}

// doText выполняет запрос и возвращает тело ответа как текст.
// Используется для мутаций: сервер отвечает человекочитаемым сообщением.
func (c *Client) doText(ctx context.Context, method, path string, in any) (string, error) {
	resp, err := c.do(ctx, method, path, in)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("чтение ответа %s %s: %w", method, path, err)
	}
	return strings.TrimSpace(string(body)), nil
}

// do формирует и выполняет HTTP-запрос. Ошибка транспорта возвращается
// как есть (не *APIError).
func (c *Client) do(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var bodyReader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("сериализация запроса %s %s: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	c.logger.Debug("Запрос booking API",
		slog.String("method", method),
		slog.String("path", path),
	)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	return resp, nil
}

// checkStatus превращает не-2xx ответ в *APIError с телом дословно.
// Тело ответа при этом вычитывается полностью.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
