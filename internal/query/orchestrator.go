// Пакет query — оркестратор запросов и мутаций к booking API.
//
// Отвечает за три вещи:
//   - дедупликация: конкурентные запросы с одним ключом разделяют один
//     сетевой вызов (singleflight);
//   - кэш последнего успешного результата по ключу (операция + параметры);
//   - инвалидация: успешная мутация удаляет записи кэша объявленных ею
//     пространств имён.
//
// Политики заданы явно, а не унаследованы от библиотеки кэширования:
//   - повторы: 0 — неудачная операция не повторяется, пользователь
//     перезапускает действие сам;
//   - stale-time: отсутствует — закэшированное значение отдаётся до явной
//     инвалидации, новых запросов по совпавшему ключу не выполняется;
//   - вытеснение: кэш не ограничен, очищается только инвалидацией.
//
// Порядок разрешения, а не порядок запуска, определяет содержимое кэша
// (last-resolved-wins): результат записывается в момент получения его
// ожидающим вызывающим. Если все ожидающие отменили контексты до
// разрешения, результат отбрасывается и кэш не изменяется.
package query

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// Prometheus-метрики оркестратора.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_query_cache_hits_total",
		Help: "Количество запросов, отданных из кэша оркестратора.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_query_cache_misses_total",
		Help: "Количество запросов, потребовавших сетевого вызова.",
	})
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cm_mutations_total",
		Help: "Количество мутаций по операциям и исходам.",
	}, []string{"operation", "outcome"})
)

// Key — ключ кэша: имя операции + сериализованные параметры.
type Key struct {
	// Op — имя операции (пространство имён кэша)
	Op string
	// Params — сериализованные параметры запроса
	Params string
}

// K создаёт ключ без параметров.
func K(op string) Key {
	return Key{Op: op}
}

// KP создаёт ключ с параметрами.
func KP(op, params string) Key {
	return Key{Op: op, Params: params}
}

// String — каноническая форма ключа: "op" или "op[params]".
func (k Key) String() string {
	if k.Params == "" {
		return k.Op
	}
	return k.Op + "[" + k.Params + "]"
}

// Orchestrator — разделяемый кэш запросов с дедупликацией.
// Единственный разделяемый изменяемый ресурс клиентской части; всё
// изменение состояния идёт через Fetch/Invalidate/Clear.
type Orchestrator struct {
	mu      sync.RWMutex
	entries map[string]any
	group   singleflight.Group
	logger  *slog.Logger
}

// New создаёт пустой оркестратор.
func New(logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		entries: make(map[string]any),
		logger:  logger.With(slog.String("component", "query")),
	}
}

// Fetch возвращает значение по ключу: из кэша, либо одним разделяемым
// сетевым вызовом fn. Конкурентные вызовы с одним ключом ждут общий
// результат. При отмене ctx вызывающего возвращается ctx.Err(); сам
// сетевой вызов не прерывается, пока его ждёт хотя бы один вызывающий.
func Fetch[T any](ctx context.Context, o *Orchestrator, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	ks := key.String()

	// 1. Кэш
	o.mu.RLock()
	cached, ok := o.entries[ks]
	o.mu.RUnlock()
	if ok {
		val, ok := cached.(T)
		if ok {
			cacheHitsTotal.Inc()
			return val, nil
		}
		// Несовпадение типа — повреждённая запись, убираем и перезапрашиваем
		o.Invalidate(ks)
	}
	cacheMissesTotal.Inc()

	// 2. Разделяемый сетевой вызов.
	// Контекст без отмены: уход одного вызывающего не должен обрывать
	// запрос, результата которого ждут остальные.
	fetchCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan(ks, func() (any, error) {
		return fn(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		val, ok := res.Val.(T)
		if !ok {
			return zero, &TypeMismatchError{Key: ks}
		}
		// Запись в кэш в момент получения результата ожидающим:
		// если все ожидающие отменились, записи не произойдёт.
		o.mu.Lock()
		o.entries[ks] = val
		o.mu.Unlock()
		return val, nil
	case <-ctx.Done():
		// Вызывающий ушёл (страница закрыта) — результат для него
		// отбрасывается, кэш этим вызывающим не обновляется.
		return zero, ctx.Err()
	}
}

// Mutate выполняет мутацию fn и при успехе инвалидирует объявленные
// пространства имён кэша. Мутации не дедуплицируются и не повторяются:
// неуспех возвращается вызывающему, повтор — только явным действием
// пользователя.
func Mutate[T any](ctx context.Context, o *Orchestrator, op string, invalidates []string, fn func(context.Context) (T, error)) (T, error) {
	val, err := fn(ctx)
	if err != nil {
		mutationsTotal.WithLabelValues(op, "error").Inc()
		var zero T
		return zero, err
	}

	mutationsTotal.WithLabelValues(op, "success").Inc()
	if len(invalidates) > 0 {
		o.Invalidate(invalidates...)
	}
	return val, nil
}

// Invalidate удаляет записи кэша, чей ключ начинается с любого из
// указанных пространств имён. "creneaux" удаляет и "creneaux", и
// "campeurs[10]" удаляется по "campeurs" или точному "campeurs[10]".
func (o *Orchestrator) Invalidate(namespaces ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	removed := 0
	for key := range o.entries {
		for _, ns := range namespaces {
			if strings.HasPrefix(key, ns) {
				delete(o.entries, key)
				removed++
				break
			}
		}
	}

	if removed > 0 {
		o.logger.Debug("Кэш инвалидирован",
			slog.Any("namespaces", namespaces),
			slog.Int("removed", removed),
		)
	}
}

// Peek возвращает закэшированное значение без сетевого вызова.
func (o *Orchestrator) Peek(key Key) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	val, ok := o.entries[key.String()]
	return val, ok
}

// Clear полностью очищает кэш (используется при logout — данные могли
// зависеть от прав сессии).
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = make(map[string]any)
}

// Len возвращает количество записей кэша.
func (o *Orchestrator) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}

// TypeMismatchError — значение в кэше или результате flight не приводится
// к запрошенному типу. Возможен только при ошибке программирования
// (один ключ для разных типов).
type TypeMismatchError struct {
	Key string
}

func (e *TypeMismatchError) Error() string {
	return "query: несовместимый тип значения для ключа " + e.Key
}
