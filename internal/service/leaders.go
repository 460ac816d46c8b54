// leaders.go — TTL-кэш списка аниматоров.
// Список меняется редко, но нужен на каждой отрисовке страницы créneaux
// для администратора; кэшируется отдельно от оркестратора, с истечением
// по времени. Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/avolkov/camping-manager/internal/domain/model"
)

// Prometheus-метрики кэша аниматоров.
var (
	leadersCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_leaders_cache_hits_total",
		Help: "Количество попаданий в TTL-кэш списка аниматоров.",
	})
	leadersCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_leaders_cache_misses_total",
		Help: "Количество промахов TTL-кэша списка аниматоров.",
	})
)

// Ключ единственной записи кэша.
const leadersCacheKey = "animateurs"

// DefaultLeadersTTL — TTL списка аниматоров по умолчанию.
const DefaultLeadersTTL = 5 * time.Minute

// LeadersCache — TTL-кэш списка аниматоров.
// Каждый экземпляр приложения имеет собственный in-memory кэш.
type LeadersCache struct {
	cache *expirable.LRU[string, []model.User]
}

// NewLeadersCache создаёт кэш с указанным TTL.
// ttl <= 0 — используется значение по умолчанию.
func NewLeadersCache(ttl time.Duration) *LeadersCache {
	if ttl <= 0 {
		ttl = DefaultLeadersTTL
	}
	cache := expirable.NewLRU[string, []model.User](1, nil, ttl)
	return &LeadersCache{cache: cache}
}

// Leaders возвращает список аниматоров из кэша или через api.
// Кэшируется только успешный ответ (в том числе пустой список);
// отказ api возвращается вызывающему, и следующий запрос снова пойдёт в api.
func (c *LeadersCache) Leaders(ctx context.Context, api BookingAPI) ([]model.User, error) {
	if leaders, ok := c.cache.Get(leadersCacheKey); ok {
		leadersCacheHitsTotal.Inc()
		return leaders, nil
	}
	leadersCacheMissesTotal.Inc()

	leaders, err := api.Leaders(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Add(leadersCacheKey, leaders)
	return leaders, nil
}

// Invalidate сбрасывает кэш (например, после logout администратора).
func (c *LeadersCache) Invalidate() {
	c.cache.Remove(leadersCacheKey)
}
