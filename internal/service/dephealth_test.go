// dephealth_test.go — unit-тесты конфигурации мониторинга зависимостей.
package service

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestBookingHealthPath проверяет построение path проверки booking API.
func TestBookingHealthPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "URL без path",
			input:    "http://booking.example.com:8080",
			expected: "/creneaux",
		},
		{
			name:     "URL с path /api",
			input:    "http://booking.example.com:8080/api",
			expected: "/api/creneaux",
		},
		{
			name:     "пустой URL",
			input:    "",
			expected: "/creneaux",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bookingHealthPath(tt.input); got != tt.expected {
				t.Errorf("bookingHealthPath(%q) = %q, ожидалось %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestNewDephealthService проверяет создание сервиса мониторинга
// с изолированным Prometheus registry.
func TestNewDephealthService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ds, err := NewDephealthServiceWithRegisterer(
		"camping-manager",
		"camping",
		"http://localhost:8080/api",
		30*time.Second,
		logger,
		prometheus.NewRegistry(),
	)
	if err != nil {
		t.Fatalf("Ошибка создания DephealthService: %v", err)
	}
	if ds == nil {
		t.Fatal("DephealthService не создан")
	}
}
