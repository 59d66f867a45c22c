package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeSessionReaper runs the expired session reaper.
	ServiceModeSessionReaper ServiceMode = "session-reaper"
	// ServiceModeOverdueSweeper runs the overdue payment sweeper.
	ServiceModeOverdueSweeper ServiceMode = "overdue-sweeper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeSessionReaper,
		ServiceModeOverdueSweeper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeSessionReaper, ServiceModeOverdueSweeper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, session-reaper, overdue-sweeper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// SessionReaperConfig contains session reaper service configuration.
type SessionReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"SESSION_REAPER_INTERVAL" envDefault:"5m"`

	// BatchSize is the maximum number of sessions to delete per tick.
	// Batching prevents long scans when a large backlog has accumulated.
	BatchSize int `env:"SESSION_REAPER_BATCH_SIZE" envDefault:"1000"`
}

// Sanitize applies guardrails to session reaper configuration values.
func (r *SessionReaperConfig) Sanitize() {
	if r.Interval < time.Minute {
		r.Interval = time.Minute
	}
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
}

// OverdueSweepConfig contains overdue payment sweeper configuration.
type OverdueSweepConfig struct {
	// Interval is the sweeper tick interval. Each tick flags pending
	// payments whose due date has passed.
	Interval time.Duration `env:"OVERDUE_SWEEP_INTERVAL" envDefault:"1h"`
}

// Sanitize applies guardrails to overdue sweeper configuration values.
func (s *OverdueSweepConfig) Sanitize() {
	if s.Interval < time.Minute {
		s.Interval = time.Minute
	}
}
