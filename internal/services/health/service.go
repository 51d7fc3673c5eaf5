package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/shared/server/respond"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// Status is the health payload.
type Status struct {
	OK       bool              `json:"ok"`
	Version  string            `json:"version,omitempty"`
	UptimeS  int64             `json:"uptimeSeconds"`
	Checks   map[string]string `json:"checks"`
	Info     map[string]any    `json:"info,omitempty"`
	Failures []string          `json:"failures,omitempty"`
}

// Service runs registered checks on demand.
type Service struct {
	mu      sync.RWMutex
	version string
	started time.Time
	checks  map[string]Check
	info    map[string]any
	now     func() time.Time
}

// NewService constructs a health service.
func NewService(version string) *Service {
	return &Service{
		version: version,
		started: time.Now(),
		checks:  make(map[string]Check),
		info:    make(map[string]any),
		now:     time.Now,
	}
}

// Register adds a named check.
func (s *Service) Register(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// SetInfo publishes a static value, such as which providers are configured.
func (s *Service) SetInfo(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info[key] = value
}

// Status runs every check.
func (s *Service) Status(ctx context.Context) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := Status{
		OK:      true,
		Version: s.version,
		UptimeS: int64(s.now().Sub(s.started).Seconds()),
		Checks:  make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			out.OK = false
			out.Checks[name] = err.Error()
			out.Failures = append(out.Failures, name)
			continue
		}
		out.Checks[name] = "ok"
	}
	if len(s.info) > 0 {
		out.Info = make(map[string]any, len(s.info))
		for k, v := range s.info {
			out.Info[k] = v
		}
	}
	return out
}

// RegisterRoutes exposes GET /health; failing checks answer 503.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		status := s.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
}
