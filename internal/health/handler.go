// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	httputil "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/http"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Check is one readiness dependency. Optional checks report "degraded"
// instead of failing readiness.
type Check struct {
	Name     string
	Optional bool
	Probe    func(ctx context.Context) error
}

func MongoCheck(client *mongo.Client) Check {
	return Check{
		Name: "database",
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}
}

// RedisCheck is optional: the venue cache and idempotency store degrade
// without Redis.
func RedisCheck(client *redis.Client) Check {
	return Check{
		Name:     "cache",
		Optional: true,
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Events       any               `json:"events,omitempty"`
}

type HealthHandler struct {
	checks []Check
	stats  func() any
	log    *logger.Logger
}

// NewHealthHandler reports on checks. stats, when set, is included in the
// readiness body.
func NewHealthHandler(log *logger.Logger, stats func() any, checks ...Check) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		stats:  stats,
		log:    log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ready", Dependencies: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for _, c := range h.checks {
		if err := c.Probe(ctx); err != nil {
			h.log.Error("Readiness check failed", "dependency", c.Name, "error", err, "path", r.URL.Path)
			if c.Optional {
				resp.Dependencies[c.Name] = "degraded"
				continue
			}
			resp.Dependencies[c.Name] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[c.Name] = "ok"
	}
	if h.stats != nil {
		resp.Events = h.stats()
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
