package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/storefront/pkg/database"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency the health check pings
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	deps map[string]Pinger
}

func NewHealthChecker(postgres *database.Postgres, redis *database.Redis) *HealthChecker {
	return &HealthChecker{
		deps: map[string]Pinger{
			"postgres": postgres,
			"redis":    redis,
		},
	}
}

type pingResult struct {
	name string
	err  error
}

// check pings every dependency concurrently and reports per-dependency status
func (h *HealthChecker) check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	results := make(chan pingResult, len(h.deps))
	for name, dep := range h.deps {
		go func() {
			results <- pingResult{name: name, err: dep.Ping(ctx)}
		}()
	}

	healthy := true
	services := make(map[string]string, len(h.deps))
	for range h.deps {
		r := <-results
		if r.err != nil {
			healthy = false
			services[r.name] = "fail: " + r.err.Error()
			continue
		}
		services[r.name] = "pass"
	}
	return services, healthy
}

func (h *HealthChecker) Handler(c *gin.Context) {
	services, healthy := h.check(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "fail",
			"services": services,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "pass",
		"services": services,
	})
}
