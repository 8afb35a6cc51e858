package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthInfo identifies the running build and how chat messages are classified.
type HealthInfo struct {
	Service    string
	Version    string
	Classifier string
	// ModelGateway is true when an LLM API key is configured.
	ModelGateway bool
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	info HealthInfo
	deps map[string]Pinger
}

// NewHealthHandler builds the handler. deps maps a dependency name to its pinger.
func NewHealthHandler(info HealthInfo, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{info: info, deps: deps}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "alive",
		"service":    h.info.Service,
		"version":    h.info.Version,
		"classifier": h.info.Classifier,
	})
}

// Ready pings every dependency. A model-backed classifier without a gateway
// key still reports ready, since it degrades to the fallback classification.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	depStatus := fiber.Map{}
	ready := true
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			depStatus[name] = err.Error()
			ready = false
			continue
		}
		depStatus[name] = "ok"
	}

	classifier := fiber.Map{"strategy": h.info.Classifier}
	if h.info.Classifier == "model" {
		classifier["model_gateway"] = h.info.ModelGateway
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": depStatus,
			},
		})
	}
	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": depStatus,
		"classifier":   classifier,
	})
}
