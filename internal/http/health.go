package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cur8t/agents/internal/database"
	"github.com/cur8t/agents/internal/sessions"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db               *database.Database
	store            *sessions.MemoryStore
	oracleConfigured bool
	version          string
}

func NewHealthController(db *database.Database, store *sessions.MemoryStore, oracleConfigured bool, version string) *HealthController {
	return &HealthController{
		db:               db,
		store:            store,
		oracleConfigured: oracleConfigured,
		version:          version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.oracleConfigured {
		checks["oracle"] = "configured"
	} else {
		checks["oracle"] = "not configured, fallback categorization only"
	}

	if h.store != nil {
		checks["sessions"] = strconv.Itoa(h.store.Len()) + " active"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
