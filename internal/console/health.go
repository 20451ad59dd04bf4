package console

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/database"
	"github.com/libradesk/libradesk/internal/database/settings"
	"github.com/libradesk/libradesk/internal/entities"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// SnapshotStatus reports the bookkeeping of the last snapshot sweep.
type SnapshotStatus struct {
	LastRunAt string `json:"lastRunAt,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
}

type HealthController struct {
	db       *database.Database
	settings *settings.Repository
	version  string
}

func NewHealthController(db *database.Database, settingsRepo *settings.Repository, version string) *HealthController {
	return &HealthController{db: db, settings: settingsRepo, version: version}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
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

// Snapshot reports when the local snapshot was last refreshed and whether
// that refresh succeeded.
func (h *HealthController) Snapshot(c *gin.Context) {
	var s SnapshotStatus
	var err error

	if s.LastRunAt, err = h.settings.Get(entities.SettingKeySnapshotLastAt); err != nil && !errors.Is(err, settings.ErrNotSet) {
		respondOutcome(c, err, "Failed to load snapshot status")
		return
	}
	s.Status, _ = h.settings.Get(entities.SettingKeySnapshotLastStatus)
	s.Message, _ = h.settings.Get(entities.SettingKeySnapshotLastMessage)

	c.JSON(http.StatusOK, s)
}
