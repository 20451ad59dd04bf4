package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/reports"
)

// ReportsController serves the reports view. Admin-only.
type ReportsController struct {
	aggregator *reports.Aggregator
}

func NewReportsController(agg *reports.Aggregator) *ReportsController {
	return &ReportsController{aggregator: agg}
}

// Get returns the full reports payload: summary figures, popular genres
// and the overdue list. When the figures were recomputed from the local
// snapshot the payload is marked stale.
func (controller *ReportsController) Get(c *gin.Context) {
	data, err := controller.aggregator.Fetch(c.Request.Context())
	if err != nil {
		respondOutcome(c, err, "Failed to load reports")
		return
	}
	c.JSON(http.StatusOK, data)
}
