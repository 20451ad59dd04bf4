package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/lending"
)

// LendingController serves the borrow/return ledger view.
type LendingController struct {
	engine *lending.Engine
}

func NewLendingController(engine *lending.Engine) *LendingController {
	return &LendingController{engine: engine}
}

type borrowFormRequest struct {
	BookID   uint   `json:"book_id"`
	MemberID uint   `json:"member_id"`
	DueDate  string `json:"due_date"`
}

type returnFormRequest struct {
	BorrowRecordID uint `json:"borrow_record_id"`
}

// List returns the ledger, newest first, optionally narrowed by a status
// filter and a free-text search over book title, member name and IDs.
func (controller *LendingController) List(c *gin.Context) {
	records, err := controller.engine.ListRecords(c.Request.Context())
	if err != nil {
		respondOutcome(c, err, "Failed to load borrow records")
		return
	}

	filter := lending.StatusFilter(c.DefaultQuery("status", string(lending.FilterAll)))
	query := c.Query("q")
	c.JSON(http.StatusOK, lending.FilterRecords(records, filter, query))
}

// Borrow opens a lending transaction. A last-copy race surfaces as a 409
// and the UI reloads its book choices.
func (controller *LendingController) Borrow(c *gin.Context) {
	var req borrowFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	record, err := controller.engine.Borrow(c.Request.Context(), req.BookID, req.MemberID, req.DueDate)
	if err != nil {
		respondOutcome(c, err, "Failed to borrow book")
		return
	}
	respondCreated(c, record)
}

// Return closes a lending transaction and returns the server's updated
// representation of the record.
func (controller *LendingController) Return(c *gin.Context) {
	var req returnFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	record, err := controller.engine.Return(c.Request.Context(), req.BorrowRecordID)
	if err != nil {
		respondOutcome(c, err, "Failed to return book")
		return
	}
	c.JSON(http.StatusOK, record)
}
