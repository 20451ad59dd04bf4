package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/catalog"
)

// BooksController serves the catalog view.
type BooksController struct {
	catalog *catalog.Repository
}

func NewBooksController(repo *catalog.Repository) *BooksController {
	return &BooksController{catalog: repo}
}

// List returns the catalog. With available=true only books that can be
// offered on a borrow form are included.
func (controller *BooksController) List(c *gin.Context) {
	if queryFlag(c, "available") {
		available, err := controller.catalog.AvailableBooks(c.Request.Context())
		if err != nil {
			respondOutcome(c, err, "Failed to load books")
			return
		}
		c.JSON(http.StatusOK, available)
		return
	}

	all, err := controller.catalog.ListBooks(c.Request.Context())
	if err != nil {
		respondOutcome(c, err, "Failed to load books")
		return
	}
	c.JSON(http.StatusOK, all)
}

// Create adds a book to the catalog.
func (controller *BooksController) Create(c *gin.Context) {
	var fields api.BookFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := controller.catalog.CreateBook(c.Request.Context(), fields)
	if err != nil {
		respondOutcome(c, err, "Failed to add book")
		return
	}
	respondCreated(c, book)
}

// Update applies a partial update and returns the authoritative record.
func (controller *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch api.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := controller.catalog.UpdateBook(c.Request.Context(), id, patch)
	if err != nil {
		respondOutcome(c, err, "Failed to update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Delete removes a book.
func (controller *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.catalog.DeleteBook(c.Request.Context(), id); err != nil {
		respondOutcome(c, err, "Failed to delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

// ActiveLoans reports the snapshot's count of open loans for a book, used
// to warn the operator when a manual copy-count edit diverges from the
// outstanding loans.
func (controller *BooksController) ActiveLoans(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookId": id, "activeLoans": controller.catalog.ActiveLoanCount(id)})
}
