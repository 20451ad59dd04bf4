package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/catalog"
)

// GenresController serves the genre taxonomy view. Admin-only.
type GenresController struct {
	catalog *catalog.Repository
}

func NewGenresController(repo *catalog.Repository) *GenresController {
	return &GenresController{catalog: repo}
}

type genreRequest struct {
	Name string `json:"name"`
}

func (controller *GenresController) List(c *gin.Context) {
	genres, err := controller.catalog.ListGenres(c.Request.Context())
	if err != nil {
		respondOutcome(c, err, "Failed to load genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

func (controller *GenresController) Create(c *gin.Context) {
	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	genre, err := controller.catalog.CreateGenre(c.Request.Context(), req.Name)
	if err != nil {
		respondOutcome(c, err, "Failed to add genre")
		return
	}
	respondCreated(c, genre)
}

func (controller *GenresController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	genre, err := controller.catalog.UpdateGenre(c.Request.Context(), id, req.Name)
	if err != nil {
		respondOutcome(c, err, "Failed to update genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

func (controller *GenresController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.catalog.DeleteGenre(c.Request.Context(), id); err != nil {
		respondOutcome(c, err, "Failed to delete genre")
		return
	}
	respondSuccess(c, "genre deleted")
}
