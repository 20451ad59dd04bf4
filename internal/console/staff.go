package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/entities"
	"github.com/libradesk/libradesk/internal/membership"
)

// StaffController serves the staff account view. Admin-only. New accounts
// start with the remote store's fixed default password, which the admin
// hands to the new operator out-of-band.
type StaffController struct {
	membership *membership.Repository
}

func NewStaffController(repo *membership.Repository) *StaffController {
	return &StaffController{membership: repo}
}

type createStaffRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (controller *StaffController) List(c *gin.Context) {
	staff, err := controller.membership.ListStaff(c.Request.Context())
	if err != nil {
		respondOutcome(c, err, "Failed to load staff")
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (controller *StaffController) Create(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := controller.membership.CreateStaff(c.Request.Context(), req.Username, req.Email, entities.Role(req.Role))
	if err != nil {
		respondOutcome(c, err, "Failed to add staff user")
		return
	}
	respondCreated(c, user)
}

func (controller *StaffController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch api.StaffPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := controller.membership.UpdateStaff(c.Request.Context(), id, patch)
	if err != nil {
		respondOutcome(c, err, "Failed to update staff user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (controller *StaffController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.membership.DeleteStaff(c.Request.Context(), id); err != nil {
		respondOutcome(c, err, "Failed to delete staff user")
		return
	}
	respondSuccess(c, "staff user deleted")
}
