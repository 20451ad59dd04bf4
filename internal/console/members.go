package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/membership"
)

// MembersController serves the member registry view. Admin-only.
type MembersController struct {
	membership *membership.Repository
}

func NewMembersController(repo *membership.Repository) *MembersController {
	return &MembersController{membership: repo}
}

func (controller *MembersController) List(c *gin.Context) {
	members, err := controller.membership.ListMembers(c.Request.Context())
	if err != nil {
		respondOutcome(c, err, "Failed to load members")
		return
	}
	c.JSON(http.StatusOK, members)
}

func (controller *MembersController) Create(c *gin.Context) {
	var fields api.MemberFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	member, err := controller.membership.CreateMember(c.Request.Context(), fields)
	if err != nil {
		respondOutcome(c, err, "Failed to add member")
		return
	}
	respondCreated(c, member)
}

func (controller *MembersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch api.MemberPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	member, err := controller.membership.UpdateMember(c.Request.Context(), id, patch)
	if err != nil {
		respondOutcome(c, err, "Failed to update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (controller *MembersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.membership.DeleteMember(c.Request.Context(), id); err != nil {
		respondOutcome(c, err, "Failed to delete member")
		return
	}
	respondSuccess(c, "member deleted")
}
