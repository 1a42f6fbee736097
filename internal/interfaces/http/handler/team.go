package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tourbook/backend/internal/application/identity"
)

// TeamHandler handles the team members shown on the about page
type TeamHandler struct {
	BaseHandler
	teamService *identity.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService *identity.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// ListActive godoc
// @Summary      List team
// @Description  List active team members in display order
// @Tags         team
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identity.TeamMemberResponse}
// @Router       /team [get]
func (h *TeamHandler) ListActive(c *gin.Context) {
	members, err := h.teamService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, members)
}

// List godoc
// @Summary      List team (admin)
// @Description  List every team member, inactive ones included
// @Tags         admin-team
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identity.TeamMemberResponse}
// @Security     BearerAuth
// @Router       /admin/team [get]
func (h *TeamHandler) List(c *gin.Context) {
	members, err := h.teamService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, members)
}

// Get godoc
// @Summary      Get team member
// @Tags         admin-team
// @Produce      json
// @Param        id path string true "Team member ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.TeamMemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/team/{id} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "team member")
	if !ok {
		return
	}

	member, err := h.teamService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, member)
}

// Create godoc
// @Summary      Create team member
// @Description  Add a team member at the end of the display order
// @Tags         admin-team
// @Accept       json
// @Produce      json
// @Param        request body identity.TeamMemberRequest true "Team member"
// @Success      201 {object} dto.Response{data=identity.TeamMemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/team [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req identity.TeamMemberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	member, err := h.teamService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, member)
}

// Update godoc
// @Summary      Update team member
// @Tags         admin-team
// @Accept       json
// @Produce      json
// @Param        id path string true "Team member ID" format(uuid)
// @Param        request body identity.TeamMemberRequest true "Team member"
// @Success      200 {object} dto.Response{data=identity.TeamMemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/team/{id} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "team member")
	if !ok {
		return
	}
	var req identity.TeamMemberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	member, err := h.teamService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, member)
}

// Delete godoc
// @Summary      Delete team member
// @Tags         admin-team
// @Param        id path string true "Team member ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/team/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "team member")
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Reorder godoc
// @Summary      Reorder team
// @Description  Set the display order. The list must name every team member exactly once.
// @Tags         admin-team
// @Accept       json
// @Produce      json
// @Param        request body identity.ReorderTeamRequest true "Member IDs in display order"
// @Success      200 {object} dto.Response{data=[]identity.TeamMemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/team/order [put]
func (h *TeamHandler) Reorder(c *gin.Context) {
	var req identity.ReorderTeamRequest
	if !h.BindJSON(c, &req) {
		return
	}

	members, err := h.teamService.Reorder(c.Request.Context(), req.IDs)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, members)
}
