package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tourbook/backend/internal/application/identity"
)

// UserHandler handles user administration
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List godoc
// @Summary      List users
// @Tags         admin-users
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in name and email"
// @Param        role query string false "Role" Enums(admin, user)
// @Param        status query string false "Status" Enums(active, disabled)
// @Success      200 {object} dto.Response{data=[]identity.UserResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identity.UserListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, users, total, page, pageSize)
}

// Get godoc
// @Summary      Get user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangeRole godoc
// @Summary      Change user role
// @Description  Assign a role. Admins cannot change their own role. The user's tokens are revoked.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body identity.ChangeRoleRequest true "New role"
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	actorID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c, "id", "user")
	if !ok {
		return
	}
	var req identity.ChangeRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, user)
}

// Disable godoc
// @Summary      Disable user
// @Description  Block sign-in and revoke every token of the user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/disable [post]
func (h *UserHandler) Disable(c *gin.Context) {
	actorID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Disable(c.Request.Context(), actorID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, user)
}

// Enable godoc
// @Summary      Enable user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/enable [post]
func (h *UserHandler) Enable(c *gin.Context) {
	actorID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Enable(c.Request.Context(), actorID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, user)
}
