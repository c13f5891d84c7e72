package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
	"github.com/Kaua3045/ecommerce-users/internal/usecase"
)

type RoleUseCases interface {
	CreateRole(ctx context.Context, cmd usecase.CreateRoleCommand) (either.Either[*validation.Notification, usecase.RoleOutput], error)
	UpdateRole(ctx context.Context, cmd usecase.UpdateRoleCommand) (either.Either[*validation.Notification, usecase.RoleOutput], error)
	DeleteRole(ctx context.Context, id string) error
	GetRoleByID(ctx context.Context, id string) (*domain.Role, error)
	GetDefaultRole(ctx context.Context) (*domain.Role, error)
	ListRoles(ctx context.Context, query port.SearchQuery) (port.Pagination[*domain.Role], error)
	RemoveRolePermission(ctx context.Context, roleID, permissionID string) error
}

type RoleHandler struct {
	roles RoleUseCases
}

func NewRoleHandler(roles RoleUseCases) *RoleHandler {
	return &RoleHandler{roles: roles}
}

func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/default", h.GetDefault)
	r.GET("/:id", h.Get)
	r.PATCH("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	r.DELETE("/:id/permissions/:permissionId", h.RemovePermission)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.roles.CreateRole(c.Request.Context(), usecase.CreateRoleCommand{
		Name:        req.Name,
		Description: req.Description,
		RoleType:    req.RoleType,
		IsDefault:   req.IsDefault,
		Permissions: req.Permissions,
	})
	respond(c, result, err, http.StatusCreated, roleIDResponse)
}

func (h *RoleHandler) Update(c *gin.Context) {
	var req UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.roles.UpdateRole(c.Request.Context(), usecase.UpdateRoleCommand{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		RoleType:    req.RoleType,
		IsDefault:   req.IsDefault,
		Permissions: req.Permissions,
	})
	respond(c, result, err, http.StatusOK, roleIDResponse)
}

func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roles.GetRoleByID(c.Request.Context(), c.Param("id"))
	h.renderRole(c, role, err)
}

func (h *RoleHandler) GetDefault(c *gin.Context) {
	role, err := h.roles.GetDefaultRole(c.Request.Context())
	h.renderRole(c, role, err)
}

func (h *RoleHandler) renderRole(c *gin.Context, role *domain.Role, err error) {
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoleResponse(role))
}

func (h *RoleHandler) List(c *gin.Context) {
	page, err := h.roles.ListRoles(c.Request.Context(), searchQuery(c, "name"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page, newRoleResponse))
}

func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.roles.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, ErrorCase{
			Err:     repository.ErrConflict,
			Status:  http.StatusConflict,
			Message: "role is still assigned to accounts",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoleHandler) RemovePermission(c *gin.Context) {
	if err := h.roles.RemoveRolePermission(c.Request.Context(), c.Param("id"), c.Param("permissionId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func roleIDResponse(out usecase.RoleOutput) any {
	return IDResponse{ID: out.ID.String()}
}
