package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
)

// AuthHandler serves login.php.
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login POST /login.php
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Username and password are required")
		return
	}
	result, err := h.svc.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		Unauthorized(c, err.Error())
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UserHandler serves users.php.
type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List GET /users.php?role=
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		handleError(c, err)
		return
	}
	if users == nil {
		users = []entity.User{}
	}
	Success(c, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	user, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, actor(c)); err != nil {
		handleError(c, err)
		return
	}
	Deleted(c)
}

// SiteHandler serves construction_sites.php.
type SiteHandler struct {
	svc *service.SiteService
}

func NewSiteHandler(svc *service.SiteService) *SiteHandler {
	return &SiteHandler{svc: svc}
}

func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if sites == nil {
		sites = []entity.ConstructionSite{}
	}
	Success(c, sites)
}

func (h *SiteHandler) Create(c *gin.Context) {
	var req service.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	site, err := h.svc.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, site)
}

func (h *SiteHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	Deleted(c)
}
