package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
)

// ToolHandler serves tools.php and the assignment routes.
type ToolHandler struct {
	svc *service.ToolService
}

func NewToolHandler(svc *service.ToolService) *ToolHandler {
	return &ToolHandler{svc: svc}
}

// List GET /tools.php?assignedTo=
func (h *ToolHandler) List(c *gin.Context) {
	tools, err := h.svc.List(c.Request.Context(), actor(c), c.Query("assignedTo"))
	if err != nil {
		handleError(c, err)
		return
	}
	if tools == nil {
		tools = []entity.Tool{}
	}
	Success(c, tools)
}

func (h *ToolHandler) Create(c *gin.Context) {
	var req service.CreateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	tool, err := h.svc.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, tool)
}

func (h *ToolHandler) Delete(c *gin.Context) {
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

// Assign POST /tool_assign.php {toolId, employeeId}
func (h *ToolHandler) Assign(c *gin.Context) {
	var req service.AssignToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	tool, err := h.svc.Assign(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, tool)
}

// Unassign POST /tool_unassign.php {id}
func (h *ToolHandler) Unassign(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	tool, err := h.svc.Unassign(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, tool)
}
