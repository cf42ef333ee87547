package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
)

// AttendanceHandler serves the attendance routes.
type AttendanceHandler struct {
	svc *service.AttendanceService
}

func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// List GET /attendance.php?employeeId=
func (h *AttendanceHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context(), actor(c), c.Query("employeeId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if records == nil {
		records = []entity.AttendanceRecord{}
	}
	Success(c, records)
}

// Start POST /attendance_start.php
func (h *AttendanceHandler) Start(c *gin.Context) {
	var req service.StartWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Please select a construction site")
		return
	}
	record, err := h.svc.Start(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, record)
}

// End POST /attendance_end.php
func (h *AttendanceHandler) End(c *gin.Context) {
	record, err := h.svc.End(c.Request.Context(), actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, record)
}

// Summary GET /attendance_summary.php?employeeId=
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), actor(c), c.Query("employeeId"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, summary)
}
