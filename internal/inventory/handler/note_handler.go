package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
)

// NoteHandler serves field notes and manager notes.
type NoteHandler struct {
	notes        *service.NoteService
	managerNotes *service.ManagerNoteService
}

func NewNoteHandler(notes *service.NoteService, managerNotes *service.ManagerNoteService) *NoteHandler {
	return &NoteHandler{notes: notes, managerNotes: managerNotes}
}

// List GET /notes.php?employeeId=
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), actor(c), c.Query("employeeId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if notes == nil {
		notes = []entity.Note{}
	}
	Success(c, notes)
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req service.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	note, err := h.notes.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), id, actor(c)); err != nil {
		handleError(c, err)
		return
	}
	Deleted(c)
}

// ListManagerNotes GET /manager_notes.php?targetEmployeeId=
func (h *NoteHandler) ListManagerNotes(c *gin.Context) {
	notes, err := h.managerNotes.List(c.Request.Context(), actor(c), c.Query("targetEmployeeId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if notes == nil {
		notes = []entity.ManagerNote{}
	}
	Success(c, notes)
}

func (h *NoteHandler) CreateManagerNote(c *gin.Context) {
	var req service.CreateManagerNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	note, err := h.managerNotes.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, note)
}

func (h *NoteHandler) DeleteManagerNote(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.managerNotes.Delete(c.Request.Context(), id, actor(c)); err != nil {
		handleError(c, err)
		return
	}
	Deleted(c)
}

// MarkManagerNoteRead POST /manager_note_read.php {id}
func (h *NoteHandler) MarkManagerNoteRead(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	note, err := h.managerNotes.MarkRead(c.Request.Context(), id, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, note)
}
