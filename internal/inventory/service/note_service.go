package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/sse"
)

// NoteService manages field notes.
type NoteService struct {
	notes *repository.NoteRepository
	sites *repository.SiteRepository
}

func NewNoteService(notes *repository.NoteRepository, sites *repository.SiteRepository) *NoteService {
	return &NoteService{notes: notes, sites: sites}
}

type CreateNoteRequest struct {
	ConstructionSiteID string `json:"constructionSiteId" binding:"required"`
	Title              string `json:"title" binding:"required"`
	Content            string `json:"content" binding:"required"`
	ImageURL           string `json:"imageUrl"`
}

// List shows employees their own notes and everyone else all notes, or one author's.
func (s *NoteService) List(ctx context.Context, actor Actor, employeeID string) ([]entity.Note, error) {
	if actor.IsEmployee() {
		employeeID = actor.ID
	}
	return s.notes.List(ctx, employeeID)
}

func (s *NoteService) Create(ctx context.Context, req CreateNoteRequest, actor Actor) (*entity.Note, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, invalid("title and content are required")
	}
	site, err := s.sites.FindByID(ctx, req.ConstructionSiteID)
	if err != nil {
		return nil, missing(err, "Construction site")
	}
	note := &entity.Note{
		ID:                   newID(),
		EmployeeID:           actor.ID,
		EmployeeName:         actor.DisplayName(),
		ConstructionSiteID:   site.ID,
		ConstructionSiteName: site.Name,
		Title:                title,
		Content:              content,
		ImageURL:             strings.TrimSpace(req.ImageURL),
		CreatedAt:            time.Now(),
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// Delete is allowed for the author and for managers.
func (s *NoteService) Delete(ctx context.Context, id string, actor Actor) error {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return missing(err, "Note")
	}
	if note.EmployeeID != actor.ID && !actor.Can(entity.CapModify) {
		return fmt.Errorf("%w: only the author or a manager can delete this note", ErrForbidden)
	}
	return missing(s.notes.Delete(ctx, id), "Note")
}

// ManagerNoteService delivers notes from managers to individual employees.
type ManagerNoteService struct {
	notes *repository.ManagerNoteRepository
	users *repository.UserRepository
	hub   *sse.Hub
}

func NewManagerNoteService(notes *repository.ManagerNoteRepository, users *repository.UserRepository, hub *sse.Hub) *ManagerNoteService {
	if hub == nil {
		hub = sse.NewHub(nil)
	}
	return &ManagerNoteService{notes: notes, users: users, hub: hub}
}

type CreateManagerNoteRequest struct {
	TargetEmployeeID string `json:"targetEmployeeId" binding:"required"`
	Title            string `json:"title" binding:"required"`
	Content          string `json:"content" binding:"required"`
}

// List shows employees the notes addressed to them; other roles see all, or one target's.
func (s *ManagerNoteService) List(ctx context.Context, actor Actor, targetID string) ([]entity.ManagerNote, error) {
	if actor.IsEmployee() {
		targetID = actor.ID
	}
	return s.notes.List(ctx, targetID)
}

func (s *ManagerNoteService) Create(ctx context.Context, req CreateManagerNoteRequest, actor Actor) (*entity.ManagerNote, error) {
	if actor.Role != entity.RoleManager {
		return nil, fmt.Errorf("%w: only managers can send notes", ErrForbidden)
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, invalid("title and content are required")
	}
	target, err := s.users.FindByID(ctx, req.TargetEmployeeID)
	if err != nil {
		return nil, missing(err, "Employee")
	}
	note := &entity.ManagerNote{
		ID:                 newID(),
		Title:              title,
		Content:            content,
		TargetEmployeeID:   target.ID,
		TargetEmployeeName: target.FullName,
		CreatedBy:          actor.ID,
		CreatedByName:      actor.DisplayName(),
		CreatedAt:          time.Now(),
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create manager note: %w", err)
	}
	s.hub.PublishManagerNote(target.ID, note.ID)
	return note, nil
}

// MarkRead can only be done by the note's target.
func (s *ManagerNoteService) MarkRead(ctx context.Context, id string, actor Actor) (*entity.ManagerNote, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "Note")
	}
	if note.TargetEmployeeID != actor.ID {
		return nil, fmt.Errorf("%w: only the recipient can mark this note as read", ErrForbidden)
	}
	if note.IsRead {
		return note, nil
	}
	if err := s.notes.MarkRead(ctx, id); err != nil {
		return nil, missing(err, "Note")
	}
	note.IsRead = true
	return note, nil
}

func (s *ManagerNoteService) Delete(ctx context.Context, id string, actor Actor) error {
	if actor.Role != entity.RoleManager {
		return fmt.Errorf("%w: only managers can delete notes", ErrForbidden)
	}
	return missing(s.notes.Delete(ctx, id), "Note")
}
