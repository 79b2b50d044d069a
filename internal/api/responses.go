package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/program-builder/internal/builder"
	"alcyxob/program-builder/internal/domain"
	"alcyxob/program-builder/internal/service"
)

// --- Shared DTOs ---

type SessionResponse struct {
	ID            string                 `json:"id"`
	ProgramID     string                 `json:"programId,omitempty"`
	Program       domain.Program         `json:"program"`
	Selection     builder.Selection      `json:"selection"`
	Notifications []builder.Notification `json:"notifications"`
}

// errorWithSession is returned when an edit failed but the session is still
// usable, so the client can redraw the unchanged tree.
type errorWithSession struct {
	Error   string          `json:"error"`
	Session SessionResponse `json:"session"`
}

type ProgramSummaryResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Status       domain.ProgramStatus `json:"status"`
	WorkoutCount int                  `json:"workoutCount"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

type PageResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func MapSessionToResponse(view *service.SessionView) SessionResponse {
	notes := view.Notifications
	if notes == nil {
		notes = []builder.Notification{}
	}
	return SessionResponse{
		ID:            view.ID,
		ProgramID:     view.ProgramID,
		Program:       view.Program,
		Selection:     view.Selection,
		Notifications: notes,
	}
}

func MapProgramRecordToSummary(record *domain.ProgramRecord) ProgramSummaryResponse {
	return ProgramSummaryResponse{
		ID:           record.ID.Hex(),
		Name:         record.Name,
		Status:       record.Status,
		WorkoutCount: len(record.AllocatedWorkouts),
		UpdatedAt:    record.UpdatedAt,
	}
}

// statusForError maps service and builder errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrNoSnapshot),
		errors.Is(err, builder.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrProgramAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrProgramInvalid),
		errors.Is(err, service.ErrUnknownTemplateKind),
		errors.Is(err, builder.ErrInvalidPath),
		errors.Is(err, builder.ErrInvalidValue),
		errors.Is(err, builder.ErrDuplicateID):
		return http.StatusBadRequest
	case errors.Is(err, builder.ErrTypeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrArchiveUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts with the status matching err. Internal errors are
// logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, code, "Internal server error")
		return
	}
	abortWithError(c, code, err.Error())
}

// respondSession writes the view, or the error alongside the view when the
// edit was rejected.
func respondSession(c *gin.Context, successCode int, view *service.SessionView, err error) {
	if err == nil {
		c.JSON(successCode, MapSessionToResponse(view))
		return
	}
	if view == nil {
		respondError(c, err)
		return
	}
	code := statusForError(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "Internal server error"
	}
	c.AbortWithStatusJSON(code, errorWithSession{Error: msg, Session: MapSessionToResponse(view)})
}
