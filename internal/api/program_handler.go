package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/program-builder/internal/builder"
	"alcyxob/program-builder/internal/domain"
	"alcyxob/program-builder/internal/service"
)

// ProgramHandler exposes editing sessions and saved programs.
type ProgramHandler struct {
	programService service.ProgramService
	maxPageSize    int
}

func NewProgramHandler(programService service.ProgramService, maxPageSize int) *ProgramHandler {
	return &ProgramHandler{programService: programService, maxPageSize: maxPageSize}
}

// --- DTOs ---

type OpenSessionRequest struct {
	ProgramID string `json:"programId"` // Empty starts a new program
}

type UpdateDetailsRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	Description  *string `json:"description"`
	DurationDays *int    `json:"durationDays" binding:"omitempty,gt=0"`
	RotationDays *int    `json:"rotationDays" binding:"omitempty,gt=0"`
	Status       *string `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type AddTemplateRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
}

type UpdateWorkoutRequest struct {
	Note *string `json:"note"`
}

type UpdateExerciseRequest struct {
	Notes *string `json:"notes"`
}

type AddSetRequest struct {
	Type      *string  `json:"type" binding:"omitempty,oneof=REPS DURATION"`
	Value     *float64 `json:"value"`
	BreakTime *float64 `json:"breakTime"`
}

type UpdateSetRequest struct {
	Type           *string  `json:"type" binding:"omitempty,oneof=REPS DURATION"`
	Value          *float64 `json:"value"`
	BreakTime      *float64 `json:"breakTime"`
	ClearBreakTime bool     `json:"clearBreakTime"`
}

type DragRequest struct {
	DraggedID          string `json:"draggedId" binding:"required"`
	DraggedContainerID string `json:"draggedContainerId" binding:"required"`
	TargetID           string `json:"targetId"`
	TargetContainerID  string `json:"targetContainerId"`
}

type DragResponse struct {
	Kind    builder.MoveKind `json:"kind"`
	Session SessionResponse  `json:"session"`
}

// SelectionRequest moves the selection. An exercise id wins over a workout
// id; an explicit empty string clears that level.
type SelectionRequest struct {
	WorkoutID  *string `json:"workoutId"`
	ExerciseID *string `json:"exerciseId"`
}

type ExportResponse struct {
	URL string `json:"url"`
}

// ownerOrAbort reads the token subject; it writes the error response itself.
func ownerOrAbort(c *gin.Context) (string, bool) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return "", false
	}
	return ownerID, true
}

func bindOrAbort(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// edit runs fn against the session named in the path and writes the result.
func (h *ProgramHandler) edit(c *gin.Context, fn service.EditFunc) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	view, err := h.programService.Edit(ownerID, c.Param("sessionId"), fn)
	respondSession(c, http.StatusOK, view, err)
}

// OpenSession godoc
// @Summary Open an editing session
// @Description Starts editing a new program, or a saved one when programId is given.
// @Tags Programs
// @Accept json
// @Produce json
// @Param session body OpenSessionRequest false "Program to load"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H
// @Failure 403 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /programs/sessions [post]
// @Security BearerAuth
func (h *ProgramHandler) OpenSession(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req OpenSessionRequest
	if c.Request.ContentLength != 0 && !bindOrAbort(c, &req) {
		return
	}

	view, err := h.programService.OpenSession(c.Request.Context(), ownerID, req.ProgramID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(view))
}

// GetSession godoc
// @Summary Get an editing session
// @Tags Programs
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId} [get]
// @Security BearerAuth
func (h *ProgramHandler) GetSession(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	view, err := h.programService.GetSession(ownerID, c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(view))
}

// CloseSession godoc
// @Summary Discard an editing session
// @Tags Programs
// @Param sessionId path string true "Session ID"
// @Success 204
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId} [delete]
// @Security BearerAuth
func (h *ProgramHandler) CloseSession(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	if err := h.programService.CloseSession(ownerID, c.Param("sessionId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateDetails godoc
// @Summary Update program details
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param details body UpdateDetailsRequest true "Fields to change"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/details [patch]
// @Security BearerAuth
func (h *ProgramHandler) UpdateDetails(c *gin.Context) {
	var req UpdateDetailsRequest
	if !bindOrAbort(c, &req) {
		return
	}
	details := builder.Details{
		Name:         req.Name,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		RotationDays: req.RotationDays,
	}
	if req.Status != nil {
		status := domain.ProgramStatus(*req.Status)
		details.Status = &status
	}
	h.edit(c, func(e *builder.Editor) error { return e.UpdateDetails(details) })
}

// AddWorkout godoc
// @Summary Add a workout from a template
// @Description Copies the template's exercises and sets into a new workout at the end of the program.
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workout body AddTemplateRequest true "Workout template"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts [post]
// @Security BearerAuth
func (h *ProgramHandler) AddWorkout(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req AddTemplateRequest
	if !bindOrAbort(c, &req) {
		return
	}
	view, err := h.programService.AddWorkout(c.Request.Context(), ownerID, c.Param("sessionId"), req.TemplateID)
	respondSession(c, http.StatusCreated, view, err)
}

// UpdateWorkout godoc
// @Summary Update an allocated workout
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workoutId path string true "Allocated workout ID"
// @Param workout body UpdateWorkoutRequest true "Fields to change"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts/{workoutId} [patch]
// @Security BearerAuth
func (h *ProgramHandler) UpdateWorkout(c *gin.Context) {
	var req UpdateWorkoutRequest
	if !bindOrAbort(c, &req) {
		return
	}
	workoutID := c.Param("workoutId")
	h.edit(c, func(e *builder.Editor) error {
		return e.UpdateWorkout(workoutID, builder.WorkoutPatch{Note: req.Note})
	})
}

// DeleteWorkout godoc
// @Summary Remove an allocated workout
// @Tags Programs
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workoutId path string true "Allocated workout ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts/{workoutId} [delete]
// @Security BearerAuth
func (h *ProgramHandler) DeleteWorkout(c *gin.Context) {
	workoutID := c.Param("workoutId")
	h.edit(c, func(e *builder.Editor) error { return e.DeleteWorkout(workoutID) })
}

// AddExercise godoc
// @Summary Add an exercise to a workout
// @Description The new exercise gets one default set and becomes selected when its workout is.
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workoutId path string true "Allocated workout ID"
// @Param exercise body AddTemplateRequest true "Exercise template"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts/{workoutId}/exercises [post]
// @Security BearerAuth
func (h *ProgramHandler) AddExercise(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req AddTemplateRequest
	if !bindOrAbort(c, &req) {
		return
	}
	view, err := h.programService.AddExercise(c.Request.Context(), ownerID, c.Param("sessionId"), c.Param("workoutId"), req.TemplateID)
	respondSession(c, http.StatusCreated, view, err)
}

// UpdateExercise godoc
// @Summary Update an allocated exercise
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workoutId path string true "Allocated workout ID"
// @Param exerciseId path string true "Allocated exercise ID"
// @Param exercise body UpdateExerciseRequest true "Fields to change"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts/{workoutId}/exercises/{exerciseId} [patch]
// @Security BearerAuth
func (h *ProgramHandler) UpdateExercise(c *gin.Context) {
	var req UpdateExerciseRequest
	if !bindOrAbort(c, &req) {
		return
	}
	workoutID, exerciseID := c.Param("workoutId"), c.Param("exerciseId")
	h.edit(c, func(e *builder.Editor) error {
		return e.UpdateExercise(workoutID, exerciseID, builder.ExercisePatch{Notes: req.Notes})
	})
}

// DeleteExercise godoc
// @Summary Remove an allocated exercise
// @Tags Programs
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workoutId path string true "Allocated workout ID"
// @Param exerciseId path string true "Allocated exercise ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts/{workoutId}/exercises/{exerciseId} [delete]
// @Security BearerAuth
func (h *ProgramHandler) DeleteExercise(c *gin.Context) {
	workoutID, exerciseID := c.Param("workoutId"), c.Param("exerciseId")
	h.edit(c, func(e *builder.Editor) error { return e.DeleteExercise(workoutID, exerciseID) })
}

// AddSet godoc
// @Summary Append a set to an exercise
// @Description An empty body appends a default REPS set with a 60 second break.
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workoutId path string true "Allocated workout ID"
// @Param exerciseId path string true "Allocated exercise ID"
// @Param set body AddSetRequest false "Set values"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts/{workoutId}/exercises/{exerciseId}/sets [post]
// @Security BearerAuth
func (h *ProgramHandler) AddSet(c *gin.Context) {
	var req AddSetRequest
	if c.Request.ContentLength != 0 && !bindOrAbort(c, &req) {
		return
	}

	var set *domain.Set
	if req.Type != nil || req.Value != nil || req.BreakTime != nil {
		set = &domain.Set{Type: domain.SetTypeReps, BreakTime: req.BreakTime}
		if req.Type != nil {
			set.Type = domain.SetType(*req.Type)
		}
		if req.Value != nil {
			set.Value = *req.Value
		}
	}

	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	workoutID, exerciseID := c.Param("workoutId"), c.Param("exerciseId")
	view, err := h.programService.Edit(ownerID, c.Param("sessionId"), func(e *builder.Editor) error {
		_, err := e.AddSet(workoutID, exerciseID, set)
		return err
	})
	respondSession(c, http.StatusCreated, view, err)
}

// UpdateSet godoc
// @Summary Update a set
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workoutId path string true "Allocated workout ID"
// @Param exerciseId path string true "Allocated exercise ID"
// @Param setId path string true "Set ID"
// @Param set body UpdateSetRequest true "Fields to change"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts/{workoutId}/exercises/{exerciseId}/sets/{setId} [patch]
// @Security BearerAuth
func (h *ProgramHandler) UpdateSet(c *gin.Context) {
	var req UpdateSetRequest
	if !bindOrAbort(c, &req) {
		return
	}
	patch := builder.SetPatch{Value: req.Value, BreakTime: req.BreakTime, ClearBreakTime: req.ClearBreakTime}
	if req.Type != nil {
		setType := domain.SetType(*req.Type)
		patch.Type = &setType
	}
	workoutID, exerciseID, setID := c.Param("workoutId"), c.Param("exerciseId"), c.Param("setId")
	h.edit(c, func(e *builder.Editor) error { return e.UpdateSet(workoutID, exerciseID, setID, patch) })
}

// RemoveSet godoc
// @Summary Remove a set
// @Tags Programs
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param workoutId path string true "Allocated workout ID"
// @Param exerciseId path string true "Allocated exercise ID"
// @Param setId path string true "Set ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/workouts/{workoutId}/exercises/{exerciseId}/sets/{setId} [delete]
// @Security BearerAuth
func (h *ProgramHandler) RemoveSet(c *gin.Context) {
	workoutID, exerciseID, setID := c.Param("workoutId"), c.Param("exerciseId"), c.Param("setId")
	h.edit(c, func(e *builder.Editor) error { return e.RemoveSet(workoutID, exerciseID, setID) })
}

// Drag godoc
// @Summary Apply a drag-and-drop gesture
// @Description Reorders within a container or transfers an exercise or set to another parent. Drops that cannot apply leave the tree unchanged and report kind "none".
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param drag body DragRequest true "Drag event"
// @Success 200 {object} DragResponse
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/drag [post]
// @Security BearerAuth
func (h *ProgramHandler) Drag(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req DragRequest
	if !bindOrAbort(c, &req) {
		return
	}

	ev := builder.DragEvent{
		DraggedID:          req.DraggedID,
		DraggedContainerID: req.DraggedContainerID,
		TargetID:           req.TargetID,
		TargetContainerID:  req.TargetContainerID,
	}
	var plan builder.MovePlan
	view, err := h.programService.Edit(ownerID, c.Param("sessionId"), func(e *builder.Editor) error {
		var err error
		plan, err = e.Drag(ev)
		return err
	})
	// An incompatible drop is a no-op for the client, not a failure.
	if err != nil && view != nil && statusForError(err) == http.StatusUnprocessableEntity {
		c.JSON(http.StatusOK, DragResponse{Kind: builder.MoveNone, Session: MapSessionToResponse(view)})
		return
	}
	if err != nil {
		respondSession(c, http.StatusOK, view, err)
		return
	}
	c.JSON(http.StatusOK, DragResponse{Kind: plan.Kind, Session: MapSessionToResponse(view)})
}

// Select godoc
// @Summary Change the selection
// @Tags Programs
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param selection body SelectionRequest true "Workout and/or exercise to select"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H
// @Router /programs/sessions/{sessionId}/selection [put]
// @Security BearerAuth
func (h *ProgramHandler) Select(c *gin.Context) {
	var req SelectionRequest
	if !bindOrAbort(c, &req) {
		return
	}
	h.edit(c, func(e *builder.Editor) error {
		switch {
		case req.ExerciseID != nil && *req.ExerciseID != "":
			return e.SelectExercise(*req.ExerciseID)
		case req.WorkoutID != nil:
			if err := e.SelectWorkout(*req.WorkoutID); err != nil {
				return err
			}
			if req.ExerciseID != nil {
				return e.SelectExercise("")
			}
		case req.ExerciseID != nil:
			return e.SelectExercise("")
		}
		return nil
	})
}

// Save godoc
// @Summary Save the program
// @Description Creates the program on first save and updates it afterwards. A JSON snapshot is archived when storage is configured.
// @Tags Programs
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Program failed validation"
// @Failure 404 {object} gin.H
// @Failure 500 {object} gin.H
// @Router /programs/sessions/{sessionId}/save [post]
// @Security BearerAuth
func (h *ProgramHandler) Save(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	view, err := h.programService.Save(c.Request.Context(), ownerID, c.Param("sessionId"))
	respondSession(c, http.StatusOK, view, err)
}

// ListPrograms godoc
// @Summary List saved programs
// @Tags Programs
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Items per page"
// @Success 200 {object} PageResponse
// @Failure 400 {object} gin.H
// @Failure 500 {object} gin.H
// @Router /programs [get]
// @Security BearerAuth
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	page, err := pageFromQuery(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	page = service.NormalizePage(page, h.maxPageSize)

	records, total, err := h.programService.ListPrograms(c.Request.Context(), ownerID, page)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]ProgramSummaryResponse, 0, len(records))
	for i := range records {
		summaries = append(summaries, MapProgramRecordToSummary(&records[i]))
	}
	c.JSON(http.StatusOK, PageResponse{Items: summaries, Total: total, Page: page.Current, PageSize: page.PageSize})
}

// ExportProgram godoc
// @Summary Get a download link for the latest snapshot
// @Tags Programs
// @Produce json
// @Param programId path string true "Program ID"
// @Success 200 {object} ExportResponse
// @Failure 403 {object} gin.H
// @Failure 404 {object} gin.H
// @Failure 503 {object} gin.H "Archive storage is not configured"
// @Router /programs/{programId}/export [get]
// @Security BearerAuth
func (h *ProgramHandler) ExportProgram(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	url, err := h.programService.ExportURL(c.Request.Context(), ownerID, c.Param("programId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExportResponse{URL: url})
}
