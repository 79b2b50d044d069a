package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alcyxob/program-builder/internal/repository"
	"alcyxob/program-builder/internal/service"
)

// TemplateHandler serves the workout and exercise libraries.
type TemplateHandler struct {
	templateService service.TemplateService
}

func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// ListWorkoutTemplates godoc
// @Summary List workout templates
// @Description Searches the workout library by name. Exercises are not included.
// @Tags Templates
// @Produce json
// @Param search query string false "Case-insensitive name filter"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Items per page"
// @Success 200 {object} PageResponse
// @Failure 400 {object} gin.H
// @Failure 401 {object} gin.H
// @Failure 500 {object} gin.H
// @Router /templates/workouts [get]
// @Security BearerAuth
func (h *TemplateHandler) ListWorkoutTemplates(c *gin.Context) {
	h.list(c, service.TemplateWorkouts)
}

// ListExerciseTemplates godoc
// @Summary List exercise templates
// @Tags Templates
// @Produce json
// @Param search query string false "Case-insensitive name filter"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Items per page"
// @Success 200 {object} PageResponse
// @Failure 400 {object} gin.H
// @Failure 401 {object} gin.H
// @Failure 500 {object} gin.H
// @Router /templates/exercises [get]
// @Security BearerAuth
func (h *TemplateHandler) ListExerciseTemplates(c *gin.Context) {
	h.list(c, service.TemplateExercises)
}

func (h *TemplateHandler) list(c *gin.Context, kind service.TemplateKind) {
	page, err := pageFromQuery(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := repository.TemplateFilter{Search: c.Query("search")}
	result, err := h.templateService.Search(c.Request.Context(), kind, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}

	var items interface{}
	if kind == service.TemplateWorkouts {
		items = nonNil(result.Workouts)
	} else {
		items = nonNil(result.Exercises)
	}
	c.JSON(http.StatusOK, PageResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page.Current,
		PageSize: result.Page.PageSize,
	})
}

// pageFromQuery reads page and pageSize. Missing values stay zero and are
// defaulted by the service.
func pageFromQuery(c *gin.Context) (repository.Page, error) {
	var page repository.Page
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, errInvalidQuery("page")
		}
		page.Current = n
	}
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, errInvalidQuery("pageSize")
		}
		page.PageSize = n
	}
	return page, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

type errInvalidQuery string

func (e errInvalidQuery) Error() string {
	return "Invalid query parameter: " + string(e)
}
