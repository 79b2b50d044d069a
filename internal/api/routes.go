package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alcyxob/program-builder/internal/domain" // Needed for RoleMiddleware
	"alcyxob/program-builder/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	maxPageSize int,
	templateService service.TemplateService,
	programService service.ProgramService,
) {
	templateHandler := NewTemplateHandler(templateService)
	programHandler := NewProgramHandler(programService, maxPageSize)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret), RoleMiddleware(domain.RoleCoach, domain.RoleAdmin))
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Template Library ---
		templateGroup := protected.Group("/templates")
		{
			templateGroup.GET("/workouts", templateHandler.ListWorkoutTemplates)
			templateGroup.GET("/exercises", templateHandler.ListExerciseTemplates)
		}

		// --- Saved Programs ---
		programGroup := protected.Group("/programs")
		{
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/:programId/export", programHandler.ExportProgram)
		}

		// --- Editing Sessions ---
		sessionGroup := protected.Group("/programs/sessions")
		{
			sessionGroup.POST("", programHandler.OpenSession)
			sessionGroup.GET("/:sessionId", programHandler.GetSession)
			sessionGroup.DELETE("/:sessionId", programHandler.CloseSession)
			sessionGroup.PATCH("/:sessionId/details", programHandler.UpdateDetails)
			sessionGroup.POST("/:sessionId/drag", programHandler.Drag)
			sessionGroup.PUT("/:sessionId/selection", programHandler.Select)
			sessionGroup.POST("/:sessionId/save", programHandler.Save)

			// Tree edits. Ids are the allocated node ids, not template ids.
			sessionGroup.POST("/:sessionId/workouts", programHandler.AddWorkout)
			sessionGroup.PATCH("/:sessionId/workouts/:workoutId", programHandler.UpdateWorkout)
			sessionGroup.DELETE("/:sessionId/workouts/:workoutId", programHandler.DeleteWorkout)
			sessionGroup.POST("/:sessionId/workouts/:workoutId/exercises", programHandler.AddExercise)
			sessionGroup.PATCH("/:sessionId/workouts/:workoutId/exercises/:exerciseId", programHandler.UpdateExercise)
			sessionGroup.DELETE("/:sessionId/workouts/:workoutId/exercises/:exerciseId", programHandler.DeleteExercise)
			sessionGroup.POST("/:sessionId/workouts/:workoutId/exercises/:exerciseId/sets", programHandler.AddSet)
			sessionGroup.PATCH("/:sessionId/workouts/:workoutId/exercises/:exerciseId/sets/:setId", programHandler.UpdateSet)
			sessionGroup.DELETE("/:sessionId/workouts/:workoutId/exercises/:exerciseId/sets/:setId", programHandler.RemoveSet)
		}
	}
}
