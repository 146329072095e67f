package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/bahasabuddy/api/internal/api"
	apiMiddleware "github.com/bahasabuddy/api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	r.Use(corsHandler.Handler)

	// Create API handlers using the application's services
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	reviewHandler := api.NewReviewHandler(app.progressService, app.logger)
	lessonHandler := api.NewLessonHandler(app.lessonService, app.logger)
	profileHandler := api.NewProfileHandler(
		app.xpService,
		app.goalService,
		app.achievementStore,
		app.logger,
	)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Card review endpoints
			r.Get("/cards/review", reviewHandler.GetReviewQueue)
			r.Post("/cards/{id}/review", reviewHandler.SubmitReview)
			r.Get("/categories/{id}/progress", reviewHandler.GetCategoryProgress)

			// Lesson progress endpoints
			r.Get("/lessons/next", lessonHandler.GetNextLesson)
			r.Post("/lessons/{id}/start", lessonHandler.StartLesson)
			r.Patch("/lessons/{id}/phrases", lessonHandler.UpdatePhrases)
			r.Post("/lessons/{id}/complete", lessonHandler.CompleteLesson)
			r.Get("/lessons/{id}/progress", lessonHandler.GetLessonProgress)

			// Profile, goal, and achievement endpoints
			r.Get("/profile", profileHandler.GetProfile)
			r.Post("/profile/xp", profileHandler.AwardXP)
			r.Get("/goals/today", profileHandler.GetTodayGoals)
			r.Patch("/goals/today", profileHandler.UpdateTodayGoals)
			r.Get("/achievements", profileHandler.GetAchievements)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
