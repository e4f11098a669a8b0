package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/PSilyDev/survease/internal/service"
	"github.com/PSilyDev/survease/internal/transport/rest/handler"
	"github.com/PSilyDev/survease/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	SurveyService    *service.SurveyService
	ResponseService  *service.ResponseService
	AnalyticsService *service.AnalyticsService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Public routes
	r.HandleFunc("/auth-api/login", authHandler.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/survey-api/public", surveyHandler.Public).Methods("GET", "OPTIONS")
	r.HandleFunc("/survey-api/share/{shareId}", surveyHandler.ResolveShare).Methods("GET", "OPTIONS")
	r.HandleFunc("/response-api/response", responseHandler.Submit).Methods("POST", "OPTIONS")

	// Admin routes (require admin auth)
	adminRoutes := r.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/survey-api/createSurvey", surveyHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/survey-api/replaceSurvey", surveyHandler.Replace).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/survey-api/survey", surveyHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/survey-api/publish", surveyHandler.Publish).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/response-api/responses", responseHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/response-api/response/{id}", responseHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/analytics-api/aggregate", analyticsHandler.Aggregate).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/analytics-api/catalog", analyticsHandler.Catalog).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/analytics-api/export.csv", analyticsHandler.ExportCSV).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
