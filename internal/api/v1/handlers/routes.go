package handlers

import (
	"net/http"

	v1conversation "github.com/deepgram/assistant/internal/api/v1/handlers/conversation"
	v1dashboard "github.com/deepgram/assistant/internal/api/v1/handlers/dashboard"
	v1generate "github.com/deepgram/assistant/internal/api/v1/handlers/generate"
	v1mware "github.com/deepgram/assistant/internal/api/v1/middleware"
	"github.com/deepgram/assistant/internal/config"
	"github.com/deepgram/assistant/internal/services"
	"github.com/gorilla/mux"
)

func RegisterV1Routes(router *mux.Router, services *services.Services) {
	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()

	// Public v1 routes (no session required)
	v1publicRouter := v1.NewRoute().Subrouter()
	v1publicRouter.HandleFunc("/shell", HandleShell).Methods("GET")
	v1publicRouter.HandleFunc("/generate/options", v1generate.HandleOptions).Methods("GET")
	v1publicRouter.HandleFunc("/generate/templates", v1generate.HandleTemplates).Methods("GET")

	// Session bootstrap, creates the cookie when missing
	v1sessionRouter := v1.NewRoute().Subrouter()
	limits := services.GetRateLimits()
	v1sessionRouter.Use(v1mware.EnsureSession(services.GetSessionService(), limits.For(config.RateLimitSession)))
	v1sessionRouter.Handle("/session", v1mware.RateLimit(config.RateLimitSession, limits)(http.HandlerFunc(HandleSession))).Methods("GET")

	// Protected v1 routes (require session)
	v1protectedRouter := v1.NewRoute().Subrouter()
	v1protectedRouter.Use(v1mware.RequireSession(services.GetSessionService()))

	// Conversation routes
	conversationService := services.GetConversationService()
	v1conversationRouter := v1protectedRouter.PathPrefix("/conversation").Subrouter()
	v1conversationRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		v1conversation.HandleGetConversation(conversationService, w, r)
	}).Methods("GET")
	v1conversationRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		v1conversation.HandleReset(conversationService, w, r)
	}).Methods("DELETE")
	v1conversationRouter.Handle("/messages", v1mware.RateLimit(config.RateLimitChatCompletion, limits)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1conversation.HandleSubmitMessage(conversationService, w, r)
	}))).Methods("POST")
	v1conversationRouter.HandleFunc("/cancel", func(w http.ResponseWriter, r *http.Request) {
		v1conversation.HandleCancel(conversationService, w, r)
	}).Methods("POST")
	v1conversationRouter.HandleFunc("/messages/{id}/raw", func(w http.ResponseWriter, r *http.Request) {
		v1conversation.HandleRawMessage(conversationService, w, r)
	}).Methods("GET")
	v1conversationRouter.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		v1conversation.HandleWebSocket(conversationService, services.GetConnectionManager(), w, r)
	}).Methods("GET")

	// Generation routes
	generationService := services.GetGenerationService()
	v1generateRouter := v1protectedRouter.PathPrefix("/generate").Subrouter()
	v1generateRouter.Handle("", v1mware.RateLimit(config.RateLimitGenerate, limits)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1generate.HandleGenerate(generationService, w, r)
	}))).Methods("POST")
	v1generateRouter.HandleFunc("/output", func(w http.ResponseWriter, r *http.Request) {
		v1generate.HandleOutput(generationService, w, r)
	}).Methods("GET")

	// Dashboard routes
	dashboardService := services.GetDashboardService()
	v1dashboardRouter := v1protectedRouter.PathPrefix("/dashboard").Subrouter()
	v1dashboardRouter.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		v1dashboard.HandleListTasks(dashboardService, w, r)
	}).Methods("GET")
	v1dashboardRouter.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		v1dashboard.HandleCreateTask(dashboardService, w, r)
	}).Methods("POST")
	v1dashboardRouter.HandleFunc("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		v1dashboard.HandleDeleteTask(dashboardService, w, r)
	}).Methods("DELETE")
	v1dashboardRouter.HandleFunc("/reminders", func(w http.ResponseWriter, r *http.Request) {
		v1dashboard.HandleListReminders(dashboardService, w, r)
	}).Methods("GET")
	v1dashboardRouter.HandleFunc("/emails", func(w http.ResponseWriter, r *http.Request) {
		v1dashboard.HandleListEmails(dashboardService, w, r)
	}).Methods("GET")
}
