// Package web serves the server-rendered pages of the assistant.
package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	v1mware "github.com/deepgram/assistant/internal/api/v1/middleware"
	"github.com/deepgram/assistant/internal/config"
	domain "github.com/deepgram/assistant/internal/domain/conversation"
	"github.com/deepgram/assistant/internal/domain/dashboard"
	"github.com/deepgram/assistant/internal/domain/generation"
	"github.com/deepgram/assistant/internal/domain/shell"
	"github.com/deepgram/assistant/internal/services"
	"github.com/deepgram/assistant/internal/services/chat"
	"github.com/deepgram/assistant/internal/services/conversation"
	dashboardsvc "github.com/deepgram/assistant/internal/services/dashboard"
	generationsvc "github.com/deepgram/assistant/internal/services/generation"
	"github.com/deepgram/assistant/internal/services/session"
	"github.com/deepgram/assistant/pkg/validation"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// toasts that survive a redirect, keyed by query value.
var redirectToasts = map[string]shell.Toast{
	"response-complete": shell.ToastResponseComplete,
}

type Handler struct {
	conversations *conversation.Service
	generator     *generationsvc.Service
	dashboard     *dashboardsvc.Service
	renderer      *renderer
}

func NewHandler(svcs *services.Services) (*Handler, error) {
	rd, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &Handler{
		conversations: svcs.GetConversationService(),
		generator:     svcs.GetGenerationService(),
		dashboard:     svcs.GetDashboardService(),
		renderer:      rd,
	}, nil
}

// RegisterRoutes mounts the pages. Every page runs inside a session so the
// chat, output buffer and tasks persist across requests.
func RegisterRoutes(router *mux.Router, svcs *services.Services) error {
	h, err := NewHandler(svcs)
	if err != nil {
		return err
	}

	pages := router.NewRoute().Subrouter()
	limits := svcs.GetRateLimits()
	pages.Use(v1mware.EnsureSession(svcs.GetSessionService(), limits.For(config.RateLimitSession)))

	pages.HandleFunc("/", h.HandleHome).Methods("GET")
	pages.HandleFunc("/chat", h.HandleChat).Methods("GET")
	pages.Handle("/chat", v1mware.RateLimit(config.RateLimitChatCompletion, limits)(http.HandlerFunc(h.HandleChatSubmit))).Methods("POST")
	pages.HandleFunc("/chat/new", h.HandleNewChat).Methods("POST")
	pages.HandleFunc("/create", h.HandleCreate).Methods("GET")
	pages.Handle("/create", v1mware.RateLimit(config.RateLimitGenerate, limits)(http.HandlerFunc(h.HandleCreateSubmit))).Methods("POST")
	pages.HandleFunc("/assistant", h.HandleAssistant).Methods("GET")
	pages.HandleFunc("/assistant/tasks", h.HandleAddTask).Methods("POST")
	pages.HandleFunc("/assistant/tasks/{id}/delete", h.HandleDeleteTask).Methods("POST")
	return nil
}

func sessionID(r *http.Request) string {
	if claims, ok := session.FromContext(r.Context()); ok {
		return claims.SessionID
	}
	return ""
}

type homeData struct {
	Suggestions []string
}

func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	v := newView(r, shell.TabHome, homeData{Suggestions: shell.HomeSuggestions})
	h.renderer.render(w, http.StatusOK, "home", v)
}

type chatData struct {
	Messages    []domain.Message
	Suggestions []string
	// Partial is the content streamed before a failure.
	Partial string
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	v, err := h.chatView(r.Context(), r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load conversation")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if toast, ok := redirectToasts[r.URL.Query().Get("toast")]; ok {
		v.Toast = &toast
	}
	h.renderer.render(w, http.StatusOK, "chat", v)
}

func (h *Handler) chatView(ctx context.Context, r *http.Request) (*view, error) {
	messages, err := h.conversations.Messages(ctx, sessionID(r))
	if err != nil {
		return nil, err
	}
	return newView(r, shell.TabChat, &chatData{
		Messages:    messages,
		Suggestions: shell.ChatSuggestions(),
	}), nil
}

// HandleChatSubmit sends the message and waits for the full reply before
// redirecting back to the conversation.
func (h *Handler) HandleChatSubmit(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("message")

	var failure conversation.Event
	err := h.conversations.Submit(r.Context(), sessionID(r), text, func(e conversation.Event) error {
		if e.Type == conversation.EventError {
			failure = e
		}
		return nil
	})
	if err == nil {
		http.Redirect(w, r, "/chat?toast=response-complete", http.StatusSeeOther)
		return
	}

	v, loadErr := h.chatView(r.Context(), r)
	if loadErr != nil {
		log.Error().Err(loadErr).Msg("Failed to load conversation")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case domain.IsValidationError(err):
		status = http.StatusBadRequest
		v.Error = "Please enter a message."
	case errors.Is(err, domain.ErrBusy):
		status = http.StatusConflict
		v.Error = "A response is already in progress."
	case chat.IsProviderError(err):
		status = http.StatusBadGateway
		v.Error = failure.Error
		v.Data.(*chatData).Partial = failure.Partial
	case errors.Is(err, conversation.ErrCanceled):
		status = http.StatusOK
		v.Error = "The response was canceled."
	default:
		log.Error().Err(err).Msg("Chat submission failed")
		v.Error = "Something went wrong. Please try again."
	}
	h.renderer.render(w, status, "chat", v)
}

func (h *Handler) HandleNewChat(w http.ResponseWriter, r *http.Request) {
	if err := h.conversations.Reset(r.Context(), sessionID(r)); err != nil {
		log.Error().Err(err).Msg("Failed to reset conversation")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

type createData struct {
	ContentTypes []generation.Option
	Tones        []generation.Option
	Templates    []generation.Template
	MinLength    int
	MaxLength    int
	LengthStep   int
	Params       generation.Params
	Output       *generationsvc.Result
}

func (h *Handler) createView(r *http.Request, params generation.Params) *view {
	output, err := h.generator.Output(r.Context(), sessionID(r))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load generated content")
	}

	return newView(r, shell.TabCreate, &createData{
		ContentTypes: generation.ContentTypes,
		Tones:        generation.Tones,
		Templates:    generation.Templates,
		MinLength:    generation.MinLength,
		MaxLength:    generation.MaxLength,
		LengthStep:   generation.LengthStep,
		Params:       params,
		Output:       output,
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	params := generation.DefaultParams()
	if i, err := strconv.Atoi(r.URL.Query().Get("template")); err == nil && i >= 0 && i < len(generation.Templates) {
		params.Topic = generation.Templates[i].Prompt
	}
	h.renderer.render(w, http.StatusOK, "create", h.createView(r, params))
}

func paramsFromForm(r *http.Request) generation.Params {
	length, _ := strconv.Atoi(r.FormValue("length"))
	return generation.Params{
		ContentType:     generation.ContentType(r.FormValue("content_type")),
		Topic:           r.FormValue("topic"),
		Tone:            generation.Tone(r.FormValue("tone")),
		Length:          length,
		IncludeKeywords: r.FormValue("include_keywords") == "true",
		Keywords:        r.FormValue("keywords"),
	}
}

func (h *Handler) HandleCreateSubmit(w http.ResponseWriter, r *http.Request) {
	params := paramsFromForm(r)

	_, err := h.generator.Generate(r.Context(), sessionID(r), params)
	v := h.createView(r, params.WithDefaults())
	if err == nil {
		toast := shell.ToastContentGenerated
		v.Toast = &toast
		h.renderer.render(w, http.StatusOK, "create", v)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case validation.IsError(err):
		status = http.StatusBadRequest
		v.Error = err.Error()
	case chat.IsProviderError(err):
		status = http.StatusBadGateway
		v.Error = "The content could not be generated. Please try again."
	default:
		log.Error().Err(err).Msg("Content generation failed")
		v.Error = "Something went wrong. Please try again."
	}
	h.renderer.render(w, status, "create", v)
}

type assistantData struct {
	Query     string
	Tasks     []dashboard.TaskView
	Reminders []dashboard.ReminderView
	Emails    []dashboard.EmailView
	NewTask   dashboard.NewTask
}

func (h *Handler) assistantView(r *http.Request, input dashboard.NewTask) (*view, error) {
	q := r.URL.Query().Get("q")
	tasks, err := h.dashboard.ListTasks(r.Context(), sessionID(r), q)
	if err != nil {
		return nil, err
	}

	return newView(r, shell.TabAssistant, &assistantData{
		Query:     q,
		Tasks:     dashboard.TaskViews(tasks),
		Reminders: dashboard.ReminderViews(h.dashboard.ListReminders(q)),
		Emails:    dashboard.EmailViews(h.dashboard.ListEmails(q)),
		NewTask:   input,
	}), nil
}

func (h *Handler) HandleAssistant(w http.ResponseWriter, r *http.Request) {
	v, err := h.assistantView(r, dashboard.NewTask{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to load dashboard")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.renderer.render(w, http.StatusOK, "assistant", v)
}

func (h *Handler) HandleAddTask(w http.ResponseWriter, r *http.Request) {
	input := dashboard.NewTask{
		Title:       r.FormValue("title"),
		DueDate:     r.FormValue("due_date"),
		Priority:    dashboard.Priority(r.FormValue("priority")),
		Description: r.FormValue("description"),
	}

	_, err := h.dashboard.CreateTask(r.Context(), sessionID(r), input)
	if err == nil {
		http.Redirect(w, r, "/assistant", http.StatusSeeOther)
		return
	}

	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again."
	if validation.IsError(err) {
		status = http.StatusBadRequest
		message = err.Error()
	} else {
		log.Error().Err(err).Msg("Failed to create task")
	}

	v, loadErr := h.assistantView(r, input)
	if loadErr != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	v.Error = message
	h.renderer.render(w, status, "assistant", v)
}

func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	err = h.dashboard.DeleteTask(r.Context(), sessionID(r), id)
	if err != nil && !errors.Is(err, dashboardsvc.ErrTaskNotFound) {
		log.Error().Err(err).Int("task_id", id).Msg("Failed to delete task")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/assistant", http.StatusSeeOther)
}
