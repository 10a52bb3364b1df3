package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/deepgram/assistant/internal/domain/dashboard"
	dashboardsvc "github.com/deepgram/assistant/internal/services/dashboard"
	"github.com/deepgram/assistant/internal/services/session"
	"github.com/deepgram/assistant/pkg/httpext"
	"github.com/deepgram/assistant/pkg/validation"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// HandleListTasks returns the session's tasks with their display styles.
// The optional q parameter filters by title and description.
func HandleListTasks(svc *dashboardsvc.Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		httpext.JsonError(w, "No active session", http.StatusUnauthorized)
		return
	}

	tasks, err := svc.ListTasks(r.Context(), claims.SessionID, r.URL.Query().Get("q"))
	if err != nil {
		log.Error().Err(err).Str("session_id", claims.SessionID).Msg("Failed to list tasks")
		httpext.JsonError(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, dashboard.TaskViews(tasks))
}

func HandleCreateTask(svc *dashboardsvc.Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		httpext.JsonError(w, "No active session", http.StatusUnauthorized)
		return
	}

	var input dashboard.NewTask
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	task, err := svc.CreateTask(r.Context(), claims.SessionID, input)
	if validation.IsError(err) {
		httpext.JsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session_id", claims.SessionID).Msg("Failed to create task")
		httpext.JsonError(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	httpext.JsonResponse(w, http.StatusCreated, dashboard.NewTaskView(task))
}

func HandleDeleteTask(svc *dashboardsvc.Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		httpext.JsonError(w, "No active session", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpext.JsonError(w, "Invalid task id", http.StatusBadRequest)
		return
	}

	err = svc.DeleteTask(r.Context(), claims.SessionID, id)
	if errors.Is(err, dashboardsvc.ErrTaskNotFound) {
		httpext.JsonError(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session_id", claims.SessionID).Msg("Failed to delete task")
		httpext.JsonError(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func HandleListReminders(svc *dashboardsvc.Service, w http.ResponseWriter, r *http.Request) {
	reminders := svc.ListReminders(r.URL.Query().Get("q"))
	httpext.JsonResponse(w, http.StatusOK, dashboard.ReminderViews(reminders))
}

func HandleListEmails(svc *dashboardsvc.Service, w http.ResponseWriter, r *http.Request) {
	emails := svc.ListEmails(r.URL.Query().Get("q"))
	httpext.JsonResponse(w, http.StatusOK, dashboard.EmailViews(emails))
}
