package generate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deepgram/assistant/internal/domain/generation"
	"github.com/deepgram/assistant/internal/domain/shell"
	"github.com/deepgram/assistant/internal/services/chat"
	generationsvc "github.com/deepgram/assistant/internal/services/generation"
	"github.com/deepgram/assistant/internal/services/session"
	"github.com/deepgram/assistant/pkg/httpext"
	"github.com/deepgram/assistant/pkg/validation"
	"github.com/rs/zerolog/log"
)

// LengthRange describes the length slider.
type LengthRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Step    int `json:"step"`
	Default int `json:"default"`
}

type OptionsResponse struct {
	ContentTypes []generation.Option `json:"content_types"`
	Tones        []generation.Option `json:"tones"`
	Length       LengthRange         `json:"length"`
	Defaults     generation.Params   `json:"defaults"`
}

type GenerateResponse struct {
	*generationsvc.Result
	Toast shell.Toast `json:"toast"`
}

// HandleOptions returns the selectable form values and their defaults.
func HandleOptions(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, OptionsResponse{
		ContentTypes: generation.ContentTypes,
		Tones:        generation.Tones,
		Length: LengthRange{
			Min:     generation.MinLength,
			Max:     generation.MaxLength,
			Step:    generation.LengthStep,
			Default: generation.DefaultLength,
		},
		Defaults: generation.DefaultParams(),
	})
}

func HandleTemplates(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, generation.Templates)
}

// HandleGenerate runs one generation and replaces the session's output.
func HandleGenerate(svc *generationsvc.Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		httpext.JsonError(w, "No active session", http.StatusUnauthorized)
		return
	}

	var params generation.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	result, err := svc.Generate(r.Context(), claims.SessionID, params)
	if err != nil {
		writeError(w, err)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, GenerateResponse{
		Result: result,
		Toast:  shell.ToastContentGenerated,
	})
}

// HandleOutput returns the session's current output buffer.
func HandleOutput(svc *generationsvc.Service, w http.ResponseWriter, r *http.Request) {
	claims, ok := session.FromContext(r.Context())
	if !ok {
		httpext.JsonError(w, "No active session", http.StatusUnauthorized)
		return
	}

	result, err := svc.Output(r.Context(), claims.SessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", claims.SessionID).Msg("Failed to load generated content")
		httpext.JsonError(w, "Failed to load generated content", http.StatusInternalServerError)
		return
	}
	if result == nil {
		httpext.JsonError(w, "No content generated yet", http.StatusNotFound)
		return
	}

	httpext.JsonResponse(w, http.StatusOK, result)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case validation.IsError(err):
		var ve *validation.Error
		errors.As(err, &ve)
		httpext.JsonErrorWithDetails(w, http.StatusBadRequest, httpext.ErrorResponse{
			Error: err.Error(),
			Field: ve.Field,
		})
	case chat.IsProviderError(err):
		httpext.JsonErrorWithDetails(w, http.StatusBadGateway, httpext.ErrorResponse{
			Error:     "Content generation failed",
			Details:   "The content could not be generated. Please try again.",
			Retryable: true,
		})
	default:
		log.Error().Err(err).Msg("Content generation failed")
		httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
	}
}
