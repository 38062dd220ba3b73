package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"tripreel/internal/domain"
	"tripreel/internal/usecase"
)

// A struct to define the expected JSON request body for the login exchange.
type loginRequest struct {
	APIKey string `json:"api_key"`
}

// loginHandler exchanges the configured admin API key for a session JWT.
// The token is returned in the body and also set as an HttpOnly cookie.
func loginHandler(auth *AuthManager, apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(apiKey)) != 1 {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		token, err := auth.Mint(w)
		if err != nil {
			http.Error(w, "Failed to mint session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(struct {
			Token string `json:"token"`
		}{Token: token})
	}
}

func logoutHandler(auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// statsHandler returns an http.HandlerFunc that serves platform statistics.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		itineraries, jobsByStatus, clips, err := statsUC.Totals(ctx)
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		// Consolidate into a single response struct
		response := struct {
			TotalItineraries int            `json:"total_itineraries"`
			JobsByStatus     map[string]int `json:"jobs_by_status"`
			TotalDayClips    int            `json:"total_day_clips"`
		}{
			TotalItineraries: itineraries,
			JobsByStatus:     jobsByStatus,
			TotalDayClips:    clips,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}

// jobGetHandler serves the full job projection including per-day clip states.
func jobGetHandler(videoUC usecase.VideoJobUseCase) func(w http.ResponseWriter, r *http.Request, jobID string) {
	return func(w http.ResponseWriter, r *http.Request, jobID string) {
		status, err := videoUC.Status(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to get job", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	}
}

// jobRequeueHandler puts a failed or cancelled job back on the queue.
// Downloaded day clips survive, so the worker resumes where it stopped.
func jobRequeueHandler(videoUC usecase.VideoJobUseCase) func(w http.ResponseWriter, r *http.Request, jobID string) {
	return func(w http.ResponseWriter, r *http.Request, jobID string) {
		err := videoUC.Requeue(r.Context(), jobID)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusAccepted)
		case errors.Is(err, domain.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to requeue job", http.StatusInternalServerError)
		}
	}
}
