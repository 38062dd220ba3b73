package apiv1

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/infra/storage"
	"tripreel/internal/usecase"
)

const maxUploadBytes = 10 << 20

// Server implements ServerInterface on top of the use case layer. Transport
// concerns only: decode, delegate, map errors, encode.
type Server struct {
	destinations usecase.DestinationUseCase
	itineraries  usecase.ItineraryUseCase
	videos       usecase.VideoJobUseCase
	layout       *storage.Layout
	log          zerolog.Logger
}

// Compile-time check.
var _ ServerInterface = (*Server)(nil)

func NewServer(
	destinations usecase.DestinationUseCase,
	itineraries usecase.ItineraryUseCase,
	videos usecase.VideoJobUseCase,
	layout *storage.Layout,
	logger *zerolog.Logger,
) *Server {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "APIV1").Logger()
	}
	return &Server{
		destinations: destinations,
		itineraries:  itineraries,
		videos:       videos,
		layout:       layout,
		log:          log,
	}
}

// RegisterAPIV1 mounts the versioned API routes on the given router.
func RegisterAPIV1(r chi.Router, s *Server) {
	HandlerFromMux(s, r)
}

func (s *Server) ParseDestination(w http.ResponseWriter, r *http.Request) {
	var req ParseDestinationJSONRequestBody
	if !s.decode(w, r, &req) {
		return
	}
	info, err := s.destinations.Parse(r.Context(), req.Input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toDestination(info))
}

func (s *Server) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var req CreateItineraryJSONRequestBody
	if !s.decode(w, r, &req) {
		return
	}
	it, err := s.itineraries.Generate(r.Context(), toGenerateRequest(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toItinerary(it))
}

func (s *Server) ValidateBudget(w http.ResponseWriter, r *http.Request) {
	var req ValidateBudgetJSONRequestBody
	if !s.decode(w, r, &req) {
		return
	}
	v, err := s.itineraries.ValidateBudget(r.Context(), toGenerateRequest(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BudgetValidation{
		Sufficient:  v.Sufficient,
		MinimumCost: v.MinimumCost,
		Shortfall:   v.Shortfall,
		Message:     v.Message,
		Costs:       v.Costs,
	})
}

func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request, itineraryId string) {
	it, err := s.itineraries.Get(r.Context(), itineraryId)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toItinerary(it))
}

func (s *Server) ReallocateBudget(w http.ResponseWriter, r *http.Request, itineraryId string) {
	var req ReallocateBudgetJSONRequestBody
	if !s.decode(w, r, &req) {
		return
	}
	it, err := s.itineraries.ReallocateBudget(r.Context(), itineraryId, req.Categories)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toItinerary(it))
}

func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "photo too large or malformed upload")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "missing photo field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		s.writeErrorMessage(w, http.StatusBadRequest, "only jpg, jpeg and png photos are accepted")
		return
	}

	name := uuid.NewString() + ext
	if err := s.saveUpload(file, name); err != nil {
		s.log.Error().Err(err).Str("filename", name).Msg("failed to store upload")
		s.writeErrorMessage(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	s.writeJSON(w, http.StatusCreated, Upload{
		Url:      "/uploads/" + name,
		Filename: name,
	})
}

func (s *Server) saveUpload(src multipart.File, name string) error {
	dst, err := os.Create(s.layout.UploadPath(name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return err
	}
	return dst.Close()
}

func (s *Server) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req CreateVideoJSONRequestBody
	if !s.decode(w, r, &req) {
		return
	}
	var chatID int64
	if req.NotifyChatId != nil {
		chatID = *req.NotifyChatId
	}
	job, err := s.videos.Start(r.Context(), req.ItineraryId, req.UserPhotoUrl, chatID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := s.videos.Status(r.Context(), job.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, toVideoJob(status))
}

func (s *Server) GetVideo(w http.ResponseWriter, r *http.Request, videoId string) {
	status, err := s.videos.Status(r.Context(), videoId)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toVideoJob(status))
}

func (s *Server) CancelVideo(w http.ResponseWriter, r *http.Request, videoId string) {
	if err := s.videos.Cancel(r.Context(), videoId); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeErrorMessage(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInsufficientBudget):
		s.writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrJobTerminal):
		s.writeErrorMessage(w, http.StatusConflict, "job is already in a terminal state")
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, Error{Error: msg})
}

func toGenerateRequest(req GenerateItineraryRequest) usecase.GenerateItineraryRequest {
	out := usecase.GenerateItineraryRequest{
		Destination: req.Destination,
		Duration:    req.Duration,
		Travelers:   req.Travelers,
		TotalBudget: req.TotalBudget,
	}
	if req.ActivityPreference != nil {
		out.ActivityPreference = *req.ActivityPreference
	}
	if req.IncludeFlights != nil {
		out.IncludeFlights = *req.IncludeFlights
	}
	if req.IncludeHotels != nil {
		out.IncludeHotels = *req.IncludeHotels
	}
	return out
}

func toDestination(info *model.DestinationInfo) Destination {
	return Destination{
		City:        info.Name,
		Country:     info.Country,
		Label:       info.Label,
		CountryOnly: info.CountryOnly,
		Confidence:  DestinationConfidence(info.Confidence),
	}
}

func toItinerary(it *model.Itinerary) Itinerary {
	out := Itinerary{
		Id:              it.ID,
		Destination:     toDestination(&it.Destination),
		Duration:        it.Duration,
		Travelers:       it.Travelers,
		TotalBudget:     it.TotalBudget,
		BudgetBreakdown: toBudget(it.Budget),
		DailyActivities: make([]DayPlan, 0, len(it.Days)),
		CreatedAt:       it.CreatedAt,
	}
	if it.AttractionsSummary != "" {
		out.AttractionsSummary = &it.AttractionsSummary
	}
	for _, d := range it.Days {
		out.DailyActivities = append(out.DailyActivities, DayPlan{
			Day:       d.Day,
			Title:     d.Title,
			Morning:   toActivity(d.Morning),
			Afternoon: toActivity(d.Afternoon),
			Evening:   toActivity(d.Evening),
		})
	}
	return out
}

func toBudget(b model.BudgetBreakdown) BudgetBreakdown {
	out := BudgetBreakdown{
		Categories:      make(map[string]BudgetCategory, len(b.Categories)),
		TotalAllocated:  b.TotalAllocated,
		RemainingBudget: b.RemainingBudget,
	}
	for name, c := range b.Categories {
		cat := BudgetCategory{Amount: c.Amount, Percentage: c.Percentage}
		if c.Note != "" {
			note := c.Note
			cat.Note = &note
		}
		out.Categories[name] = cat
	}
	return out
}

func toActivity(a model.Activity) Activity {
	out := Activity{Name: a.Name}
	if a.Description != "" {
		desc := a.Description
		out.Description = &desc
	}
	if a.Category != "" {
		cat := a.Category
		out.Category = &cat
	}
	if a.EstimatedCost != 0 {
		cost := a.EstimatedCost
		out.EstimatedCost = &cost
	}
	if a.PhotoURL != "" {
		u := a.PhotoURL
		out.PhotoUrl = &u
	}
	if a.Rating != 0 {
		rt := a.Rating
		out.Rating = &rt
	}
	return out
}

func toVideoJob(js *usecase.JobStatus) VideoJob {
	out := VideoJob{
		JobId:         js.JobID,
		ItineraryId:   js.ItineraryID,
		Destination:   js.Destination,
		Status:        VideoJobStatus(js.Status),
		Progress:      js.Progress,
		CompletedDays: js.CompletedDays,
		TotalDays:     js.TotalDays,
		CreatedAt:     js.CreatedAt,
		UpdatedAt:     js.UpdatedAt,
	}
	if js.CurrentDay != 0 {
		day := js.CurrentDay
		out.CurrentDay = &day
	}
	if js.CurrentStage != "" {
		stage := js.CurrentStage
		out.CurrentStage = &stage
	}
	if js.FinalVideoURL != "" {
		u := js.FinalVideoURL
		out.FinalVideoUrl = &u
	}
	if js.ErrorMessage != "" {
		msg := js.ErrorMessage
		out.ErrorMessage = &msg
	}
	if js.CancelRequested {
		yes := true
		out.CancelRequested = &yes
	}
	if len(js.Clips) > 0 {
		clips := make([]ClipStatus, 0, len(js.Clips))
		for _, c := range js.Clips {
			cs := ClipStatus{Day: c.Day, Status: c.Status}
			if c.VideoURL != "" {
				u := c.VideoURL
				cs.VideoUrl = &u
			}
			if c.Error != "" {
				e := c.Error
				cs.Error = &e
			}
			clips = append(clips, cs)
		}
		out.Clips = &clips
	}
	return out
}
