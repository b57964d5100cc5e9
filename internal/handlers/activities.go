package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/chronosync/chronosync/internal/database"
	"github.com/chronosync/chronosync/internal/models"
	"github.com/chronosync/chronosync/internal/request"
	"github.com/chronosync/chronosync/internal/services/analytics"
	"github.com/chronosync/chronosync/internal/validation"
)

// ActivityHandler handles activity-related requests
type ActivityHandler struct {
	activityRepo database.ActivityRepositoryInterface
	categoryRepo database.CategoryRepositoryInterface
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityRepo database.ActivityRepositoryInterface, categoryRepo database.CategoryRepositoryInterface) *ActivityHandler {
	return &ActivityHandler{activityRepo: activityRepo, categoryRepo: categoryRepo}
}

// RegisterRoutes registers activity routes on the given router
// The router should already have the /activities prefix
func (h *ActivityHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.CreateActivity).Methods("POST")
	r.HandleFunc("", h.ListByDate).Methods("GET")
	r.HandleFunc("/today", h.ListToday).Methods("GET")
	r.HandleFunc("/summary", h.TodaySummary).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteActivity).Methods("DELETE")
}

// CreateActivityRequest represents a create activity request
type CreateActivityRequest struct {
	Category string  `json:"category" validate:"required"`
	Duration float64 `json:"duration" validate:"required,gt=0"`
	Date     string  `json:"date,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// CreateActivity creates a new activity entry
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateActivityRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Category and a positive duration are required")
		return
	}

	category := validation.NormalizeCategoryName(req.Category)
	if category == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Category cannot be empty")
		return
	}

	// Durations arrive as numbers; round to whole minutes and enforce the floor
	duration := int(math.Round(req.Duration))
	if err := validation.ValidateDuration(duration); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().UTC().Format(models.DateLayout)
	} else if err := validation.ValidateDate(date); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	notes := validation.SanitizeText(req.Notes)
	if len(notes) > models.MaxActivityNotesLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Notes exceed maximum length of %d characters", models.MaxActivityNotesLength))
		return
	}

	ctx := r.Context()
	activity := &models.Activity{
		ID:       uuid.New(),
		UserID:   user.ID,
		Category: category,
		Duration: duration,
		Date:     date,
		Notes:    notes,
	}

	if err := h.activityRepo.Create(ctx, activity); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create activity")
		return
	}

	respondJSONMessage(w, http.StatusCreated, "Activity added successfully", activity)
}

// ListByDate lists activities for the given day, newest first, with a summary
func (h *ActivityHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "date query parameter is required")
		return
	}
	if err := validation.ValidateDate(date); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()
	activities, err := h.activityRepo.GetByUserAndDate(ctx, user.ID, date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activities")
		return
	}
	if activities == nil {
		activities = []*models.Activity{}
	}

	productive, err := h.productiveNames(r)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve categories")
		return
	}

	// The activity list is the data payload; the summary rides beside it
	respondJSONFields(w, http.StatusOK, activities, map[string]any{
		"summary": analytics.Summarize(activities, productive),
	})
}

// ListToday lists today's activities, newest first, with a count
func (h *ActivityHandler) ListToday(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := r.Context()
	date := time.Now().UTC().Format(models.DateLayout)
	activities, err := h.activityRepo.GetByUserAndDate(ctx, user.ID, date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activities")
		return
	}
	if activities == nil {
		activities = []*models.Activity{}
	}

	respondJSONFields(w, http.StatusOK, activities, map[string]any{
		"total": len(activities),
	})
}

// TodaySummary returns today's totals without the activity list
func (h *ActivityHandler) TodaySummary(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := r.Context()
	date := time.Now().UTC().Format(models.DateLayout)
	activities, err := h.activityRepo.GetByUserAndDate(ctx, user.ID, date)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activities")
		return
	}

	productive, err := h.productiveNames(r)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve categories")
		return
	}

	respondJSON(w, http.StatusOK, analytics.Summarize(activities, productive))
}

// DeleteActivity deletes an activity owned by the authenticated user. A
// foreign or unknown id answers 404 without revealing which.
func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Activity not found")
		return
	}

	ctx := r.Context()
	activity, err := h.activityRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Activity not found")
		return
	}
	if activity.UserID != user.ID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Activity not found")
		return
	}

	if err := h.activityRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete activity")
		return
	}

	respondJSONMessage(w, http.StatusOK, "Activity deleted successfully", nil)
}

func (h *ActivityHandler) productiveNames(r *http.Request) (map[string]bool, error) {
	user := request.UserFromContext(r)
	custom, err := h.categoryRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	return models.ProductiveCategoryNames(custom), nil
}
