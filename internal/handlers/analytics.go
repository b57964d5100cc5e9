package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chronosync/chronosync/internal/database"
	"github.com/chronosync/chronosync/internal/models"
	"github.com/chronosync/chronosync/internal/request"
	"github.com/chronosync/chronosync/internal/services/analytics"
	"github.com/chronosync/chronosync/internal/validation"
)

// AnalyticsHandler serves aggregated rollups over activity data
type AnalyticsHandler struct {
	activityRepo database.ActivityRepositoryInterface
	categoryRepo database.CategoryRepositoryInterface

	// now is swappable so preset ranges are deterministic in tests
	now func() time.Time
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(activityRepo database.ActivityRepositoryInterface, categoryRepo database.CategoryRepositoryInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		activityRepo: activityRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// RegisterRoutes registers analytics routes on the given router
// The router should already have the /analytics prefix
func (h *AnalyticsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/weekly", h.Weekly).Methods("GET")
	r.HandleFunc("/monthly", h.Monthly).Methods("GET")
	r.HandleFunc("/range", h.Range).Methods("GET")
}

// Weekly serves the rollup for the current ISO week (Monday through Sunday)
func (h *AnalyticsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	startDate, endDate := analytics.WeekRange(h.now())
	h.respondRollup(w, r, startDate, endDate)
}

// Monthly serves the rollup for the current calendar month
func (h *AnalyticsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	startDate, endDate := analytics.MonthRange(h.now())
	h.respondRollup(w, r, startDate, endDate)
}

// Range serves the rollup for an explicit date range
func (h *AnalyticsHandler) Range(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate == "" || endDate == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "startDate and endDate query parameters are required")
		return
	}
	if err := validation.ValidateDate(startDate); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := validation.ValidateDate(endDate); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	h.respondRollup(w, r, startDate, endDate)
}

func (h *AnalyticsHandler) respondRollup(w http.ResponseWriter, r *http.Request, startDate, endDate string) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := r.Context()
	activities, err := h.activityRepo.GetByUserAndDateRange(ctx, user.ID, startDate, endDate)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activities")
		return
	}

	custom, err := h.categoryRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve categories")
		return
	}

	rollup, err := analytics.Aggregate(activities, models.ProductiveCategoryNames(custom), startDate, endDate)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rollup)
}
