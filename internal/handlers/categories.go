package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/chronosync/chronosync/internal/database"
	"github.com/chronosync/chronosync/internal/models"
	"github.com/chronosync/chronosync/internal/request"
	"github.com/chronosync/chronosync/internal/validation"
)

const (
	defaultCategoryEmoji = "📝"
	defaultCategoryColor = "#666666"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryRepo database.CategoryRepositoryInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryRepo database.CategoryRepositoryInterface) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

// RegisterRoutes registers category routes on the given router
// The router should already have the /categories prefix
func (h *CategoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListCategories).Methods("GET")
	r.HandleFunc("", h.CreateCategory).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateCategory).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteCategory).Methods("DELETE")
}

// CreateCategoryRequest represents a create category request
type CreateCategoryRequest struct {
	Name         string `json:"name" validate:"required"`
	Emoji        string `json:"emoji,omitempty"`
	Color        string `json:"color,omitempty"`
	IsProductive bool   `json:"isProductive,omitempty"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name         *string `json:"name,omitempty"`
	Emoji        *string `json:"emoji,omitempty"`
	Color        *string `json:"color,omitempty"`
	IsProductive *bool   `json:"isProductive,omitempty"`
}

// ListCategories lists the fixed defaults followed by the user's customs
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := r.Context()
	custom, err := h.categoryRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve categories")
		return
	}

	categories := make([]*models.Category, 0, len(models.DefaultCategories)+len(custom))
	for i := range models.DefaultCategories {
		categories = append(categories, &models.DefaultCategories[i])
	}
	categories = append(categories, custom...)

	respondJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a custom category
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Category name is required")
		return
	}

	name := validation.NormalizeCategoryName(req.Name)
	if err := validation.ValidateCategoryName(name); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if models.IsDefaultCategoryName(name) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("%q is a default category name", name))
		return
	}

	ctx := r.Context()
	existing, err := h.categoryRepo.GetByUserAndName(ctx, user.ID, name)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to check category name")
		return
	}
	if existing != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Category already exists")
		return
	}

	category := &models.Category{
		ID:           uuid.New(),
		UserID:       user.ID,
		Name:         name,
		Emoji:        req.Emoji,
		Color:        req.Color,
		IsProductive: req.IsProductive,
	}
	if category.Emoji == "" {
		category.Emoji = defaultCategoryEmoji
	}
	if category.Color == "" {
		category.Color = defaultCategoryColor
	} else if err := validation.Validate.Var(category.Color, "hex_color"); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Color must be a hex value like #3B82F6")
		return
	}

	if err := h.categoryRepo.Create(ctx, category); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create category")
		return
	}

	respondJSONMessage(w, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory applies a partial update to a custom category
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return
	}

	ctx := r.Context()
	category, err := h.categoryRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return
	}
	if category.UserID != user.ID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if req.Name != nil {
		name := validation.NormalizeCategoryName(*req.Name)
		if err := validation.ValidateCategoryName(name); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		if models.IsDefaultCategoryName(name) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("%q is a default category name", name))
			return
		}
		if name != category.Name {
			existing, err := h.categoryRepo.GetByUserAndName(ctx, user.ID, name)
			if err != nil {
				respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to check category name")
				return
			}
			if existing != nil {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", "Category already exists")
				return
			}
		}
		category.Name = name
	}
	if req.Emoji != nil {
		category.Emoji = *req.Emoji
	}
	if req.Color != nil {
		if err := validation.Validate.Var(*req.Color, "hex_color"); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Color must be a hex value like #3B82F6")
			return
		}
		category.Color = *req.Color
	}
	if req.IsProductive != nil {
		category.IsProductive = *req.IsProductive
	}

	if err := h.categoryRepo.Update(ctx, category); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update category")
		return
	}

	respondJSONMessage(w, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory deletes a custom category. Defaults never have a row, so
// any id that resolves to one of their names is impossible; the reserved
// names themselves are rejected when someone passes a name instead of an id.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	vars := mux.Vars(r)
	raw := vars["id"]
	if models.IsDefaultCategoryName(validation.NormalizeCategoryName(raw)) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Default categories cannot be deleted")
		return
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return
	}

	ctx := r.Context()
	category, err := h.categoryRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return
	}
	if category.UserID != user.ID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return
	}

	if err := h.categoryRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete category")
		return
	}

	respondJSONMessage(w, http.StatusOK, "Category deleted successfully", nil)
}
