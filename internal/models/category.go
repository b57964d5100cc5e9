package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a user-defined activity category. Default categories
// are never persisted; they are merged in at read time from DefaultCategories.
type Category struct {
	ID           uuid.UUID `json:"id,omitempty"`
	UserID       uuid.UUID `json:"user_id,omitempty"`
	Name         string    `json:"name"` // lowercased, unique per user
	Emoji        string    `json:"emoji"`
	Color        string    `json:"color"`
	IsDefault    bool      `json:"is_default"`
	IsProductive bool      `json:"is_productive"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// DefaultCategories is the fixed set every account implicitly has. These rows
// never exist in the database and cannot be modified or deleted via the API.
var DefaultCategories = []Category{
	{Name: "coding", Emoji: "💻", Color: "#3B82F6", IsDefault: true, IsProductive: true},
	{Name: "studying", Emoji: "📚", Color: "#10B981", IsDefault: true, IsProductive: true},
	{Name: "reading", Emoji: "📖", Color: "#8B5CF6", IsDefault: true, IsProductive: true},
	{Name: "speaking", Emoji: "🗣️", Color: "#F59E0B", IsDefault: true, IsProductive: false},
	{Name: "gf_time", Emoji: "💑", Color: "#EC4899", IsDefault: true, IsProductive: false},
}

// IsDefaultCategoryName reports whether name collides with a default category.
// The comparison assumes name is already lowercased.
func IsDefaultCategoryName(name string) bool {
	for _, c := range DefaultCategories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ProductiveCategoryNames returns the set of category names counted toward
// the productivity score: the productive defaults plus the user's custom
// categories flagged productive.
func ProductiveCategoryNames(custom []*Category) map[string]bool {
	productive := make(map[string]bool)
	for _, c := range DefaultCategories {
		if c.IsProductive {
			productive[c.Name] = true
		}
	}
	for _, c := range custom {
		if c.IsProductive {
			productive[c.Name] = true
		}
	}
	return productive
}
