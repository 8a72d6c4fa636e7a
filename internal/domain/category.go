package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category validation errors
var (
	ErrEmptyCategoryID     = errors.New("category ID cannot be empty")
	ErrEmptyCategoryName   = errors.New("category name cannot be empty")
	ErrCategoryNameTooLong = errors.New("category name must be at most 100 characters")
	ErrCategorySelfParent  = errors.New("category cannot be its own parent")
)

// Category represents a product category. Categories form a hierarchy via
// the optional parent reference.
type Category struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	DisplayOrder int        `json:"display_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewCategory creates a new Category with the given name and description.
// It generates the ID and the base slug; the store resolves slug collisions.
// Returns an error if validation fails.
func NewCategory(name, description string) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}

	if c.Name == "" {
		return ErrEmptyCategoryName
	}

	if len(c.Name) > 100 {
		return ErrCategoryNameTooLong
	}

	if c.ParentID != nil && *c.ParentID == c.ID {
		return ErrCategorySelfParent
	}

	return nil
}
