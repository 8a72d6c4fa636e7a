package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=100"`
	LastName        string `json:"last_name" validate:"max=100"`
	PhoneNumber     string `json:"phone_number" validate:"max=30"`
	IsSeller        bool   `json:"is_seller"`
}

// Validate enforces the cross-field password confirmation rule.
func (r RegisterRequest) Validate() error {
	if r.Password != r.PasswordConfirm {
		return ErrPasswordMismatch
	}
	return nil
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token for the refresh and logout
// endpoints.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ProfileUpdateRequest is the payload for profile updates. Absent fields are
// left unchanged.
type ProfileUpdateRequest struct {
	Email              *string `json:"email" validate:"omitempty,email"`
	FirstName          *string `json:"first_name" validate:"omitempty,max=100"`
	LastName           *string `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber        *string `json:"phone_number" validate:"omitempty,max=30"`
	EmailNotifications *bool   `json:"email_notifications"`
	Password           *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// CategoryCreateRequest is the payload for creating a category.
type CategoryCreateRequest struct {
	Name         string     `json:"name" validate:"required,max=100"`
	Description  string     `json:"description"`
	ParentID     *uuid.UUID `json:"parent_id"`
	DisplayOrder int        `json:"display_order" validate:"min=0"`
}

// CategoryUpdateRequest is the payload for updating a category. Absent
// fields are left unchanged; clear_parent detaches the category from its
// parent.
type CategoryUpdateRequest struct {
	Name         *string    `json:"name" validate:"omitempty,max=100"`
	Description  *string    `json:"description"`
	ParentID     *uuid.UUID `json:"parent_id"`
	ClearParent  bool       `json:"clear_parent"`
	IsActive     *bool      `json:"is_active"`
	DisplayOrder *int       `json:"display_order" validate:"omitempty,min=0"`
}

// ProductCreateRequest is the payload for creating a product.
type ProductCreateRequest struct {
	Name             string           `json:"name" validate:"required,max=200"`
	Description      string           `json:"description" validate:"required"`
	ShortDescription string           `json:"short_description" validate:"max=500"`
	Price            decimal.Decimal  `json:"price" validate:"required"`
	ComparePrice     *decimal.Decimal `json:"compare_price"`
	StockQuantity    int              `json:"stock_quantity" validate:"min=0"`
	CategoryID       *uuid.UUID       `json:"category_id"`
	IsActive         *bool            `json:"is_active"`
	IsFeatured       bool             `json:"is_featured"`
}

// ProductUpdateRequest is the payload for updating a product. Absent fields
// are left unchanged; the clear flags reset optional fields.
type ProductUpdateRequest struct {
	Name              *string          `json:"name" validate:"omitempty,max=200"`
	Description       *string          `json:"description"`
	ShortDescription  *string          `json:"short_description" validate:"omitempty,max=500"`
	Price             *decimal.Decimal `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price"`
	ClearComparePrice bool             `json:"clear_compare_price"`
	StockQuantity     *int             `json:"stock_quantity" validate:"omitempty,min=0"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	ClearCategory     bool             `json:"clear_category"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        *bool            `json:"is_featured"`
}

// UserResponse is the public representation of a user. Authentication
// material never appears here.
type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	FullName           string    `json:"full_name"`
	PhoneNumber        string    `json:"phone_number"`
	IsSeller           bool      `json:"is_seller"`
	EmailNotifications bool      `json:"email_notifications"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		FullName:           user.FullName(),
		PhoneNumber:        user.PhoneNumber,
		IsSeller:           user.IsSeller,
		EmailNotifications: user.EmailNotifications,
		CreatedAt:          user.CreatedAt,
	}
}

// NewUserResponseList builds the list representation for a page of users.
func NewUserResponseList(users []*domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = NewUserResponse(user)
	}
	return out
}

// TokensResponse carries a freshly issued token pair.
type TokensResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is returned from registration and login.
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// CategoryResponse is the public representation of a category.
type CategoryResponse struct {
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

// NewCategoryResponse builds a CategoryResponse from a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           category.ID,
		Name:         category.Name,
		Slug:         category.Slug,
		Description:  category.Description,
		ParentID:     category.ParentID,
		IsActive:     category.IsActive,
		DisplayOrder: category.DisplayOrder,
		CreatedAt:    category.CreatedAt,
		UpdatedAt:    category.UpdatedAt,
	}
}

// NewCategoryResponseList builds the list representation for a page of
// categories.
func NewCategoryResponseList(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		out[i] = NewCategoryResponse(category)
	}
	return out
}

// ProductResponse is the public representation of a product, including the
// derived stock and discount fields.
type ProductResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Slug               string           `json:"slug"`
	SKU                string           `json:"sku"`
	Description        string           `json:"description"`
	ShortDescription   string           `json:"short_description"`
	Price              decimal.Decimal  `json:"price"`
	ComparePrice       *decimal.Decimal `json:"compare_price,omitempty"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	StockQuantity      int              `json:"stock_quantity"`
	InStock            bool             `json:"in_stock"`
	CategoryID         *uuid.UUID       `json:"category_id,omitempty"`
	SellerID           uuid.UUID        `json:"seller_id"`
	IsActive           bool             `json:"is_active"`
	IsFeatured         bool             `json:"is_featured"`
	ViewCount          int              `json:"view_count"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// NewProductResponse builds a ProductResponse from a domain product.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:                 product.ID,
		Name:               product.Name,
		Slug:               product.Slug,
		SKU:                product.SKU,
		Description:        product.Description,
		ShortDescription:   product.ShortDescription,
		Price:              product.Price,
		ComparePrice:       product.ComparePrice,
		DiscountPercentage: product.DiscountPercentage(),
		StockQuantity:      product.StockQuantity,
		InStock:            product.InStock(),
		CategoryID:         product.CategoryID,
		SellerID:           product.SellerID,
		IsActive:           product.IsActive,
		IsFeatured:         product.IsFeatured,
		ViewCount:          product.ViewCount,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}
}

// NewProductResponseList builds the list representation for a page of
// products.
func NewProductResponseList(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, product := range products {
		out[i] = NewProductResponse(product)
	}
	return out
}
