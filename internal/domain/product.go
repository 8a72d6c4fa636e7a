package domain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product validation errors
var (
	ErrEmptyProductID     = errors.New("product ID cannot be empty")
	ErrEmptyProductName   = errors.New("product name cannot be empty")
	ErrProductNameTooLong = errors.New("product name must be at most 200 characters")
	ErrEmptyDescription   = errors.New("product description cannot be empty")
	ErrEmptySellerID      = errors.New("product seller ID cannot be empty")
)

// Product represents an item in the catalog. Each product belongs to the
// seller that created it and optionally to one category.
type Product struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	SKU              string           `json:"sku"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	Price            decimal.Decimal  `json:"price"`
	ComparePrice     *decimal.Decimal `json:"compare_price,omitempty"`
	StockQuantity    int              `json:"stock_quantity"`
	CategoryID       *uuid.UUID       `json:"category_id,omitempty"`
	SellerID         uuid.UUID        `json:"seller_id"`
	IsActive         bool             `json:"is_active"`
	IsFeatured       bool             `json:"is_featured"`
	ViewCount        int              `json:"view_count"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// minPrice is the smallest valid product price (0.01).
var minPrice = decimal.New(1, -2)

// NewProduct creates a new Product with the required fields. It generates
// the ID, the base slug and a SKU; the store resolves slug/SKU collisions.
// Optional fields (category, compare price, featured flag, ...) are set by
// the caller, followed by another Validate.
func NewProduct(name, description string, price decimal.Decimal, sellerID uuid.UUID) (*Product, error) {
	now := time.Now().UTC()
	product := &Product{
		ID:          uuid.New(),
		Name:        name,
		Slug:        Slugify(name),
		SKU:         generateSKU(name),
		Description: description,
		Price:       price,
		SellerID:    sellerID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate checks if the Product has valid data.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProductID
	}

	if p.Name == "" {
		return ErrEmptyProductName
	}

	if len(p.Name) > 200 {
		return ErrProductNameTooLong
	}

	if p.Description == "" {
		return ErrEmptyDescription
	}

	if p.Price.LessThan(minPrice) {
		return ErrInvalidPrice
	}

	if p.StockQuantity < 0 {
		return ErrInvalidStock
	}

	if p.SellerID == uuid.Nil {
		return ErrEmptySellerID
	}

	return nil
}

// InStock reports whether the product can currently be purchased.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// DiscountPercentage calculates the discount relative to the compare price.
// Returns zero when no compare price is set or it does not exceed the price.
func (p *Product) DiscountPercentage() decimal.Decimal {
	if p.ComparePrice == nil || !p.ComparePrice.GreaterThan(p.Price) {
		return decimal.Zero
	}
	return p.ComparePrice.Sub(p.Price).
		Div(*p.ComparePrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// generateSKU derives a stock keeping unit from the product name: the first
// three letters uppercased, plus six random digits.
func generateSKU(name string) string {
	var prefix strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) {
			prefix.WriteRune(unicode.ToUpper(r))
			if prefix.Len() >= 3 {
				break
			}
		}
	}
	if prefix.Len() == 0 {
		prefix.WriteString("SKU")
	}

	id := uuid.New()
	digits := binary.BigEndian.Uint32(id[:4]) % 1000000
	return fmt.Sprintf("%s-%06d", prefix.String(), digits)
}
