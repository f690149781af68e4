package dto

import (
	"time"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

// ProductRequest payload for creating or replacing a product.
type ProductRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	PriceInCents int64  `json:"priceInCents" validate:"gte=0"`
	Category     string `json:"category" validate:"max=60"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PriceInCents int64     `json:"priceInCents"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewProductResponse maps a product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		PriceInCents: p.PriceInCents,
		Category:     p.Category,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewProductResponses maps a list of products.
func NewProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}
