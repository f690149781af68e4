package service

import (
	"context"
	"errors"
	"strings"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/repository"
	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/tenancy"
	apperrors "github.com/d0uglasfernandes/sistema-comanda-pc-v2/pkg/util/errorutil"
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name         string
	PriceInCents int64
	Category     string
}

// ProductService manages a tenant's menu.
type ProductService struct {
	products repository.ProductRepository
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List returns the caller's products, optionally by category.
func (s *ProductService) List(ctx context.Context, id domain.Identity, category string) ([]domain.Product, error) {
	var filter repository.ProductFilter
	if category = strings.TrimSpace(category); category != "" {
		filter.Category = &category
	}
	return s.products.List(ctx, tenancy.FromIdentity(id), filter)
}

// Get returns one product of the caller's tenant.
func (s *ProductService) Get(ctx context.Context, id domain.Identity, productID string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, tenancy.FromIdentity(id), productID)
	if err != nil {
		return nil, notFoundAs("product", err)
	}
	return product, nil
}

// Create adds a product to the caller's menu.
func (s *ProductService) Create(ctx context.Context, id domain.Identity, in ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:         strings.TrimSpace(in.Name),
		PriceInCents: in.PriceInCents,
		Category:     strings.TrimSpace(in.Category),
	}
	if err := s.products.Create(ctx, tenancy.FromIdentity(id), product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces the editable fields of a product.
func (s *ProductService) Update(ctx context.Context, id domain.Identity, productID string, in ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:           productID,
		Name:         strings.TrimSpace(in.Name),
		PriceInCents: in.PriceInCents,
		Category:     strings.TrimSpace(in.Category),
	}
	if err := s.products.Update(ctx, tenancy.FromIdentity(id), product); err != nil {
		return nil, notFoundAs("product", err)
	}
	return product, nil
}

// Delete removes a product that no order references.
func (s *ProductService) Delete(ctx context.Context, id domain.Identity, productID string) error {
	err := s.products.Delete(ctx, tenancy.FromIdentity(id), productID)
	if errors.Is(err, repository.ErrReferenced) {
		return apperrors.NewConflict("product is referenced by existing orders", map[string]any{"productId": productID})
	}
	return notFoundAs("product", err)
}

func notFoundAs(resource string, err error) error {
	if err != nil && isNotFound(err) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
