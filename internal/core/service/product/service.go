package product

import (
	"context"
	"fmt"
	"maps"
	"productapi/internal/core/domain"
	"strings"
)

type productService struct {
	productRepo Repository
}

func NewService(repo Repository) Service {
	return &productService{
		productRepo: repo,
	}
}

var _ Service = (*productService)(nil)

func (s *productService) ListProducts(ctx context.Context) (domain.Collection, error) {
	products, err := s.productRepo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}

	return products, nil
}

func (s *productService) FindProducts(ctx context.Context, productID string) (domain.Collection, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrMissingID
	}

	products, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("FindProducts: %w", err)
	}

	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, data map[string]any) (domain.Product, error) {
	newProduct, err := domain.NewFromMap(data)
	if err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", ErrInvalidBody)
	}
	newProduct = maps.Clone(newProduct)

	// ids are always assigned by the store, a client supplied one is dropped
	delete(newProduct, domain.IDField)

	result, err := s.productRepo.Create(ctx, newProduct)
	if err != nil {
		return nil, fmt.Errorf("CreateProduct: could not save to repository: %w", err)
	}

	return result, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID string, data map[string]any) (domain.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, ErrMissingID
	}

	fields, err := domain.NewFromMap(data)
	if err != nil {
		return nil, fmt.Errorf("UpdateProduct: %w", ErrInvalidBody)
	}

	updated, err := s.productRepo.Update(ctx, productID, fields)
	if err != nil {
		return nil, fmt.Errorf("UpdateProduct: %w", err)
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID string) (int, error) {
	if strings.TrimSpace(productID) == "" {
		return 0, ErrMissingID
	}

	removed, err := s.productRepo.Delete(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("DeleteProduct: %w", err)
	}

	return removed, nil
}
