package product

import (
	"context"
	"productapi/internal/core/domain"
)

type Service interface {
	// Queries
	ListProducts(ctx context.Context) (domain.Collection, error)
	FindProducts(ctx context.Context, productID string) (domain.Collection, error)

	// Commands
	CreateProduct(ctx context.Context, data map[string]any) (domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, data map[string]any) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) (int, error)
}
