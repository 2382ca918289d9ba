package product

import (
	"context"
	"productapi/internal/core/domain"
)

// Repository is the persistence side of the product collection. Every
// mutation is a full read-modify-write of the backing document.
type Repository interface {
	// Whole-collection access
	LoadAll(ctx context.Context) (domain.Collection, error)
	SaveAll(ctx context.Context, products domain.Collection) error

	// Queries
	FindByID(ctx context.Context, productID string) (domain.Collection, error)

	// Commands
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, productID string, fields map[string]any) (domain.Product, error)
	Delete(ctx context.Context, productID string) (int, error)
}
