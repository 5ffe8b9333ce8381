// Package repository persists the shop documents in Postgres. Records
// are stored as jsonb documents keyed by id, matching the document shape
// the rest of the pipeline works with.
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop/admin/internal/domain"
)

// ProductRepository is the product-store port over Postgres.
type ProductRepository interface {
	Create(ctx context.Context, draft domain.ProductDraft) (string, error)
	Update(ctx context.Context, id string, enrichment domain.ProductEnrichment) error
	RemoveAll(ctx context.Context) error
}

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepository{
		db: db,
	}
}

// Create inserts the minimal product record and returns its assigned id.
func (r *productRepository) Create(ctx context.Context, draft domain.ProductDraft) (string, error) {
	id := uuid.NewString()

	query := `INSERT INTO products (id, data) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, id, draft)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	return id, nil
}

// Update replaces the product document with its enriched form.
func (r *productRepository) Update(ctx context.Context, id string, enrichment domain.ProductEnrichment) error {
	query := `UPDATE products SET data = $2 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, enrichment)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", id)
	}

	return nil
}

// RemoveAll wipes the product collection before a seed run.
func (r *productRepository) RemoveAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products`)
	if err != nil {
		return fmt.Errorf("failed to remove products: %w", err)
	}

	return nil
}
