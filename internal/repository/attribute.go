package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"shop/admin/internal/domain"
)

// AttributeRepository is the attribute-definitions port over Postgres.
type AttributeRepository interface {
	ReplaceAll(ctx context.Context, attributes []domain.Attribute) error
}

type attributeRepository struct {
	db *pgxpool.Pool
}

func NewAttributeRepository(db *pgxpool.Pool) AttributeRepository {
	return &attributeRepository{
		db: db,
	}
}

// ReplaceAll atomically swaps every stored attribute definition for the
// given set.
func (r *attributeRepository) ReplaceAll(ctx context.Context, attributes []domain.Attribute) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM item_attributes`); err != nil {
		return fmt.Errorf("failed to remove attributes: %w", err)
	}

	query := `INSERT INTO item_attributes (key, data) VALUES ($1, $2)`
	for _, attribute := range attributes {
		if _, err := tx.Exec(ctx, query, attribute.Key.String(), attribute); err != nil {
			return fmt.Errorf("failed to insert attribute %s: %w", attribute.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit attributes: %w", err)
	}

	return nil
}
