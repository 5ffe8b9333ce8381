package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop/admin/internal/domain"
)

// The whole category tree is one document; saves are bulk replaces.
const categoriesTreeID = 1

// CategoryRepository is the category-tree port over Postgres.
type CategoryRepository interface {
	SaveTree(ctx context.Context, nodes []domain.CategoryNode) error
	Tree(ctx context.Context) ([]domain.CategoryNode, error)
}

type categoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r *categoryRepository) SaveTree(ctx context.Context, nodes []domain.CategoryNode) error {
	query := `
	INSERT INTO categories_tree (id, data)
	VALUES ($1, $2)
	ON CONFLICT (id)
	DO UPDATE SET data = $2`
	_, err := r.db.Exec(ctx, query, categoriesTreeID, nodes)
	if err != nil {
		return fmt.Errorf("failed to save categories tree: %w", err)
	}

	return nil
}

func (r *categoryRepository) Tree(ctx context.Context) ([]domain.CategoryNode, error) {
	var nodes []domain.CategoryNode
	err := r.db.QueryRow(ctx, `SELECT data FROM categories_tree WHERE id = $1`, categoriesTreeID).Scan(&nodes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load categories tree: %w", err)
	}

	return nodes, nil
}
