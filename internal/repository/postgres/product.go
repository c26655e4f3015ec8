package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/repository"
)

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO products (id, provider_id, name, base_price, unit_type, is_rentable, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.ProviderID, p.Name, p.BasePrice, p.UnitType, p.IsRentable, p.CreatedAt)
	return err
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT id, provider_id, name, base_price, unit_type, is_rentable, created_at FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.ProviderID, &p.Name, &p.BasePrice, &p.UnitType, &p.IsRentable, &p.CreatedAt)
	if err != nil {
		return nil, lookupErr(err, "product", id)
	}
	return p, nil
}
