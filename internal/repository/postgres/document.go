package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, d *domain.Document) error {
	query := `INSERT INTO documents (client_id, number, verified, active, expires_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, d.ClientID, d.Number, d.Verified, d.Active, d.ExpiresOn).Scan(&d.ID)
}

func (r *documentRepository) GetActiveByClient(ctx context.Context, clientID int32) (*domain.Document, error) {
	d := &domain.Document{}
	query := `SELECT id, client_id, number, verified, active, expires_on
	          FROM documents WHERE client_id = $1 AND active = true
	          ORDER BY expires_on DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(&d.ID, &d.ClientID, &d.Number, &d.Verified, &d.Active, &d.ExpiresOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active document for client %d: %w", clientID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
