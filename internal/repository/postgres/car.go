package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (brand, model, body_type, car_class, registration_plate, daily_rate_cents)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.Brand, c.Model, c.BodyType, c.CarClass, c.RegistrationPlate, c.DailyRateCents).Scan(&c.ID)
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	c := &domain.Car{}
	query := `SELECT id, brand, model, body_type, car_class, registration_plate, daily_rate_cents FROM cars WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Brand, &c.Model, &c.BodyType, &c.CarClass, &c.RegistrationPlate, &c.DailyRateCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("car %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
