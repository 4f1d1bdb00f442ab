package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harvestmarket/cache-service/internal/core/domain/farmer"
	"github.com/harvestmarket/cache-service/internal/core/ports"
	"github.com/harvestmarket/cache-service/internal/infrastructure/db"
)

// FarmerRepository implements the farmer repository interface over Postgres
type FarmerRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewFarmerRepository creates a new farmer repository
func NewFarmerRepository(database *db.Database, logger *logrus.Logger) ports.FarmerRepository {
	return &FarmerRepository{
		db:     database,
		logger: logger,
	}
}

// Create registers a new farmer
func (r *FarmerRepository) Create(ctx context.Context, f *farmer.Farmer) error {
	query := `
		INSERT INTO farmers (id, name, farm_name, region, rating, verified)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.DB.ExecContext(ctx, query,
		f.ID, f.Name, f.FarmName, f.Region, f.Rating, f.Verified)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"farmer_id": f.ID, "farm_name": f.FarmName}).WithError(err).Error("db: failed to create farmer")
		}
		return fmt.Errorf("failed to create farmer: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"farmer_id": f.ID, "farm_name": f.FarmName}).Info("db: farmer created")
	}

	return nil
}

// GetByID retrieves a farmer by ID
func (r *FarmerRepository) GetByID(ctx context.Context, id uuid.UUID) (*farmer.Farmer, error) {
	var f farmer.Farmer
	query := `
		SELECT id, name, farm_name, region, rating, verified, created_at, updated_at
		FROM farmers
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &f, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"farmer_id": id}).Debug("db: farmer not found by ID")
			}
			return nil, fmt.Errorf("farmer with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"farmer_id": id}).WithError(err).Error("db: failed to get farmer by ID")
		}
		return nil, fmt.Errorf("failed to get farmer by ID: %w", err)
	}

	return &f, nil
}

// Update updates an existing farmer
func (r *FarmerRepository) Update(ctx context.Context, f *farmer.Farmer) error {
	query := `
		UPDATE farmers
		SET name = $2, farm_name = $3, region = $4, rating = $5, verified = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		f.ID, f.Name, f.FarmName, f.Region, f.Rating, f.Verified, f.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"farmer_id": f.ID}).WithError(err).Error("db: failed to update farmer")
		}
		return fmt.Errorf("failed to update farmer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"farmer_id": f.ID}).WithError(err).Error("db: failed to get rows affected on update")
		}
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"farmer_id": f.ID}).Debug("db: update affected 0 rows - farmer not found")
		}
		return fmt.Errorf("farmer with ID %s not found", f.ID)
	}

	return nil
}

// List retrieves farmers with pagination
func (r *FarmerRepository) List(ctx context.Context, limit, offset int) ([]*farmer.Farmer, error) {
	var farmers []*farmer.Farmer
	query := `
		SELECT id, name, farm_name, region, rating, verified, created_at, updated_at
		FROM farmers
		ORDER BY farm_name ASC
		LIMIT $1 OFFSET $2`

	err := r.db.DB.SelectContext(ctx, &farmers, query, limit, offset)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list farmers")
		}
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}

	return farmers, nil
}
