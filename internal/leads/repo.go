package leads

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/adbroadcast/website-backend/pkg/db/models"
)

// Repository persists leads.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to lead operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one lead row; the assigned id is written back to lead.
func (r *Repository) Create(ctx context.Context, lead *models.Lead) error {
	if lead == nil {
		return errors.New("lead is required")
	}
	return r.db.WithContext(ctx).Create(lead).Error
}
