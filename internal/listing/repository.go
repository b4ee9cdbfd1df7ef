// File: internal/listing/repository.go
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ldw80203/house-video/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for listings.
type Repository interface {
	Create(ctx context.Context, l *Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListPublished returns published listings newest first, narrowed by the
	// filter's present fields.
	ListPublished(ctx context.Context, f Filter) ([]Listing, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]Listing, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error)
	// UnpublishOlderThan marks published listings created before the cutoff as
	// unpublished and returns how many rows changed.
	UnpublishOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM listing repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, l *Listing) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("creating listing: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var l Listing
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("Listing with ID %s not found.", id))
		}
		return nil, fmt.Errorf("finding listing by ID %s: %w", id, err)
	}
	return &l, nil
}

func (r *gormRepository) Update(ctx context.Context, l *Listing) error {
	result := r.db.WithContext(ctx).Model(&Listing{}).Where("id = ?", l.ID).
		Select("*").Omit("id", "created_at").Updates(l)
	if result.Error != nil {
		return fmt.Errorf("updating listing %s: %w", l.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(fmt.Sprintf("Listing with ID %s not found for update.", l.ID))
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Listing{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting listing %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails(fmt.Sprintf("Listing with ID %s not found for deletion.", id))
	}
	return nil
}

func (r *gormRepository) ListPublished(ctx context.Context, f Filter) ([]Listing, error) {
	query := r.db.WithContext(ctx).Model(&Listing{}).Where("is_published = ?", true)

	if f.District != nil {
		query = query.Where("district = ?", *f.District)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.RoomType != nil {
		query = query.Where("room_type = ?", *f.RoomType)
	}

	var listings []Listing
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("listing published listings: %w", err)
	}
	return listings, nil
}

func (r *gormRepository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]Listing, error) {
	var listings []Listing
	err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("listing listings for agent %s: %w", agentID, err)
	}
	return listings, nil
}

func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Listing, error) {
	if len(ids) == 0 {
		return []Listing{}, nil
	}
	var listings []Listing
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("finding listings by IDs: %w", err)
	}
	return listings, nil
}

func (r *gormRepository) UnpublishOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Listing{}).
		Where("is_published = ? AND created_at < ?", true, cutoff).
		Update("is_published", false)
	if result.Error != nil {
		return 0, fmt.Errorf("unpublishing listings older than %s: %w", cutoff, result.Error)
	}
	return result.RowsAffected, nil
}
