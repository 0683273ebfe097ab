package store

import (
	"context"
	"strings"
	"time"

	"rh-platform/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadStore struct{ db *gorm.DB }

func (s *Store) Leads() *LeadStore { return &LeadStore{db: s.DB} }

func (l *LeadStore) Create(ctx context.Context, lead *domain.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	now := time.Now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now
	return translate(l.db.WithContext(ctx).Omit("User").Create(lead).Error)
}

func (l *LeadStore) Get(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	if err := l.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &lead, nil
}

func (l *LeadStore) GetForUser(ctx context.Context, userID, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	if err := l.db.WithContext(ctx).First(&lead, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, translate(err)
	}
	return &lead, nil
}

func (l *LeadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Lead, error) {
	var leads []*domain.Lead
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// List returns all leads newest first, optionally filtered by a
// case-insensitive substring of the lead name.
func (l *LeadStore) List(ctx context.Context, search string, limit, offset int) ([]*domain.Lead, error) {
	q := l.db.WithContext(ctx).Model(&domain.Lead{})
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var leads []*domain.Lead
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (l *LeadStore) UpdateStatus(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	tx := l.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
