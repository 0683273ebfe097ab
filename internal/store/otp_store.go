package store

import (
	"context"
	"time"

	"rh-platform/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OtpStore struct{ db *gorm.DB }

func (s *Store) OTPs() *OtpStore { return &OtpStore{db: s.DB} }

func (o *OtpStore) Get(ctx context.Context, email, purpose string) (*domain.OtpCode, error) {
	var code domain.OtpCode
	err := o.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", NormalizeEmail(email), purpose).
		Order("id DESC").
		First(&code).Error
	if err != nil {
		return nil, translate(err)
	}
	return &code, nil
}

// Upsert replaces the single live code for (email, purpose).
func (o *OtpStore) Upsert(ctx context.Context, c *domain.OtpCode) error {
	now := time.Now().UTC()
	c.Email = NormalizeEmail(c.Email)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	// Requires the unique index on (email, purpose) (see domain tag).
	return translate(o.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}, {Name: "purpose"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "attempts", "last_sent_at", "updated_at"}),
	}).Create(c).Error)
}

// IncrementAttempts claims one attempt on c while the stored counter is below
// max. It reports false when the budget was already spent, which also covers
// a concurrent verifier claiming the last attempt first.
func (o *OtpStore) IncrementAttempts(ctx context.Context, c *domain.OtpCode, max int) (bool, error) {
	res := o.db.WithContext(ctx).
		Model(&domain.OtpCode{}).
		Where("id = ? AND attempts < ?", c.ID, max).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	c.Attempts++
	return true, nil
}
