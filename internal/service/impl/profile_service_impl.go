package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
	"rh-platform/internal/store"
)

type ProfileServiceImpl struct {
	store *store.Store
	now   func() time.Time
}

func NewProfileServiceImpl(st *store.Store) *ProfileServiceImpl {
	return &ProfileServiceImpl{store: st, now: time.Now}
}

func (p *ProfileServiceImpl) UpdateOnboarding(ctx context.Context, userID domain.UserID, completed bool) (*domain.User, error) {
	var out *domain.User
	err := p.store.WithTx(ctx, func(tx *store.Store) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		u.OnboardingCompleted = completed
		out = u
		return tx.Users().Save(ctx, u)
	})
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return out, err
}

// UpdateProfile applies the present fields of r. The completion stamp is set
// the first time every profile field is filled and is never cleared after.
func (p *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID domain.UserID, r dto.ProfileUpdate) (*domain.User, error) {
	var dob *time.Time
	if r.DOB != nil {
		parsed, err := parseDOB(*r.DOB)
		if err != nil {
			return nil, err
		}
		dob = parsed
	}

	now := p.now().UTC()
	var out *domain.User
	err := p.store.WithTx(ctx, func(tx *store.Store) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if r.Username != nil {
			username := clearable(r.Username)
			if username != nil {
				other, err := tx.Users().GetByUsername(ctx, *username)
				switch {
				case err == nil && other.ID != u.ID:
					return domain.ErrUsernameTaken
				case err != nil && !errors.Is(err, store.ErrRecordNotFound):
					return err
				}
			}
			u.Username = username
		}
		if r.DOB != nil {
			u.DOB = dob
		}
		applyString(&u.FullName, r.FullName)
		applyString(&u.Phone, r.Phone)
		applyString(&u.Country, r.Country)
		applyString(&u.AddressLine, r.AddressLine)
		applyString(&u.City, r.City)
		applyString(&u.Postcode, r.Postcode)

		if u.MarkProfileCompleted(now) {
			logFor(ctx).Info("profile completed", "user_id", u.ID)
		}
		out = u
		return tx.Users().Save(ctx, u)
	})
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return nil, domain.ErrNotFound
	case errors.Is(err, store.ErrDuplicateKey):
		// lost a race on the username index
		return nil, domain.ErrUsernameTaken
	case err != nil:
		return nil, err
	}
	return out, nil
}

// parseDOB accepts YYYY-MM-DD or RFC 3339. An empty value clears the date.
func parseDOB(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d, nil
	}
	return nil, fmt.Errorf("%w: dob must be YYYY-MM-DD", domain.ErrValidation)
}

// clearable maps a present field onto its stored value: blank clears it.
func clearable(s *string) *string {
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func applyString(dst **string, src *string) {
	if src == nil {
		return
	}
	*dst = clearable(src)
}
