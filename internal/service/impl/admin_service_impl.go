package impl

import (
	"context"
	"errors"
	"strings"
	"time"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
	"rh-platform/internal/service"
	"rh-platform/internal/store"
)

type AdminServiceImpl struct {
	store     *store.Store
	passwords service.PasswordService
	now       func() time.Time
}

func NewAdminServiceImpl(st *store.Store, passwords service.PasswordService) *AdminServiceImpl {
	return &AdminServiceImpl{store: st, passwords: passwords, now: time.Now}
}

func (a *AdminServiceImpl) ListUsers(ctx context.Context, page dto.Page) ([]*domain.User, error) {
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}
	return a.store.Users().List(ctx, page.Search, page.Limit, page.Offset)
}

func (a *AdminServiceImpl) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u, err := a.store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

// EnsureSuperadmin creates the bootstrap admin, or promotes an existing
// account and resets its password. It returns nil, nil when unconfigured.
func (a *AdminServiceImpl) EnsureSuperadmin(ctx context.Context, email, password string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		logFor(ctx).Warn("superadmin bootstrap skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil, nil
	}
	email, err := normalizeEmailInput(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := a.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	var out *domain.User
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		u, err := tx.Users().GetByEmail(ctx, email)
		switch {
		case err == nil:
			u.Role = domain.RoleAdmin
			u.PasswordHash = hash
			if u.EmailVerifiedAt == nil {
				u.EmailVerifiedAt = &now
			}
			out = u
			return tx.Users().Save(ctx, u)
		case errors.Is(err, store.ErrRecordNotFound):
			name := "Super Admin"
			out = &domain.User{
				Email:           email,
				Name:            &name,
				PasswordHash:    hash,
				Role:            domain.RoleAdmin,
				EmailVerifiedAt: &now,
			}
			return tx.Users().Create(ctx, out)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	logFor(ctx).Info("superadmin ensured", "user_id", out.ID, "email", out.Email)
	return out, nil
}
