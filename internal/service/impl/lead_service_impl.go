package impl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rh-platform/internal/domain"
	"rh-platform/internal/dto"
	"rh-platform/internal/events"
	"rh-platform/internal/observability/metrics"
	"rh-platform/internal/store"

	"github.com/google/uuid"
)

type LeadServiceImpl struct {
	store  *store.Store
	events events.Emitter
	now    func() time.Time
}

func NewLeadServiceImpl(st *store.Store, ev events.Emitter) *LeadServiceImpl {
	if ev == nil {
		ev = events.Nop{}
	}
	return &LeadServiceImpl{store: st, events: ev, now: time.Now}
}

func (l *LeadServiceImpl) Create(ctx context.Context, userID domain.UserID, r dto.LeadCreate) (*domain.Lead, error) {
	productType := strings.TrimSpace(r.ProductType)
	name := strings.TrimSpace(r.Name)
	if productType == "" || name == "" {
		return nil, fmt.Errorf("%w: product_type and name are required", domain.ErrValidation)
	}
	leadType := domain.LeadType(strings.ToLower(strings.TrimSpace(r.LeadType)))
	incentive, ok := domain.IncentiveFor(leadType)
	if !ok {
		return nil, fmt.Errorf("%w: lead_type must be one of self, partner, referral, cold", domain.ErrValidation)
	}
	if leadType == domain.LeadTypeCold && !r.ConsentConfirmed {
		return nil, fmt.Errorf("%w: consent must be confirmed for cold leads", domain.ErrValidation)
	}
	details, err := productDetails(r.ProductDetails)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	lead := &domain.Lead{
		ID:                uuid.New(),
		UserID:            userID,
		ProductType:       productType,
		LeadType:          leadType,
		Status:            domain.LeadStatusNew,
		IncentiveType:     incentive.Type,
		IncentiveStatus:   domain.IncentivePending,
		ExpectedPayout:    incentive.ExpectedPayout,
		Name:              name,
		Email:             trimmed(r.Email),
		Phone:             trimmed(r.Phone),
		City:              trimmed(r.City),
		Requirement:       trimmed(r.Requirement),
		ProductDetails:    details,
		ConsentConfirmed:  r.ConsentConfirmed,
		ConvertToReferral: r.ConvertToReferral,
		CreatedAt:         now,
	}
	if err := l.store.WithTx(ctx, func(tx *store.Store) error {
		return tx.Leads().Create(ctx, lead)
	}); err != nil {
		return nil, err
	}

	metrics.LeadsCreatedTotal.WithLabelValues(string(leadType)).Inc()
	l.events.Emit(ctx, events.LeadSubmitted{LeadID: lead.ID.String(), UserID: userID.String(), LeadType: string(leadType), At: now})
	return lead, nil
}

func (l *LeadServiceImpl) ListMine(ctx context.Context, userID domain.UserID) ([]*domain.Lead, error) {
	return l.store.Leads().ListByUser(ctx, userID)
}

// GetMine hides leads owned by other users behind ErrNotFound.
func (l *LeadServiceImpl) GetMine(ctx context.Context, userID domain.UserID, leadID domain.LeadID) (*domain.Lead, error) {
	lead, err := l.store.Leads().GetForUser(ctx, userID, leadID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return lead, err
}

func (l *LeadServiceImpl) List(ctx context.Context, page dto.Page) ([]*domain.Lead, error) {
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}
	return l.store.Leads().List(ctx, page.Search, page.Limit, page.Offset)
}

func (l *LeadServiceImpl) Get(ctx context.Context, leadID domain.LeadID) (*domain.Lead, error) {
	lead, err := l.store.Leads().Get(ctx, leadID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return lead, err
}

func (l *LeadServiceImpl) UpdateStatus(ctx context.Context, leadID domain.LeadID, r dto.LeadStatusUpdate) (*domain.Lead, error) {
	fields := map[string]any{}
	if r.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Status))
		if _, ok := domain.LeadStatuses[s]; !ok {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *r.Status)
		}
		fields["status"] = s
	}
	if r.IncentiveStatus != nil {
		s := strings.ToLower(strings.TrimSpace(*r.IncentiveStatus))
		if _, ok := domain.IncentiveStatuses[s]; !ok {
			return nil, fmt.Errorf("%w: unknown incentive_status %q", domain.ErrValidation, *r.IncentiveStatus)
		}
		fields["incentive_status"] = s
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	var out *domain.Lead
	err := l.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Leads().UpdateStatus(ctx, leadID, fields); err != nil {
			return err
		}
		lead, err := tx.Leads().Get(ctx, leadID)
		out = lead
		return err
	})
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l.events.Emit(ctx, events.LeadStatusChanged{
		LeadID: out.ID.String(), Status: out.Status, IncentiveStatus: out.IncentiveStatus, At: l.now().UTC(),
	})
	return out, nil
}

// productDetails accepts a JSON object (or nothing) and stores it compacted.
func productDetails(raw json.RawMessage) ([]byte, error) {
	trimmedRaw := bytes.TrimSpace(raw)
	if len(trimmedRaw) == 0 || bytes.Equal(trimmedRaw, []byte("null")) {
		return []byte("{}"), nil
	}
	if trimmedRaw[0] != '{' {
		return nil, fmt.Errorf("%w: product_details must be an object", domain.ErrValidation)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmedRaw); err != nil {
		return nil, fmt.Errorf("%w: product_details is not valid JSON", domain.ErrValidation)
	}
	return buf.Bytes(), nil
}

// normalizePage applies the listing bounds: limit 1..500 (0 means default), offset >= 0.
func normalizePage(p dto.Page) (dto.Page, error) {
	if p.Limit == 0 {
		p.Limit = dto.DefaultPageLimit
	}
	if p.Limit < 1 || p.Limit > dto.MaxPageLimit {
		return p, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, dto.MaxPageLimit)
	}
	if p.Offset < 0 {
		return p, fmt.Errorf("%w: offset must not be negative", domain.ErrValidation)
	}
	p.Search = strings.TrimSpace(p.Search)
	return p, nil
}
