package domain

import (
	"testing"
	"time"
)

func strp(s string) *string { return &s }

func completeUser() *User {
	dob := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	return &User{
		Phone:       strp("+91 98765 43210"),
		FullName:    strp("Asha Rao"),
		Username:    strp("asha"),
		DOB:         &dob,
		Country:     strp("IN"),
		AddressLine: strp("12 MG Road"),
		City:        strp("Pune"),
		Postcode:    strp("411001"),
	}
}

func TestIsProfileComplete(t *testing.T) {
	tests := []struct {
		name  string
		clear func(u *User)
		want  bool
	}{
		{name: "all fields", clear: func(u *User) {}, want: true},
		{name: "missing phone", clear: func(u *User) { u.Phone = nil }, want: false},
		{name: "empty username", clear: func(u *User) { u.Username = strp("") }, want: false},
		{name: "missing dob", clear: func(u *User) { u.DOB = nil }, want: false},
		{name: "missing postcode", clear: func(u *User) { u.Postcode = nil }, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := completeUser()
			tc.clear(u)
			if got := u.IsProfileComplete(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestMarkProfileCompletedIsMonotonic(t *testing.T) {
	u := completeUser()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if !u.MarkProfileCompleted(now) {
		t.Fatalf("expected first mark to stamp completion")
	}
	if u.ProfileCompletedAt == nil || !u.ProfileCompletedAt.Equal(now) {
		t.Fatalf("unexpected completion stamp: %v", u.ProfileCompletedAt)
	}

	u.Phone = nil
	u.City = strp("")
	if !u.IsProfileComplete() {
		t.Fatalf("expected profile to stay complete after clearing fields")
	}
	if u.MarkProfileCompleted(now.Add(time.Hour)) {
		t.Fatalf("expected second mark to be a no-op")
	}
	if !u.ProfileCompletedAt.Equal(now) {
		t.Fatalf("completion stamp moved: %v", u.ProfileCompletedAt)
	}
}

func TestMarkProfileCompletedRequiresAllFields(t *testing.T) {
	u := completeUser()
	u.Country = nil
	if u.MarkProfileCompleted(time.Now()) {
		t.Fatalf("expected incomplete profile not to be stamped")
	}
	if u.ProfileCompletedAt != nil {
		t.Fatalf("expected no completion stamp")
	}
}

func TestOtpCodeCoolingDown(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sent := now.Add(-30 * time.Second)
	code := &OtpCode{ExpiresAt: now.Add(10 * time.Minute), LastSentAt: &sent}

	if !code.CoolingDown(now, time.Minute) {
		t.Fatalf("expected cooldown 30s after send")
	}
	if code.CoolingDown(now.Add(31*time.Second), time.Minute) {
		t.Fatalf("expected cooldown to end after 60s")
	}
	code.ExpiresAt = now.Add(-time.Second)
	if code.CoolingDown(now, time.Minute) {
		t.Fatalf("expired code must not block a resend")
	}
}

func TestIncentiveFor(t *testing.T) {
	in, ok := IncentiveFor(LeadTypeCold)
	if !ok || in.ExpectedPayout == nil || *in.ExpectedPayout != "Up to 25% payout" {
		t.Fatalf("unexpected cold incentive: %+v", in)
	}
	in, ok = IncentiveFor(LeadTypeSelf)
	if !ok || in.ExpectedPayout != nil {
		t.Fatalf("self leads carry no payout: %+v", in)
	}
	if _, ok := IncentiveFor("warm"); ok {
		t.Fatalf("expected unknown lead type")
	}
}
