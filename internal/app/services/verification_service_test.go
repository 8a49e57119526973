package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/throttle"
)

type verificationFixture struct {
	elections *fakeElectionStore
	roster    *fakeRosterStore
	codes     *fakeCodeStore
	mailer    *fakeMailer
	service   *VerificationService
}

// newVerificationFixture wires a service over fakes with an active election
// (ID 1) and one roster member. resendInterval zero disables throttling.
func newVerificationFixture(t *testing.T, resendInterval time.Duration) *verificationFixture {
	t.Helper()

	elections := newFakeElectionStore()
	roster := newFakeRosterStore()
	codes := newFakeCodeStore()
	mailer := &fakeMailer{}

	election := &models.Election{Title: "Board Election", Status: models.ElectionActive, Mode: models.ModePlurality}
	if err := elections.Create(context.Background(), election); err != nil {
		t.Fatalf("Failed to seed election: %v", err)
	}

	err := roster.ReplaceAll(context.Background(), election.ID, []*models.RosterEntry{
		{ExternalID: "S100", Email: "jdoe@example.edu", FullName: "Jo Doe"},
	})
	if err != nil {
		t.Fatalf("Failed to seed roster: %v", err)
	}

	limiter := throttle.NewLimiter(throttle.NewMemoryStore(time.Hour), resendInterval)
	service := NewVerificationService(elections, roster, codes, mailer, limiter, 10*time.Minute, testLogger())

	return &verificationFixture{
		elections: elections,
		roster:    roster,
		codes:     codes,
		mailer:    mailer,
		service:   service,
	}
}

func TestRequestCode(t *testing.T) {
	fx := newVerificationFixture(t, 0)

	masked, err := fx.service.RequestCode(context.Background(), 1, "S100", "jdoe@example.edu")
	if err != nil {
		t.Fatalf("RequestCode returned error: %v", err)
	}

	if masked != "j***@e***.edu" {
		t.Errorf("Expected masked email 'j***@e***.edu', got '%s'", masked)
	}

	mail := fx.mailer.last()
	if mail == nil {
		t.Fatal("Expected a voting code email to be sent")
	}
	if mail.ToEmail != "jdoe@example.edu" {
		t.Errorf("Expected email to 'jdoe@example.edu', got '%s'", mail.ToEmail)
	}
	if mail.ElectionTitle != "Board Election" {
		t.Errorf("Expected election title in email, got '%s'", mail.ElectionTitle)
	}
	if len(mail.Code) != 6 {
		t.Errorf("Expected a 6-digit code, got '%s'", mail.Code)
	}

	stored := fx.codes.get(1, "S100")
	if stored == nil {
		t.Fatal("Expected the code to be persisted")
	}
	if stored.Code != mail.Code {
		t.Error("Stored code should match the emailed code")
	}
	ttl := time.Until(stored.ExpiresAt)
	if ttl < 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("Expected roughly 10 minute expiry, got %v", ttl)
	}
}

func TestRequestCodeEmailMatchIsCaseInsensitive(t *testing.T) {
	fx := newVerificationFixture(t, 0)

	if _, err := fx.service.RequestCode(context.Background(), 1, "S100", "JDoe@Example.EDU"); err != nil {
		t.Errorf("Case-differing email should match, got error: %v", err)
	}
}

func TestRequestCodeGates(t *testing.T) {
	tests := []struct {
		name        string
		prepare     func(fx *verificationFixture)
		electionID  int64
		externalID  string
		email       string
		expectedErr error
	}{
		{
			name:        "unknown election",
			electionID:  42,
			externalID:  "S100",
			email:       "jdoe@example.edu",
			expectedErr: apperrors.ErrElectionNotFound,
		},
		{
			name: "draft election",
			prepare: func(fx *verificationFixture) {
				fx.elections.UpdateStatus(context.Background(), 1, models.ElectionDraft)
			},
			electionID:  1,
			externalID:  "S100",
			email:       "jdoe@example.edu",
			expectedErr: apperrors.ErrElectionNotActive,
		},
		{
			name: "suspended election",
			prepare: func(fx *verificationFixture) {
				fx.elections.Suspend(context.Background(), 1, "ballot dispute")
			},
			electionID:  1,
			externalID:  "S100",
			email:       "jdoe@example.edu",
			expectedErr: apperrors.ErrElectionNotActive,
		},
		{
			name:        "not on roster",
			electionID:  1,
			externalID:  "S999",
			email:       "someone@example.edu",
			expectedErr: apperrors.ErrNotOnRoster,
		},
		{
			name:        "email does not match roster entry",
			electionID:  1,
			externalID:  "S100",
			email:       "other@example.edu",
			expectedErr: apperrors.ErrNotOnRoster,
		},
		{
			name: "already voted",
			prepare: func(fx *verificationFixture) {
				fx.roster.mu.Lock()
				fx.roster.markVoted(1, "S100")
				fx.roster.mu.Unlock()
			},
			electionID:  1,
			externalID:  "S100",
			email:       "jdoe@example.edu",
			expectedErr: apperrors.ErrAlreadyVoted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newVerificationFixture(t, 0)
			if tt.prepare != nil {
				tt.prepare(fx)
			}

			_, err := fx.service.RequestCode(context.Background(), tt.electionID, tt.externalID, tt.email)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("Expected %v, got %v", tt.expectedErr, err)
			}
			if fx.mailer.last() != nil {
				t.Error("No email should be sent when a gate rejects the request")
			}
		})
	}
}

func TestRequestCodeThrottled(t *testing.T) {
	fx := newVerificationFixture(t, time.Minute)

	if _, err := fx.service.RequestCode(context.Background(), 1, "S100", "jdoe@example.edu"); err != nil {
		t.Fatalf("First request should succeed: %v", err)
	}

	_, err := fx.service.RequestCode(context.Background(), 1, "S100", "jdoe@example.edu")
	if !errors.Is(err, apperrors.ErrCodeRequestThrottled) {
		t.Errorf("Expected ErrCodeRequestThrottled, got %v", err)
	}
	if len(fx.mailer.sent) != 1 {
		t.Errorf("Expected exactly one email, got %d", len(fx.mailer.sent))
	}
}

func TestRequestCodeRotatesPriorCode(t *testing.T) {
	fx := newVerificationFixture(t, 0)
	ctx := context.Background()

	if _, err := fx.service.RequestCode(ctx, 1, "S100", "jdoe@example.edu"); err != nil {
		t.Fatalf("First request failed: %v", err)
	}
	firstCode := fx.mailer.last().Code

	if _, err := fx.service.RequestCode(ctx, 1, "S100", "jdoe@example.edu"); err != nil {
		t.Fatalf("Second request failed: %v", err)
	}
	secondCode := fx.mailer.last().Code

	if _, err := fx.service.LookupValidCode(ctx, 1, "S100", secondCode); err != nil {
		t.Errorf("Latest code should validate: %v", err)
	}
	if firstCode != secondCode {
		if _, err := fx.service.LookupValidCode(ctx, 1, "S100", firstCode); !errors.Is(err, apperrors.ErrInvalidOrExpiredCode) {
			t.Errorf("Superseded code should be invalid, got %v", err)
		}
	}
}

func TestLookupValidCodeExpiry(t *testing.T) {
	fx := newVerificationFixture(t, 0)
	ctx := context.Background()

	if _, err := fx.service.RequestCode(ctx, 1, "S100", "jdoe@example.edu"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	code := fx.mailer.last().Code

	// Force the stored code past its expiry
	stored := fx.codes.get(1, "S100")
	fx.codes.mu.Lock()
	stored.ExpiresAt = time.Now().Add(-time.Second)
	fx.codes.codes[rosterKey{1, "S100"}] = stored
	fx.codes.mu.Unlock()

	if _, err := fx.service.LookupValidCode(ctx, 1, "S100", code); !errors.Is(err, apperrors.ErrInvalidOrExpiredCode) {
		t.Errorf("Expected ErrInvalidOrExpiredCode for lapsed code, got %v", err)
	}
}

func TestLookupValidCodeDoesNotConsume(t *testing.T) {
	fx := newVerificationFixture(t, 0)
	ctx := context.Background()

	if _, err := fx.service.RequestCode(ctx, 1, "S100", "jdoe@example.edu"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	code := fx.mailer.last().Code

	for i := 0; i < 3; i++ {
		if _, err := fx.service.LookupValidCode(ctx, 1, "S100", code); err != nil {
			t.Fatalf("Lookup %d should succeed, got %v", i, err)
		}
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		addr     string
		expected string
	}{
		{"jdoe@example.edu", "j***@e***.edu"},
		{"a@b.org", "a***@b***.org"},
		{"longlocalpart@subdomain.example.com", "l***@s***.com"},
		{"nodomain", "***"},
		{"@example.edu", "***"},
		{"user@nodot", "u***@***"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := MaskEmail(tt.addr); got != tt.expected {
				t.Errorf("MaskEmail(%q) = %q, want %q", tt.addr, got, tt.expected)
			}
		})
	}
}
