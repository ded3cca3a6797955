package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/consultly/verification-api/internal/domain"
	"github.com/consultly/verification-api/internal/infrastructure/sns"
	"github.com/consultly/verification-api/internal/pkg/otp"
	"github.com/consultly/verification-api/internal/pkg/phonelock"
)

// smsBody is the wording the end user receives. Part of the behavioural
// contract, do not reword casually.
const smsBody = "Your verification code is: %s. Valid for 10 minutes."

// RecordStore is the verification record store consumed by the orchestrator.
type RecordStore interface {
	Create(ctx context.Context, phone, code string, expiresAt time.Time) (string, error)
	FindByPhone(ctx context.Context, phone string) (*domain.VerificationRecord, error)
	FindByCode(ctx context.Context, code string) (*domain.VerificationRecord, error)
	Delete(ctx context.Context, verificationID string) error
}

// UserStore is the external user record store. The orchestrator reads the
// phone on file and commits the verified-phone fact; nothing else.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdatePhoneVerified(ctx context.Context, userID, phone string, verifiedAt time.Time) error
}

// Service is the phone-verification orchestrator: it issues, resends and
// redeems one-time codes, and commits the verified fact to the user record.
type Service interface {
	RequestCode(ctx context.Context, userID string) error
	VerifyCode(ctx context.Context, userID, phone, code string) error
	LookupByPhone(ctx context.Context, phone string) (*domain.VerificationRecord, error)
	LookupByCode(ctx context.Context, code string) (*domain.VerificationRecord, error)
}

type service struct {
	records RecordStore
	users   UserStore
	sms     sns.SMSSender
	locks   *phonelock.Map
}

func NewService(records RecordStore, users UserStore, sms sns.SMSSender) Service {
	return &service{
		records: records,
		users:   users,
		sms:     sms,
		locks:   phonelock.New(),
	}
}

// RequestCode issues a fresh code for the user's phone on file and delivers it
// by SMS. Any previously issued code for that phone is evicted first, so at
// most one code is outstanding per phone. A resend is simply another call.
func (s *service) RequestCode(ctx context.Context, userID string) error {
	if s.sms == nil {
		return fmt.Errorf("sms delivery not configured: %w", domain.ErrDeliveryFailed)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.Phone == nil || *u.Phone == "" {
		return fmt.Errorf("user %s: %w", userID, domain.ErrMissingPhone)
	}
	phone := *u.Phone

	s.locks.Lock(phone)
	defer s.locks.Unlock(phone)

	// Evict the prior record before creating the new one. A store failure on
	// either step is fatal to the request: no partial state surfaces as success.
	prev, err := s.records.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		if err := s.records.Delete(ctx, prev.VerificationID); err != nil {
			slog.Error("failed to evict prior verification record", "user_id", userID, "verification_id", prev.VerificationID, "err", err)
			return err
		}
	case errors.Is(err, domain.ErrCodeNotFound):
		// nothing outstanding
	default:
		slog.Error("verification record lookup failed", "user_id", userID, "err", err)
		return err
	}

	code, expiresAt, err := otp.Generate()
	if err != nil {
		return err
	}
	recID, err := s.records.Create(ctx, phone, code, expiresAt)
	if err != nil {
		slog.Error("failed to create verification record", "user_id", userID, "err", err)
		return err
	}

	receipt, err := s.sms.SendSMS(ctx, phone, fmt.Sprintf(smsBody, code))
	if err != nil {
		// The record stays in place: the user may still receive the code, and
		// a retried request evicts it anyway.
		slog.Warn("verification SMS delivery failed", "user_id", userID, "verification_id", recID, "err", err)
		return err
	}
	slog.Info("verification code sent", "user_id", userID, "verification_id", recID, "sns_message_id", receipt.MessageID)
	return nil
}

// VerifyCode redeems a submitted code for the given phone. Lookup is keyed by
// phone, never by code value: codes are not unique across phones. On success
// the submitted phone is written back to the user record together with the
// verified-at time, and the record is consumed.
func (s *service) VerifyCode(ctx context.Context, userID, phone, code string) error {
	s.locks.Lock(phone)
	defer s.locks.Unlock(phone)

	rec, err := s.records.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}

	if time.Now().Unix() > rec.ExpiresAt {
		// Destroy on detection so the expired code is not matchable again,
		// even within the same request burst.
		if err := s.records.Delete(ctx, rec.VerificationID); err != nil {
			slog.Warn("failed to delete expired verification record", "verification_id", rec.VerificationID, "err", err)
		}
		return fmt.Errorf("phone %s: %w", phone, domain.ErrCodeExpired)
	}

	if rec.Code != code {
		// Record kept: the user may retry until the window closes.
		return fmt.Errorf("phone %s: %w", phone, domain.ErrCodeMismatch)
	}

	if err := s.users.UpdatePhoneVerified(ctx, userID, phone, time.Now().UTC()); err != nil {
		slog.Error("failed to commit verified phone", "user_id", userID, "err", err)
		return err
	}
	if err := s.records.Delete(ctx, rec.VerificationID); err != nil {
		slog.Warn("failed to delete consumed verification record", "verification_id", rec.VerificationID, "err", err)
	}
	slog.Info("phone verified", "user_id", userID)
	return nil
}

// LookupByPhone returns the outstanding record for a phone. Support tooling only.
func (s *service) LookupByPhone(ctx context.Context, phone string) (*domain.VerificationRecord, error) {
	return s.records.FindByPhone(ctx, phone)
}

// LookupByCode returns a record carrying the given code value. Codes can
// collide across phones, so this is diagnostics only and never a verify path.
func (s *service) LookupByCode(ctx context.Context, code string) (*domain.VerificationRecord, error) {
	return s.records.FindByCode(ctx, code)
}
