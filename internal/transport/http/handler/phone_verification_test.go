package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/consultly/verification-api/internal/domain"
	jwtinfra "github.com/consultly/verification-api/internal/infrastructure/jwt"
	"github.com/consultly/verification-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) RequestCode(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockVerificationSvc) VerifyCode(ctx context.Context, userID, phone, code string) error {
	return m.Called(ctx, userID, phone, code).Error(0)
}

func (m *mockVerificationSvc) LookupByPhone(ctx context.Context, phone string) (*domain.VerificationRecord, error) {
	args := m.Called(ctx, phone)
	if r, _ := args.Get(0).(*domain.VerificationRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVerificationSvc) LookupByCode(ctx context.Context, code string) (*domain.VerificationRecord, error) {
	args := m.Called(ctx, code)
	if r, _ := args.Get(0).(*domain.VerificationRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func newRouter(svc *mockVerificationSvc) http.Handler {
	h := NewPhoneVerificationHandler(svc)
	adminH := NewAdminVerificationHandler(svc)
	r := chi.NewRouter()
	r.Post("/phone-verification/{action}", h.Action)
	r.Get("/phone-verifications", adminH.Lookup)
	return r
}

// authedReq builds a request carrying JWT claims, as the auth middleware would
// have injected them.
func authedReq(method, target, userID string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	claims := &jwtinfra.Claims{UserID: userID, Role: domain.RoleUser}
	return req.WithContext(context.WithValue(req.Context(), middleware.ClaimsKey, claims))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) VerificationEnvelope {
	t.Helper()
	var env VerificationEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

const testPhone = "+919999999999"

// --- request action ---

func TestAction_Request_Success(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "u1").Return(nil)

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/request", "u1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
	svc.AssertExpectations(t)
}

func TestAction_Request_NoClaims(t *testing.T) {
	svc := &mockVerificationSvc{}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/phone-verification/request", nil)
	newRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "RequestCode", mock.Anything, mock.Anything)
}

func TestAction_Request_MissingPhone(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "u1").Return(fmt.Errorf("user u1: %w", domain.ErrMissingPhone))

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/request", "u1", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, "no phone number on account", env.Error)
}

func TestAction_Request_DeliveryFailure_SafeMessage(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "u1").
		Return(fmt.Errorf("sns publish: AuthorizationError: account blocked: %w", domain.ErrDeliveryFailed))

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/request", "u1", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	// Provider detail must not leak to the client.
	assert.Equal(t, "could not send verification code", env.Error)
	assert.NotContains(t, rr.Body.String(), "AuthorizationError")
}

func TestAction_UnknownAction(t *testing.T) {
	svc := &mockVerificationSvc{}

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/bogus", "u1", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- verify action ---

func verifyBody(t *testing.T, phone, code string) []byte {
	t.Helper()
	b, err := json.Marshal(domain.VerifyPhoneRequest{Phone: phone, Code: code})
	require.NoError(t, err)
	return b
}

func TestAction_Verify_Success(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("VerifyCode", mock.Anything, "u1", testPhone, "123456").Return(nil)

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/verify", "u1", verifyBody(t, testPhone, "123456")))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeEnvelope(t, rr).Success)
	svc.AssertExpectations(t)
}

func TestAction_Verify_ShortCode_RejectedBeforeService(t *testing.T) {
	svc := &mockVerificationSvc{}

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/verify", "u1", verifyBody(t, testPhone, "1234")))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertNotCalled(t, "VerifyCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAction_Verify_NonNumericCode_Rejected(t *testing.T) {
	svc := &mockVerificationSvc{}

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/verify", "u1", verifyBody(t, testPhone, "12a456")))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertNotCalled(t, "VerifyCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAction_Verify_ErrorMessages(t *testing.T) {
	cases := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{"not found", domain.ErrCodeNotFound, http.StatusNotFound, "verification code not found"},
		{"expired", domain.ErrCodeExpired, http.StatusUnprocessableEntity, "verification code has expired"},
		{"mismatch", domain.ErrCodeMismatch, http.StatusUnprocessableEntity, "invalid verification code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockVerificationSvc{}
			svc.On("VerifyCode", mock.Anything, "u1", testPhone, "123456").
				Return(fmt.Errorf("phone %s: %w", testPhone, tc.svcErr))

			rr := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/verify", "u1", verifyBody(t, testPhone, "123456")))

			assert.Equal(t, tc.wantStatus, rr.Code)
			env := decodeEnvelope(t, rr)
			assert.False(t, env.Success)
			assert.Equal(t, tc.wantMsg, env.Error)
		})
	}
}

func TestAction_Verify_InvalidBody(t *testing.T) {
	svc := &mockVerificationSvc{}

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodPost, "/phone-verification/verify", "u1", []byte("{not json")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- admin lookup ---

func TestAdminLookup_ByPhone_OmitsCode(t *testing.T) {
	svc := &mockVerificationSvc{}
	rec := &domain.VerificationRecord{
		VerificationID: "r1",
		Phone:          testPhone,
		Code:           "123456",
		ExpiresAt:      time.Now().Add(5 * time.Minute).Unix(),
	}
	svc.On("LookupByPhone", mock.Anything, testPhone).Return(rec, nil)

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodGet, "/phone-verifications?phone=%2B919999999999", "admin1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), testPhone)
	assert.NotContains(t, rr.Body.String(), "123456")
}

func TestAdminLookup_ByCode(t *testing.T) {
	svc := &mockVerificationSvc{}
	rec := &domain.VerificationRecord{VerificationID: "r1", Phone: testPhone, Code: "123456"}
	svc.On("LookupByCode", mock.Anything, "123456").Return(rec, nil)

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodGet, "/phone-verifications?code=123456", "admin1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "r1")
}

func TestAdminLookup_NotFound(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("LookupByPhone", mock.Anything, testPhone).
		Return(nil, fmt.Errorf("verification record: %w", domain.ErrCodeNotFound))

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodGet, "/phone-verifications?phone=%2B919999999999", "admin1", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminLookup_MissingParams(t *testing.T) {
	svc := &mockVerificationSvc{}

	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, authedReq(http.MethodGet, "/phone-verifications", "admin1", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
