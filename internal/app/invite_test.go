package app

import (
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteServiceRoundTrip(t *testing.T) {
	svc := NewInviteService("test-secret", "supersuit", time.Hour)

	token, err := svc.Issue("match-1", "owner-1")
	require.NoError(t, err)

	claims, err := svc.Verify(token, "match-1")
	require.NoError(t, err)
	assert.Equal(t, "match-1", claims.MatchID)
	assert.Equal(t, "owner-1", claims.Subject)
	assert.Equal(t, "supersuit", claims.Issuer)
}

func TestInviteServiceRejectsOtherMatch(t *testing.T) {
	svc := NewInviteService("test-secret", "supersuit", time.Hour)
	token, err := svc.Issue("match-1", "owner-1")
	require.NoError(t, err)

	_, err = svc.Verify(token, "match-2")
	assert.ErrorIs(t, err, ErrInviteMismatch)
}

func TestInviteServiceRejectsExpiredToken(t *testing.T) {
	svc := NewInviteService("test-secret", "supersuit", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.Issue("match-1", "owner-1")
	require.NoError(t, err)

	_, err = svc.Verify(token, "match-1")
	assert.ErrorIs(t, err, ErrInviteInvalid)
}

func TestInviteServiceRejectsForeignSignature(t *testing.T) {
	other := NewInviteService("other-secret", "supersuit", time.Hour)
	token, err := other.Issue("match-1", "owner-1")
	require.NoError(t, err)

	svc := NewInviteService("test-secret", "supersuit", time.Hour)
	_, err = svc.Verify(token, "match-1")
	assert.ErrorIs(t, err, ErrInviteInvalid)
}

func TestInviteServiceRejectsNoneAlgorithm(t *testing.T) {
	claims := InviteClaims{MatchID: "match-1", StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc := NewInviteService("test-secret", "", time.Hour)
	_, err = svc.Verify(token, "match-1")
	assert.ErrorIs(t, err, ErrInviteInvalid)
}

func TestInviteServiceRequiresConfiguration(t *testing.T) {
	_, err := NewInviteService("", "supersuit", 0).Issue("match-1", "owner-1")
	assert.Error(t, err)

	_, err = NewInviteService("secret", "supersuit", 0).Issue("", "owner-1")
	assert.Error(t, err)

	var nilSvc *InviteService
	_, err = nilSvc.Verify("token", "match-1")
	assert.Error(t, err)
}
