package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// DefaultInviteTTL is the lifetime of a private-table invite.
const DefaultInviteTTL = 2 * time.Hour

var (
	ErrInviteInvalid  = errors.New("invite token invalid")
	ErrInviteMismatch = errors.New("invite token issued for another table")
)

// InviteClaims are the claims of a private-table invite token.
type InviteClaims struct {
	MatchID string `json:"mid"`
	jwt.StandardClaims
}

// InviteService issues and verifies HS256 invite tokens for private tables.
type InviteService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewInviteService(secret, issuer string, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	return &InviteService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a token that lets its bearer join matchID. owner is recorded as the subject.
func (s *InviteService) Issue(matchID, owner string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("invite secret is not configured")
	}

	now := s.now()
	claims := InviteClaims{
		MatchID: matchID,
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.issuer,
			Subject:   owner,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks that tokenString is a valid, unexpired invite for matchID.
func (s *InviteService) Verify(tokenString, matchID string) (*InviteClaims, error) {
	if s == nil || len(s.secret) == 0 {
		return nil, fmt.Errorf("invite service not configured")
	}
	claims := &InviteClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInviteInvalid, err)
	}
	if !token.Valid {
		return nil, ErrInviteInvalid
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInviteInvalid)
	}
	if claims.MatchID != matchID {
		return nil, ErrInviteMismatch
	}
	return claims, nil
}
