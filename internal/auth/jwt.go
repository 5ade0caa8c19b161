// Package auth signs and verifies request proofs: short-lived EdDSA JWTs
// that bind one signer identity to one exact request.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ClockSkew tolerated between client and server. A proof stays acceptable
// for this long after its expiry.
const ClockSkew = 5 * time.Second

// Claims carries the standard claims plus the request digest. Subject is
// the signer identity in its text form.
type Claims struct {
	jwt.RegisteredClaims
	Request string `json:"req"`
}

// RequestDigest hashes the method name and the JSON form of the request.
func RequestDigest(method string, req any) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sign issues a proof that kp approves req on method.
func Sign(kp *identity.Keypair, method string, req any, validity time.Duration) (string, error) {
	digest, err := RequestDigest(method, req)
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   kp.Public.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Request: digest,
	})

	tokenString, err := token.SignedString(kp.Private)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Proof is a verified request proof.
type Proof struct {
	Signer    identity.Identity
	ID        string
	ExpiresAt time.Time
}

// Verifier checks request proofs. Tokens living longer than maxAge are
// rejected, which bounds how long used ids must be remembered.
type Verifier struct {
	maxAge time.Duration
	now    func() time.Time
}

func NewVerifier(maxAge time.Duration) *Verifier {
	return &Verifier{maxAge: maxAge, now: time.Now}
}

// Verify parses tokenString and checks it was signed by its subject over
// req on method.
func (v *Verifier) Verify(tokenString, method string, req any) (*Proof, error) {
	digest, err := RequestDigest(method, req)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		id, err := identity.Parse(claims.Subject)
		if err != nil {
			return nil, err
		}
		return id.PublicKey(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(ClockSkew),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.IssuedAt == nil || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing iat or jti", common.ErrInvalidToken)
	}
	if claims.ExpiresAt.Sub(claims.IssuedAt.Time) > v.maxAge {
		return nil, fmt.Errorf("%w: lifetime exceeds %s", common.ErrInvalidToken, v.maxAge)
	}
	if claims.Request != digest {
		return nil, fmt.Errorf("%w: signed for a different request", common.ErrInvalidToken)
	}

	signer, err := identity.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return &Proof{Signer: signer, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}
