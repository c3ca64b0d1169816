package token

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/errors"
)

type userClaims struct {
	jwt.RegisteredClaims
	UserID int64    `json:"uid"`
	Roles  []string `json:"roles"`
}

type setterClaims struct {
	Subject string           `json:"sub"`
	ID      string           `json:"jti"`
	Expiry  *jwt.NumericDate `json:"exp"`
	Issued  *jwt.NumericDate `json:"iat"`
}

func (c *setterClaims) SetStandardClaims(jti string, issuedAt, expiresAt time.Time, issuer string, audience []string) {
	c.ID = jti
	c.Issued = jwt.NewNumericDate(issuedAt)
	c.Expiry = jwt.NewNumericDate(expiresAt)
}

func (c *setterClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.Expiry, nil }
func (c *setterClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.Issued, nil }
func (c *setterClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c *setterClaims) GetIssuer() (string, error)                   { return "", nil }
func (c *setterClaims) GetSubject() (string, error)                  { return c.Subject, nil }
func (c *setterClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Duration)
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func localKeyring(t *testing.T, v paseto.Version) (*Keyring, string) {
	t.Helper()
	key, err := paseto.GenerateSymmetricEncryptionKey(v)
	require.NoError(t, err)

	keys := NewKeyring()
	kid, err := keys.AddLocal("", key)
	require.NoError(t, err)
	return keys, kid
}

func TestIssueAuthenticateLocal(t *testing.T) {
	ctx := context.Background()
	keys, kid := localKeyring(t, paseto.V2)

	auth, err := New[*userClaims](keys, WithIssuer("paseto-test"), WithAudience("api"))
	require.NoError(t, err)
	assert.Equal(t, paseto.V2, auth.Config().Version)
	assert.Equal(t, paseto.PurposeEncrypt, auth.Config().Purpose)
	assert.Equal(t, 15*time.Minute, auth.Config().AccessTokenTTL)

	claims := &userClaims{UserID: 42, Roles: []string{"admin"}}
	tok, err := auth.Issue(ctx, claims)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok, "v2.enc."))
	assert.NotEmpty(t, claims.ID)

	footer, err := paseto.ExtractFooter(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kid":"`+kid+`"}`, string(footer))

	got, err := auth.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, []string{"admin"}, got.Roles)
	assert.Equal(t, "paseto-test", got.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"api"}, got.Audience)
	assert.Equal(t, claims.ID, got.ID)
}

func TestIssueAuthenticatePublic(t *testing.T) {
	ctx := context.Background()

	for _, v := range []paseto.Version{paseto.V2, paseto.V3} {
		t.Run(v.String(), func(t *testing.T) {
			sk, err := paseto.GenerateAsymmetricSecretKey(v)
			require.NoError(t, err)

			issuer := NewKeyring()
			kid, err := issuer.AddSecret("", sk)
			require.NoError(t, err)

			verifier := NewKeyring()
			_, err = verifier.AddPublic(kid, sk.Public())
			require.NoError(t, err)

			issue, err := New[*userClaims](issuer, WithVersion(v), WithPurpose(paseto.PurposeSign))
			require.NoError(t, err)
			verify, err := New[*userClaims](verifier, WithVersion(v), WithPurpose(paseto.PurposeSign))
			require.NoError(t, err)

			tok, err := issue.Issue(ctx, &userClaims{UserID: 7})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(tok, v.String()+".sign."))

			got, err := verify.Authenticate(ctx, tok)
			require.NoError(t, err)
			assert.Equal(t, int64(7), got.UserID)

			_, err = verify.Issue(ctx, &userClaims{})
			assert.True(t, errors.Is(err, ErrNoCurrentKey))
		})
	}
}

func TestStandardClaimsSetter(t *testing.T) {
	ctx := context.Background()
	keys, _ := localKeyring(t, paseto.V3)

	auth, err := New[*setterClaims](keys, WithVersion(paseto.V3))
	require.NoError(t, err)

	tok, err := auth.Issue(ctx, &setterClaims{Subject: "alice"})
	require.NoError(t, err)

	got, err := auth.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Subject)
	assert.NotEmpty(t, got.ID)
}

func TestKeyRotation(t *testing.T) {
	ctx := context.Background()
	keys, oldKid := localKeyring(t, paseto.V2)

	auth, err := New[*userClaims](keys)
	require.NoError(t, err)

	oldToken, err := auth.Issue(ctx, &userClaims{UserID: 1})
	require.NoError(t, err)

	next, err := paseto.GenerateSymmetricEncryptionKey(paseto.V2)
	require.NoError(t, err)
	newKid, err := keys.AddLocal("2026-10", next)
	require.NoError(t, err)
	require.NoError(t, keys.SetCurrent(newKid))

	newToken, err := auth.Issue(ctx, &userClaims{UserID: 2})
	require.NoError(t, err)

	for _, tok := range []string{oldToken, newToken} {
		_, err := auth.Authenticate(ctx, tok)
		require.NoError(t, err)
	}

	require.True(t, keys.Remove(oldKid))
	_, err = auth.Authenticate(ctx, oldToken)
	assert.True(t, errors.Is(err, ErrUnknownKey))

	_, err = auth.Authenticate(ctx, newToken)
	assert.NoError(t, err)
}

func TestAuthenticateErrors(t *testing.T) {
	ctx := context.Background()
	keys, _ := localKeyring(t, paseto.V2)

	auth, err := New[*userClaims](keys)
	require.NoError(t, err)

	tok, err := auth.Issue(ctx, &userClaims{UserID: 1})
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "garbage")
		assert.True(t, errors.Is(err, ErrInvalidToken))
		assert.True(t, paseto.IsParseError(err))
	})

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(tok, ".")
		payload := []byte(parts[2])
		if payload[10] == 'A' {
			payload[10] = 'B'
		} else {
			payload[10] = 'A'
		}
		parts[2] = string(payload)

		_, err := auth.Authenticate(ctx, strings.Join(parts, "."))
		assert.True(t, errors.Is(err, ErrInvalidToken))
		assert.True(t, paseto.IsVerificationError(err))
	})

	t.Run("unknown kid", func(t *testing.T) {
		other, _ := localKeyring(t, paseto.V2)
		foreign, err := New[*userClaims](other)
		require.NoError(t, err)
		otherToken, err := foreign.Issue(ctx, &userClaims{})
		require.NoError(t, err)

		_, err = auth.Authenticate(ctx, otherToken)
		assert.True(t, errors.Is(err, ErrUnknownKey))
	})

	t.Run("wrong version", func(t *testing.T) {
		v3, err := New[*userClaims](keys, WithVersion(paseto.V3))
		require.NoError(t, err)
		_, err = v3.Authenticate(ctx, tok)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("wrong purpose", func(t *testing.T) {
		signer, err := New[*userClaims](keys, WithPurpose(paseto.PurposeSign))
		require.NoError(t, err)
		_, err = signer.Authenticate(ctx, tok)
		assert.True(t, errors.Is(err, ErrUnknownKey))
	})
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	keys, _ := localKeyring(t, paseto.V2)

	now := time.Now()
	clock := func() time.Time { return now }

	auth, err := New[*userClaims](keys, WithClock(clock), WithAccessTokenTTL(time.Minute), WithLeeway(5*time.Second))
	require.NoError(t, err)

	tok, err := auth.Issue(ctx, &userClaims{})
	require.NoError(t, err)

	now = now.Add(time.Minute + 3*time.Second)
	_, err = auth.Authenticate(ctx, tok)
	assert.NoError(t, err, "inside leeway")

	now = now.Add(time.Minute)
	_, err = auth.Authenticate(ctx, tok)
	assert.True(t, errors.Is(err, ErrExpiredToken))

	lax, err := New[*userClaims](keys, WithClock(clock), WithClaimsValidation(false))
	require.NoError(t, err)
	_, err = lax.Authenticate(ctx, tok)
	assert.NoError(t, err)
}

func TestClaimsValidation(t *testing.T) {
	ctx := context.Background()
	keys, _ := localKeyring(t, paseto.V2)

	issuer, err := New[*userClaims](keys, WithIssuer("a"))
	require.NoError(t, err)
	verifier, err := New[*userClaims](keys, WithIssuer("b"))
	require.NoError(t, err)

	tok, err := issuer.Issue(ctx, &userClaims{})
	require.NoError(t, err)

	_, err = verifier.Authenticate(ctx, tok)
	assert.True(t, errors.Is(err, ErrInvalidClaims))
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	keys, _ := localKeyring(t, paseto.V2)
	bl := &memoryBlacklist{}

	auth, err := New[*userClaims](keys, WithBlacklist(bl), WithAccessTokenTTL(time.Hour))
	require.NoError(t, err)

	tok, err := auth.Issue(ctx, &userClaims{})
	require.NoError(t, err)
	other, err := auth.Issue(ctx, &userClaims{})
	require.NoError(t, err)

	require.NoError(t, auth.Revoke(ctx, tok, 0))

	_, err = auth.Authenticate(ctx, tok)
	assert.True(t, errors.Is(err, ErrTokenRevoked))
	_, err = auth.Authenticate(ctx, other)
	assert.NoError(t, err)

	for _, ttl := range bl.revoked {
		assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
	}

	require.NoError(t, auth.Revoke(ctx, other, time.Minute))
	assert.Len(t, bl.revoked, 2)

	assert.Error(t, auth.Revoke(ctx, "v2.enc.AAAA", 0))
}

func TestNewErrors(t *testing.T) {
	keys := NewKeyring()

	_, err := New[*userClaims](nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = New[*userClaims](keys, WithPurpose(paseto.PurposeAuth))
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = New[*userClaims](keys, WithAccessTokenTTL(-time.Second))
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = New[jwt.MapClaims](keys)
	assert.True(t, errors.Is(err, ErrClaimsType))

	auth, err := New[*userClaims](keys)
	require.NoError(t, err)
	_, err = auth.Issue(context.Background(), &userClaims{})
	assert.True(t, errors.Is(err, ErrNoCurrentKey))
}

func TestNewWithConfig(t *testing.T) {
	keys, _ := localKeyring(t, paseto.V1)
	off := false

	auth, err := NewWithConfig[*userClaims](keys, &Config{
		Version:        paseto.V1,
		Issuer:         "cfg",
		ValidateClaims: &off,
	}, WithIssuer("override"))
	require.NoError(t, err)

	cfg := auth.Config()
	assert.Equal(t, "override", cfg.Issuer)
	assert.False(t, *cfg.ValidateClaims)
	assert.Equal(t, paseto.PurposeEncrypt, cfg.Purpose)

	tok, err := auth.Issue(context.Background(), &userClaims{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok, "v1.enc."))
}

func TestNewWithConfigKeepsCallerConfig(t *testing.T) {
	keys, _ := localKeyring(t, paseto.V2)
	on := true
	shared := &Config{Issuer: "shared", Audience: []string{"api"}, ValidateClaims: &on}

	_, err := NewWithConfig[*userClaims](keys, shared,
		WithIssuer("first"), WithAudience("other"), WithClaimsValidation(false))
	require.NoError(t, err)

	assert.Equal(t, "shared", shared.Issuer)
	assert.Equal(t, []string{"api"}, shared.Audience)
	assert.True(t, *shared.ValidateClaims)
	assert.Zero(t, shared.Version, "defaults must not be written back")
	assert.Zero(t, shared.AccessTokenTTL)

	second, err := NewWithConfig[*userClaims](keys, shared)
	require.NoError(t, err)
	assert.Equal(t, "shared", second.Config().Issuer)
	assert.Equal(t, paseto.V2, second.Config().Version)
}
