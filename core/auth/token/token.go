// Package token issues and authenticates bearer tokens built on the paseto
// protocols. Claims travel as the JSON message; the footer carries the key id
// as {"kid":"..."} so keys can rotate without breaking issued tokens.
package token

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kochabx/paseto/core/auth/token/cache"
	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/core/tag"
	"github.com/kochabx/paseto/core/validator"
	"github.com/kochabx/paseto/errors"
)

// Authenticator issues and verifies tokens carrying claims of type T, which
// must be a pointer to a struct.
type Authenticator[T Claims] struct {
	config     *Config
	keys       *Keyring
	protocol   paseto.Protocol
	blacklist  cache.Blacklist
	validator  *jwt.Validator
	claimsType reflect.Type
	now        func() time.Time
}

// New 创建认证器，默认配置来自 Config 的 default 标签
func New[T Claims](keys *Keyring, opts ...Option) (*Authenticator[T], error) {
	return NewWithConfig[T](keys, &Config{}, opts...)
}

// NewWithConfig 从配置创建认证器，opts 覆盖配置项
func NewWithConfig[T Claims](keys *Keyring, config *Config, opts ...Option) (*Authenticator[T], error) {
	if keys == nil || config == nil {
		return nil, ErrInvalidConfig
	}

	// 在副本上应用选项与默认值，调用方的配置保持不变
	config = config.clone()
	o := &options{config: config}
	for _, opt := range opts {
		opt(o)
	}

	if err := tag.ApplyDefaults(config); err != nil {
		return nil, ErrInvalidConfig.WithCause(fmt.Errorf("apply defaults: %w", err))
	}
	if err := validator.Validate.Struct(config); err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}

	protocol, err := paseto.ProtocolFor(config.Version)
	if err != nil {
		return nil, err
	}

	claimsType := reflect.TypeFor[T]()
	if claimsType.Kind() != reflect.Pointer || claimsType.Elem().Kind() != reflect.Struct {
		return nil, ErrClaimsType.WithMetadata(map[string]string{"type": claimsType.String()})
	}

	if o.blacklist == nil {
		o.blacklist = cache.NewNoopBlacklist()
	}
	if o.now == nil {
		o.now = time.Now
	}

	return &Authenticator[T]{
		config:     config,
		keys:       keys,
		protocol:   protocol,
		blacklist:  o.blacklist,
		validator:  newClaimsValidator(config, o.now),
		claimsType: claimsType,
		now:        o.now,
	}, nil
}

func newClaimsValidator(c *Config, now func() time.Time) *jwt.Validator {
	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(now),
		jwt.WithLeeway(c.Leeway),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if c.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.Issuer))
	}
	if len(c.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(c.Audience[0]))
	}
	return jwt.NewValidator(opts...)
}

// Config returns the effective configuration.
func (a *Authenticator[T]) Config() Config {
	return *a.config
}

// Issue sets jti, iat and exp (plus iss and aud when configured) on claims and
// returns a token issued under the keyring's current key.
func (a *Authenticator[T]) Issue(ctx context.Context, claims T) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := a.setStandardClaims(claims); err != nil {
		return "", err
	}

	kid, e, err := a.keys.lookup("")
	if err != nil {
		return "", err
	}

	msg, err := json.Marshal(claims)
	if err != nil {
		return "", ErrInvalidClaims.WithCause(err)
	}
	f, err := json.Marshal(footer{KeyID: kid})
	if err != nil {
		return "", err
	}

	switch a.config.Purpose {
	case paseto.PurposeSign:
		if e.secret == nil {
			return "", ErrNoCurrentKey.WithMetadata(map[string]string{"reason": "current key cannot sign"})
		}
		return a.protocol.Sign(msg, e.secret, f)
	default:
		if e.local == nil {
			return "", ErrNoCurrentKey.WithMetadata(map[string]string{"reason": "current key is not a local key"})
		}
		return a.protocol.Encrypt(msg, e.local, f)
	}
}

func (a *Authenticator[T]) setStandardClaims(claims T) error {
	now := a.now()
	expiresAt := now.Add(a.config.AccessTokenTTL)
	jti := uuid.NewString()

	if setter, ok := any(claims).(StandardClaimsSetter); ok {
		setter.SetStandardClaims(jti, now, expiresAt, a.config.Issuer, a.config.Audience)
		return nil
	}

	rc := registeredClaims(claims)
	if rc == nil {
		return ErrInvalidClaims.WithMetadata(map[string]string{"reason": "claims carry no registered claims"})
	}
	if rc.ID == "" {
		rc.ID = jti
	}
	rc.IssuedAt = jwt.NewNumericDate(now)
	rc.ExpiresAt = jwt.NewNumericDate(expiresAt)
	if a.config.Issuer != "" {
		rc.Issuer = a.config.Issuer
	}
	if len(a.config.Audience) > 0 {
		rc.Audience = a.config.Audience
	}
	return nil
}

// Authenticate verifies token, decodes its claims, validates the registered
// claims and rejects revoked tokens.
func (a *Authenticator[T]) Authenticate(ctx context.Context, token string) (T, error) {
	var zero T

	msg, err := a.open(token)
	if err != nil {
		return zero, err
	}

	claims := reflect.New(a.claimsType.Elem()).Interface().(T)
	if err := json.Unmarshal(msg, claims); err != nil {
		return zero, ErrInvalidClaims.WithCause(err)
	}

	if a.config.validateClaims() {
		if err := a.validator.Validate(claims); err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return zero, ErrExpiredToken.WithCause(err)
			}
			return zero, ErrInvalidClaims.WithCause(err)
		}
	}

	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return zero, ErrInvalidClaims.WithCause(err)
	}
	if env.ID != "" {
		revoked, err := a.blacklist.Contains(ctx, env.ID)
		if err != nil {
			return zero, errors.Wrap(err, errors.UnknownCode, "token: revocation check failed")
		}
		if revoked {
			return zero, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Revoke verifies token and adds its jti to the blacklist. A non-positive ttl
// keeps the entry until the token's own expiry.
func (a *Authenticator[T]) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	msg, err := a.open(token)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return ErrInvalidClaims.WithCause(err)
	}
	if env.ID == "" {
		return ErrInvalidClaims.WithMetadata(map[string]string{"reason": "missing jti"})
	}

	if ttl <= 0 {
		if env.ExpiresAt == nil {
			ttl = a.config.AccessTokenTTL
		} else {
			ttl = env.ExpiresAt.Sub(a.now())
		}
	}
	if ttl <= 0 {
		return nil
	}
	return a.blacklist.Add(ctx, env.ID, ttl)
}

// open checks the token cryptographically under the key named in its footer
// and returns the message.
func (a *Authenticator[T]) open(token string) ([]byte, error) {
	raw, err := paseto.ExtractFooter(token)
	if err != nil {
		return nil, ErrInvalidToken.WithCause(err)
	}

	var f footer
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, ErrInvalidToken.WithCause(paseto.ErrMalformedToken)
		}
	}

	_, e, err := a.keys.lookup(f.KeyID)
	if err != nil {
		return nil, err
	}

	var msg []byte
	switch a.config.Purpose {
	case paseto.PurposeSign:
		if e.public == nil {
			return nil, ErrUnknownKey.WithMetadata(kidMetadata(f.KeyID))
		}
		msg, err = a.protocol.SignVerify(token, e.public, raw)
	default:
		if e.local == nil {
			return nil, ErrUnknownKey.WithMetadata(kidMetadata(f.KeyID))
		}
		msg, err = a.protocol.Decrypt(token, e.local, raw)
	}
	if err != nil {
		return nil, ErrInvalidToken.WithCause(err)
	}
	return msg, nil
}
