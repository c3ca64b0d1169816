package token

import (
	"github.com/kochabx/paseto/errors"
)

var (
	// Token 相关错误
	ErrInvalidToken  = errors.Unauthorized("token: invalid token")
	ErrExpiredToken  = errors.Unauthorized("token: token expired")
	ErrTokenRevoked  = errors.Unauthorized("token: token revoked")
	ErrInvalidClaims = errors.Unauthorized("token: invalid claims")
	ErrUnknownKey    = errors.Unauthorized("token: unknown key id")

	// 配置与密钥相关错误
	ErrInvalidConfig = errors.BadRequest("token: invalid configuration")
	ErrDuplicateKey  = errors.BadRequest("token: duplicate key id")
	ErrNoCurrentKey  = errors.Internal("token: no current key")
	ErrClaimsType    = errors.Internal("token: claims must be a pointer to a struct")
)

func kidMetadata(id string) map[string]string {
	const limit = 64
	if len(id) > limit {
		id = id[:limit] + "..."
	}
	return map[string]string{"kid": id}
}
