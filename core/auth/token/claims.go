package token

import (
	"reflect"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 类型别名，调用方无需直接导入 jwt/v5
type Claims = jwt.Claims

// RegisteredClaims 标准 claims，自定义 claims 通过嵌入获得 iss/sub/aud/exp/nbf/iat/jti
type RegisteredClaims = jwt.RegisteredClaims

// StandardClaimsSetter 可选接口，未嵌入 RegisteredClaims 的类型通过它接收标准字段
type StandardClaimsSetter interface {
	Claims
	SetStandardClaims(jti string, issuedAt, expiresAt time.Time, issuer string, audience []string)
}

var registeredClaimsType = reflect.TypeFor[jwt.RegisteredClaims]()

// registeredClaims 返回 claims 自身或其嵌入的 *jwt.RegisteredClaims
func registeredClaims(claims any) *jwt.RegisteredClaims {
	if rc, ok := claims.(*jwt.RegisteredClaims); ok {
		return rc
	}

	v := reflect.ValueOf(claims)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil
	}

	for i := range v.NumField() {
		field := v.Type().Field(i)
		if field.Anonymous && field.Type == registeredClaimsType {
			return v.Field(i).Addr().Interface().(*jwt.RegisteredClaims)
		}
	}
	return nil
}

// envelope 读取与 claims 类型无关的字段，用于吊销检查
type envelope struct {
	ID        string           `json:"jti"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
}

// footer 令牌 footer，携带密钥 id
type footer struct {
	KeyID string `json:"kid"`
}
