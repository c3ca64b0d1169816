package paseto

// Registered claim keys
const (
	ClaimIssuer     = "iss"
	ClaimSubject    = "sub"
	ClaimAudience   = "aud"
	ClaimExpiration = "exp"
	ClaimNotBefore  = "nbf"
	ClaimIssuedAt   = "iat"
	ClaimTokenID    = "jti"
)

// RegisteredClaims maps registered claim keys to their names. The protocols
// never read it; it is a lookup table for claim layers and tooling.
var RegisteredClaims = map[string]string{
	ClaimIssuer:     "Issuer",
	ClaimSubject:    "Subject",
	ClaimAudience:   "Audience",
	ClaimExpiration: "Expiration",
	ClaimNotBefore:  "Not Before",
	ClaimIssuedAt:   "Issued At",
	ClaimTokenID:    "Token Identifier",
}

// IsRegisteredClaim reports whether key is a registered claim.
func IsRegisteredClaim(key string) bool {
	_, ok := RegisteredClaims[key]
	return ok
}
