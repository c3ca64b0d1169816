package paseto

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var protocols = []Protocol{Version1, Version2, Version3}

// RSA key generation is slow; one key pair per version is shared by the tests.
var (
	secretKeysMu sync.Mutex
	secretKeys   = map[Version]*AsymmetricSecretKey{}
)

func testSecretKey(t testing.TB, v Version) *AsymmetricSecretKey {
	t.Helper()

	secretKeysMu.Lock()
	defer secretKeysMu.Unlock()

	if k, ok := secretKeys[v]; ok {
		return k
	}
	k, err := GenerateAsymmetricSecretKey(v)
	require.NoError(t, err)
	secretKeys[v] = k
	return k
}

func testAuthKey(t testing.TB, v Version) *SymmetricAuthenticationKey {
	t.Helper()
	k, err := GenerateSymmetricAuthenticationKey(v)
	require.NoError(t, err)
	return k
}

func testEncKey(t testing.TB, v Version) *SymmetricEncryptionKey {
	t.Helper()
	k, err := GenerateSymmetricEncryptionKey(v)
	require.NoError(t, err)
	return k
}

func supportsSeal(v Version) bool {
	return v == V1 || v == V2
}

// tamper flips one bit of the decoded payload and re-encodes the token.
func tamper(t testing.TB, token string, index int, bit byte) string {
	t.Helper()

	parsed, err := Parse(token)
	require.NoError(t, err)

	parsed.Payload[index] ^= bit
	return parsed.String()
}
