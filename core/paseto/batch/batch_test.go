package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/paseto/core/paseto"
)

func newVerifier(t *testing.T, opts ...Option) *Verifier {
	t.Helper()
	v, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(v.Release)
	return v
}

func TestRunPreservesOrder(t *testing.T) {
	key, err := paseto.GenerateSymmetricEncryptionKey(paseto.V2)
	require.NoError(t, err)

	tokens := make([]string, 100)
	for i := range tokens {
		tokens[i], err = paseto.Version2.Encrypt([]byte(fmt.Sprintf("msg-%d", i)), key, nil)
		require.NoError(t, err)
	}

	v := newVerifier(t, WithConcurrency(4), WithPreAlloc())
	results, summary := v.Run(context.Background(), tokens, Decrypt(paseto.Version2, key, nil))

	require.Len(t, results, len(tokens))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		require.NoError(t, r.Err)
		assert.Equal(t, fmt.Sprintf("msg-%d", i), string(r.Message))
	}
	assert.Equal(t, 100, summary.Succeeded)
	assert.Equal(t, 100, summary.Total)
}

func TestRunClassifiesFailures(t *testing.T) {
	key, err := paseto.GenerateSymmetricAuthenticationKey(paseto.V3)
	require.NoError(t, err)
	other, err := paseto.GenerateSymmetricAuthenticationKey(paseto.V3)
	require.NoError(t, err)

	good, err := paseto.Version3.Auth([]byte("ok"), key, nil)
	require.NoError(t, err)
	forged, err := paseto.Version3.Auth([]byte("forged"), other, nil)
	require.NoError(t, err)

	tokens := []string{good, "v3.auth", forged, "v2.auth.AAAA"}

	v := newVerifier(t)
	results, summary := v.Run(context.Background(), tokens, AuthVerify(paseto.Version3, key, nil))

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, paseto.ErrMalformedToken)
	assert.ErrorIs(t, results[2].Err, paseto.ErrAuthenticationFailed)
	assert.ErrorIs(t, results[3].Err, paseto.ErrInvalidHeader)

	assert.Equal(t, Summary{
		Total:        4,
		Succeeded:    1,
		ParseErrors:  2,
		Verification: 1,
		Elapsed:      summary.Elapsed,
	}, summary)
}

func TestRunWithFooter(t *testing.T) {
	sk, err := paseto.GenerateAsymmetricSecretKey(paseto.V2)
	require.NoError(t, err)
	pk := sk.Public()

	var tokens []string
	for i := range 5 {
		token, err := paseto.Version2.Sign([]byte("signed"), sk, []byte(fmt.Sprintf(`{"kid":"%d"}`, i)))
		require.NoError(t, err)
		tokens = append(tokens, token)
	}

	op := WithFooter(func(token string, footer []byte) ([]byte, error) {
		return paseto.Version2.SignVerify(token, pk, footer)
	})

	v := newVerifier(t, WithConcurrency(2))
	_, summary := v.Run(context.Background(), tokens, op)
	assert.Equal(t, 5, summary.Succeeded)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := newVerifier(t)
	results, summary := v.Run(ctx, []string{"a", "b"}, func(string) ([]byte, error) {
		t.Fatal("operation must not run after cancel")
		return nil, nil
	})

	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Equal(t, 2, summary.Other)
}

func TestUnsealOperation(t *testing.T) {
	sk, err := paseto.GenerateAsymmetricSecretKey(paseto.V2)
	require.NoError(t, err)

	token, err := paseto.Version2.Seal([]byte("sealed"), sk.Public(), nil)
	require.NoError(t, err)

	v := newVerifier(t)
	results, _ := v.Run(context.Background(), []string{token}, Unseal(paseto.Version2, sk, nil))
	require.NoError(t, results[0].Err)
	assert.Equal(t, "sealed", string(results[0].Message))
}

func TestNewRejectsBadConcurrency(t *testing.T) {
	_, err := New(WithConcurrency(-1))
	assert.Error(t, err)
}
