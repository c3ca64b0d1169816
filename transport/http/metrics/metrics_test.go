package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenVerifications(t *testing.T) {
	p := New()

	c := p.TokenVerifications()
	require.Same(t, c, p.TokenVerifications())

	c.WithLabelValues(ResultOK).Inc()
	c.WithLabelValues(ResultOK).Inc()
	c.WithLabelValues(ResultExpired).Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.WithLabelValues(ResultOK)))
	assert.Equal(t, 2, testutil.CollectAndCount(c))

	n, err := testutil.GatherAndCount(p.Registry(), "paseto_token_verifications_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCollectors(t *testing.T) {
	p := New()
	p.WithBuildInfoCollector()

	families, err := p.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
