package deflate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deflatelib/deflate/internal/golden"
)

// TestGoldenCorpus decodes every fixture in testdata/golden.yaml through
// the full gzip+deflate stack and checks its size and xxhash64 digest,
// the same manifest cmd/inflate -verify reads.
func TestGoldenCorpus(t *testing.T) {
	m, err := golden.Load("testdata/golden.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, m.Fixtures)

	results, err := golden.VerifyAll(context.Background(), "testdata", m)
	require.NoError(t, err)
	require.Len(t, results, len(m.Fixtures))
	for _, res := range results {
		require.NoErrorf(t, res.Err, "fixture %s", res.Fixture.Name)
	}
}
