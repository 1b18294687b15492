// Package golden loads and verifies the golden-fixture manifest used
// by both the package test suite and `inflate -verify`. Fixtures are
// described in YAML (gopkg.in/yaml.v2) rather than embedded as Go
// literals so new corpus entries can be added without touching code,
// the way coreos-pkg/yamlutil wraps yaml.v2 for its own config files.
package golden

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	dgzip "github.com/deflatelib/deflate/gzip"
)

// Fixture is one golden-corpus entry: a GZIP file and the fingerprint
// of the bytes it must decode to. The fingerprint is an xxhash digest
// rather than the full expected output, so the manifest stays small
// even for large fixtures; the GZIP trailer's own CRC-32/ISIZE check
// (performed by the gzip package during decode) is what actually
// guards bit-exactness end to end.
type Fixture struct {
	Name      string `yaml:"name"`
	File      string `yaml:"file"`
	SizeBytes int64  `yaml:"size_bytes"`
	XXHash64  string `yaml:"xxhash64"`
}

// Manifest is the top-level shape of testdata/golden.yaml.
type Manifest struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

// Load reads and parses a golden manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("golden: reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("golden: parsing manifest: %w", err)
	}
	return &m, nil
}

// Result is the outcome of verifying one fixture.
type Result struct {
	Fixture Fixture
	Err     error
}

// VerifyAll decodes every fixture relative to dir concurrently (each
// fixture is independent, so there is no reason to serialize the
// corpus walk even though a single decode is single-threaded) and
// reports a Result per fixture in manifest order.
func VerifyAll(ctx context.Context, dir string, m *Manifest) ([]Result, error) {
	results := make([]Result, len(m.Fixtures))
	g, ctx := errgroup.WithContext(ctx)
	for i, fx := range m.Fixtures {
		i, fx := i, fx
		g.Go(func() error {
			err := verifyOne(dir, fx)
			results[i] = Result{Fixture: fx, Err: err}
			return nil // per-fixture failures are reported, not fatal to the group
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func verifyOne(dir string, fx Fixture) error {
	f, err := os.Open(filepath.Join(dir, fx.File))
	if err != nil {
		return fmt.Errorf("%s: %w", fx.Name, err)
	}
	defer f.Close()

	r, err := dgzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("%s: opening gzip: %w", fx.Name, err)
	}
	defer r.Close()

	h := xxhash.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return fmt.Errorf("%s: decoding: %w", fx.Name, err)
	}
	if n != fx.SizeBytes {
		return fmt.Errorf("%s: size mismatch: got %d, want %d", fx.Name, n, fx.SizeBytes)
	}
	got := fmt.Sprintf("%016x", h.Sum64())
	if got != fx.XXHash64 {
		return fmt.Errorf("%s: xxhash64 mismatch: got %s, want %s", fx.Name, got, fx.XXHash64)
	}
	return nil
}
