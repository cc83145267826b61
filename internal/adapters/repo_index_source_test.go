package adapters

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apt-resolve/internal/types"
)

const samplePackages = `Package: foo
Version: 1.0
Section: utils
Description: a package
Filename: pool/f/foo/foo_1.0_amd64.deb
Installed-Size: 10
Size: 2048
SHA256: abc123

`

func TestPopulatePrefixesBaseURLOntoFilename(t *testing.T) {
	pool := types.NewPool()
	adapter := &RepoIndexSourceAdapter{
		Open: func(_ context.Context, baseURL string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(samplePackages)), nil
		},
	}

	warnings, err := adapter.Populate(context.Background(), pool, "http://example.com/debian/dists/stable/main/binary-amd64")
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, 1, pool.Size())

	meta, ok := pool.Get(1)
	require.True(t, ok)
	assert.Equal(t, "foo", meta.Name)
	require.NotNil(t, meta.Source.Remote)
	assert.Equal(t,
		"http://example.com/debian/dists/stable/main/binary-amd64/pool/f/foo/foo_1.0_amd64.deb",
		meta.Source.Remote.URL,
	)
}

func TestPopulateStripsDuplicateSlashWhenJoining(t *testing.T) {
	pool := types.NewPool()
	adapter := &RepoIndexSourceAdapter{
		Open: func(context.Context, string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(samplePackages)), nil
		},
	}

	_, err := adapter.Populate(context.Background(), pool, "http://example.com/debian/")
	require.NoError(t, err)

	meta, ok := pool.Get(1)
	require.True(t, ok)
	assert.Equal(t, "http://example.com/debian/pool/f/foo/foo_1.0_amd64.deb", meta.Source.Remote.URL)
}

func TestPopulateReportsMalformedParagraphAsWarning(t *testing.T) {
	pool := types.NewPool()
	malformed := "Package: bad\nVersion: 1.0\n\n" + samplePackages // first paragraph missing required fields
	adapter := &RepoIndexSourceAdapter{
		Open: func(context.Context, string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(malformed)), nil
		},
	}

	warnings, err := adapter.Populate(context.Background(), pool, "http://example.com")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 0, warnings[0].Ordinal)
	assert.Equal(t, 1, pool.Size())
}

func TestJoinBaseURL(t *testing.T) {
	assert.Equal(t, "http://host/a/b", joinBaseURL("http://host/a", "b"))
	assert.Equal(t, "http://host/a/b", joinBaseURL("http://host/a/", "/b"))
}
