package util

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArchive(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "books")

	path, err := WriteArchive([]byte("PK-data"), dir, "my_story.epub")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my_story.epub"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK-data", string(got))

	_, err = os.Stat(path + PartialSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupPartialArchives(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.epub.part"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.epub"), nil, 0644))

	CleanupPartialArchives(dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.epub", entries[0].Name())
}

func TestNewHTTPClient_Headers(t *testing.T) {
	t.Parallel()

	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(cookieFile, []byte("\n  session=abc  \nignored=1\n"), 0644))

	seen := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Clone()
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(HTTPClientOptions{
		Timeout:    5 * time.Second,
		UserAgent:  PickUserAgent("storyd-test"),
		Cookie:     "theme=dark",
		CookieFile: cookieFile,
	})
	require.NoError(t, err)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	h := <-seen
	assert.Equal(t, "storyd-test", h.Get("User-Agent"))
	assert.Equal(t, "theme=dark; session=abc", h.Get("Cookie"))
}

func TestPickUserAgent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "custom", PickUserAgent("custom"))
	assert.Contains(t, PickUserAgent(""), "Mozilla/5.0")
}

func TestHuman(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", Human(512))
	assert.Equal(t, "1.50 KB", Human(1536))
	assert.Equal(t, "2.00 MB", Human(2<<20))
	assert.Equal(t, "1.00 GB", Human(1<<30))
	assert.Equal(t, "2048.00 GB", Human(2<<40))
	assert.Equal(t, "0 B", Human(0))
}
