package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_Wrap(t *testing.T) {
	t.Parallel()

	target := "https://www.literotica.com/s/my-story?page=2"

	t.Run("appends escaped target", func(t *testing.T) {
		t.Parallel()

		got := Endpoint("https://relay.example/raw?url=").Wrap(target)
		assert.Equal(t, "https://relay.example/raw?url=https%3A%2F%2Fwww.literotica.com%2Fs%2Fmy-story%3Fpage%3D2", got)
	})

	t.Run("fills placeholder", func(t *testing.T) {
		t.Parallel()

		got := Endpoint("https://relay.example/get?u={url}&fmt=raw").Wrap(target)
		assert.Equal(t, "https://relay.example/get?u=https%3A%2F%2Fwww.literotica.com%2Fs%2Fmy-story%3Fpage%3D2&fmt=raw", got)
	})
}

func TestRotator(t *testing.T) {
	t.Parallel()

	t.Run("advances and wraps around", func(t *testing.T) {
		t.Parallel()

		r := NewRotator([]string{"a/", "b/", "c/"})
		require.Equal(t, 3, r.Len())

		var seen []Endpoint
		for i := 0; i < 4; i++ {
			seen = append(seen, r.Current())
			r.Advance()
		}

		assert.Equal(t, []Endpoint{"a/", "b/", "c/", "a/"}, seen)
		assert.Equal(t, 1, r.Index())
	})

	t.Run("falls back to defaults when empty", func(t *testing.T) {
		t.Parallel()

		r := NewRotator([]string{"", "   "})
		assert.Equal(t, len(DefaultEndpoints), r.Len())
		assert.Equal(t, Endpoint(DefaultEndpoints[0]), r.Current())
	})

	t.Run("rotators are independent", func(t *testing.T) {
		t.Parallel()

		a := NewRotator(nil)
		b := NewRotator(nil)
		a.Advance()

		assert.Equal(t, 1, a.Index())
		assert.Equal(t, 0, b.Index())
	})
}
