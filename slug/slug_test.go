package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"Hello — World", "hello-world"},
		{"  Getting Started with Flask  ", "getting-started-with-flask"},
		{"Tips & Tricks", "tips-tricks"},
		{"Crème brûlée", "creme-brulee"},
		{"Straße", "strasse"},
		{"Ærøskøbing", "aeroskobing"},
		{"Привет мир", "privet-mir"},
		{"Python 3.12 released", "python-3-12-released"},
		{"---already-slugged---", "already-slugged"},
		{"!!!", ""},
		{"", ""},
		{"日本語", "ri-ben-yu"},
		{"北京 2024", "bei-jing-2024"},
		{"서울", "seoul"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "Normalize(%q)", tt.input)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	in := "Ünïcødé Títle ½"
	first := Normalize(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Normalize(in))
	}
}

func TestChoose(t *testing.T) {
	assert.Equal(t, "custom-slug", Choose("  Custom Slug ", "Some Title"))
	assert.Equal(t, "some-title", Choose("   ", "Some Title"))
	assert.Equal(t, "some-title", Choose("", "Some Title"))
}

func setExists(taken ...string) ExistsFunc {
	set := make(map[string]bool, len(taken))
	for _, s := range taken {
		set[s] = true
	}
	return func(_ context.Context, candidate string) (bool, error) {
		return set[candidate], nil
	}
}

func TestUniqueProbesInOrder(t *testing.T) {
	ctx := context.Background()

	got, err := Unique(ctx, "hello-world", setExists())
	require.NoError(t, err)
	assert.Equal(t, "hello-world", got)

	got, err = Unique(ctx, "hello-world", setExists("hello-world"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", got)

	got, err = Unique(ctx, "hello-world", setExists("hello-world", "hello-world-1"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", got)

	// A gap higher up does not matter; the first free suffix wins.
	got, err = Unique(ctx, "hello-world", setExists("hello-world", "hello-world-2"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", got)
}

func TestUniqueEmptyBase(t *testing.T) {
	got, err := Unique(context.Background(), "", setExists(""))
	require.NoError(t, err)
	assert.Equal(t, "-1", got)
}

func TestUniquePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Unique(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestUniqueStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Unique(ctx, "x", func(context.Context, string) (bool, error) {
		return true, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMake(t *testing.T) {
	got, err := Make(context.Background(), "", "Hello, World!", setExists("hello-world"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", got)
}
