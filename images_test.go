package modernblog

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFileExt(t *testing.T) {
	assert.Equal(t, "jpg", fileExt("Photo.JPG"))
	assert.Equal(t, "gz", fileExt("archive.tar.gz"))
	assert.Equal(t, "", fileExt("noext"))
	assert.Equal(t, "", fileExt("trailing."))
}

func TestMediaStoreSave(t *testing.T) {
	m := NewMediaStore(filepath.Join(t.TempDir(), "uploads"), 0)

	name, err := m.Save(bytes.NewReader(pngBytes(t, 8, 8)), "pixel.PNG", ImageExtensions)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Len(t, strings.TrimSuffix(name, ".png"), 36)

	info, err := os.Stat(filepath.Join(m.Dir, name))
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	other, err := m.Save(bytes.NewReader(pngBytes(t, 8, 8)), "pixel.png", ImageExtensions)
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestMediaStoreRejectsBeforeWriting(t *testing.T) {
	m := NewMediaStore(filepath.Join(t.TempDir(), "uploads"), 0)

	_, err := m.Save(strings.NewReader("MZ"), "tool.exe", ImageExtensions)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
	_, err = os.Stat(m.Dir)
	assert.True(t, os.IsNotExist(err), "nothing may touch storage for a rejected extension")

	_, err = m.Save(strings.NewReader("not really a png"), "fake.png", ImageExtensions)
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = m.Save(strings.NewReader("<svg></svg>"), "logo.svg", ImageExtensions)
	assert.ErrorIs(t, err, ErrUnsupportedFile, "svg is only allowed for logos")
}

func TestMediaStoreSaveCoverDownscales(t *testing.T) {
	m := NewMediaStore(filepath.Join(t.TempDir(), "uploads"), 100)

	name, err := m.SaveCover(bytes.NewReader(pngBytes(t, 400, 200)), "wide.png")
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(m.Dir, name))
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	small, err := m.SaveCover(bytes.NewReader(pngBytes(t, 40, 20)), "small.png")
	require.NoError(t, err)
	f2, err := os.Open(filepath.Join(m.Dir, small))
	require.NoError(t, err)
	defer f2.Close()
	cfg, _, err = image.DecodeConfig(f2)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
}

func TestMediaStoreSaveAsLogo(t *testing.T) {
	m := NewMediaStore(filepath.Join(t.TempDir(), "uploads"), 0)

	name, err := m.SaveAs(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), "brand.svg", "logo", LogoExtensions)
	require.NoError(t, err)
	assert.Equal(t, "logo.svg", name)

	name, err = m.SaveAs(bytes.NewReader(pngBytes(t, 4, 4)), "brand.png", "logo", LogoExtensions)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", name)

	_, err = m.SaveAs(strings.NewReader("plain text"), "brand.svg", "logo", LogoExtensions)
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = m.SaveAs(bytes.NewReader(pngBytes(t, 4, 4)), "brand.webp", "logo", LogoExtensions)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}
