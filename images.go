package modernblog

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 85

var (
	// ImageExtensions are accepted for cover images and ad-hoc uploads.
	ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}
	// LogoExtensions are accepted for the site logo.
	LogoExtensions = []string{"png", "jpg", "jpeg", "gif", "svg"}
)

// MediaStore writes uploaded files to a directory served under /uploads/.
type MediaStore struct {
	Dir      string
	MaxWidth int // cover images wider than this are scaled down; 0 disables
}

// NewMediaStore returns a MediaStore rooted at dir.
func NewMediaStore(dir string, maxWidth int) *MediaStore {
	return &MediaStore{Dir: dir, MaxWidth: maxWidth}
}

// fileExt returns the lowercased extension after the last dot, or "".
func fileExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Save stores r under a random name keeping the extension of filename.
func (m *MediaStore) Save(r io.Reader, filename string, allowed []string) (string, error) {
	ext := fileExt(filename)
	if !slices.Contains(allowed, ext) {
		return "", ErrUnsupportedFile
	}
	return m.write(r, uuid.NewString()+"."+ext, ext, false)
}

// SaveCover stores a cover image, scaling wide jpeg and png images down to
// MaxWidth.
func (m *MediaStore) SaveCover(r io.Reader, filename string) (string, error) {
	ext := fileExt(filename)
	if !slices.Contains(ImageExtensions, ext) {
		return "", ErrUnsupportedFile
	}
	return m.write(r, uuid.NewString()+"."+ext, ext, true)
}

// SaveAs stores r as base.<ext>, replacing any previous file of that name.
func (m *MediaStore) SaveAs(r io.Reader, filename, base string, allowed []string) (string, error) {
	ext := fileExt(filename)
	if !slices.Contains(allowed, ext) {
		return "", ErrUnsupportedFile
	}
	return m.write(r, base+"."+ext, ext, false)
}

func (m *MediaStore) write(r io.Reader, name, ext string, resize bool) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if ext == "svg" {
		if !bytes.Contains(bytes.ToLower(data), []byte("<svg")) {
			return "", ErrUnsupportedFile
		}
	} else {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
		}
		if resize && m.MaxWidth > 0 && cfg.Width > m.MaxWidth && (format == "jpeg" || format == "png") {
			if data, err = downscale(data, format, m.MaxWidth); err != nil {
				return "", err
			}
		}
	}

	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(m.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(m.Dir, name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return name, nil
}

// downscale resizes an image to width, keeping aspect ratio and format.
func downscale(data []byte, format string, width int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	b := img.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
