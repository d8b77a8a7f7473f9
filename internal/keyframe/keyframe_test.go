package keyframe

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexColor = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestFromImageSmallSolid(t *testing.T) {
	p, err := FromImage(solid(32, 24, color.RGBA{R: 0xFF, A: 0xFF}))
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", p.Tint)
	assert.NotEmpty(t, p.Hash)
}

func TestFromFileScalesLargeImages(t *testing.T) {
	path := writePNG(t, solid(640, 360, color.RGBA{R: 0x20, G: 0x40, B: 0x80, A: 0xFF}))

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.Regexp(t, hexColor, p.Tint)
	assert.NotEmpty(t, p.Hash)

	bounds := thumbnail(solid(640, 360, color.Black)).Bounds()
	assert.Equal(t, 64, bounds.Dx())
	assert.Equal(t, 36, bounds.Dy())
}

func TestFromFileErrors(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.jpeg"))
	assert.Error(t, err)

	junk := filepath.Join(t.TempDir(), "junk.jpeg")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = FromFile(junk)
	assert.Error(t, err)
}

func TestFallbackIsStablePerScene(t *testing.T) {
	for scene := 1; scene <= 8; scene++ {
		p := Fallback(scene)
		assert.Regexp(t, hexColor, p.Tint)
		assert.Empty(t, p.Hash)
		assert.Equal(t, p, Fallback(scene))
	}
	assert.NotEqual(t, Fallback(1).Tint, Fallback(2).Tint)
}

func TestSourcePrefersCachedKeyframe(t *testing.T) {
	path := writePNG(t, solid(16, 16, color.RGBA{G: 0xFF, A: 0xFF}))
	cached := map[string]string{}
	src := NewSource(
		func(scene int) string { return "kf-" + string(rune('0'+scene)) },
		func(url string) (string, bool) {
			p, ok := cached[url]
			return p, ok
		},
	)

	assert.Equal(t, Fallback(3), src.For(3), "uncached scene uses fallback")

	cached["kf-3"] = path
	assert.Equal(t, "#00FF00", src.For(3).Tint)

	delete(cached, "kf-3")
	assert.Equal(t, "#00FF00", src.For(3).Tint, "decoded placeholder is memoised")
}
