// Package keyframe derives a terminal-friendly stand-in for a scene's
// keyframe image: a BlurHash and a single tint colour for the scene card.
package keyframe

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"sync"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// thumbSize bounds the thumbnail the hash and tint are computed from.
const thumbSize = 64

// Placeholder is what the story screen draws while a keyframe is shown.
type Placeholder struct {
	Hash string // BlurHash, empty for fallbacks
	Tint string // #RRGGBB
}

// FromFile decodes a cached keyframe image and summarises it.
func FromFile(path string) (Placeholder, error) {
	f, err := os.Open(path)
	if err != nil {
		return Placeholder{}, fmt.Errorf("open keyframe: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Placeholder{}, fmt.Errorf("decode keyframe: %w", err)
	}
	return FromImage(img)
}

// FromImage summarises an already decoded keyframe.
func FromImage(img image.Image) (Placeholder, error) {
	thumb := thumbnail(img)

	hash, err := blurhash.Encode(4, 3, thumb)
	if err != nil {
		return Placeholder{}, fmt.Errorf("encode blurhash: %w", err)
	}
	return Placeholder{Hash: hash, Tint: averageTint(thumb)}, nil
}

// Fallback returns a stable colour for scene when its keyframe is not cached.
func Fallback(scene int) Placeholder {
	hue := float64((scene * 47) % 360)
	r, g, b := hslToRGB(hue, 0.45, 0.55)
	return Placeholder{Tint: fmt.Sprintf("#%02X%02X%02X", r, g, b)}
}

// thumbnail scales img down so its longer side is thumbSize.
func thumbnail(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= thumbSize && h <= thumbSize {
		return img
	}

	var dw, dh int
	if w > h {
		dw = thumbSize
		dh = max(1, h*thumbSize/w)
	} else {
		dh = thumbSize
		dw = max(1, w*thumbSize/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

func averageTint(img image.Image) string {
	b := img.Bounds()
	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			n++
		}
	}
	if n == 0 {
		return "#000000"
	}
	return fmt.Sprintf("#%02X%02X%02X", r/n, g/n, bl/n)
}

// Source memoises placeholders for scenes whose keyframe is cached.
type Source struct {
	keyframeURL func(scene int) string
	lookup      func(url string) (string, bool)

	mu    sync.Mutex
	known map[int]Placeholder
}

// NewSource returns a Source that finds keyframes with lookup, usually the
// preloader's cache.
func NewSource(keyframeURL func(scene int) string, lookup func(url string) (string, bool)) *Source {
	return &Source{keyframeURL: keyframeURL, lookup: lookup, known: make(map[int]Placeholder)}
}

// For returns the placeholder for scene, decoding its keyframe the first
// time it is found in the cache.
func (s *Source) For(scene int) Placeholder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.known[scene]; ok {
		return p
	}
	if s.lookup == nil {
		return Fallback(scene)
	}
	path, ok := s.lookup(s.keyframeURL(scene))
	if !ok {
		return Fallback(scene)
	}
	p, err := FromFile(path)
	if err != nil {
		p = Fallback(scene)
	}
	s.known[scene] = p
	return p
}
