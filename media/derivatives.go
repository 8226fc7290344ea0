package media

import (
	"bytes"
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
)

// PoolSize names one capped web-delivery rendition.
type PoolSize struct {
	Name  SizeName
	Bound int
}

// GeneratorOptions hold the size and quality policy for derivative
// generation. PoolSizes must be ordered largest first: each pool output is
// fed forward as the source for the next-smaller size.
type GeneratorOptions struct {
	HotPreviewSize  int
	ColdPreviewSize int
	JpegQuality     int
	PoolSizes       []PoolSize
}

// DefaultGeneratorOptions matches the standard rendition ladder.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		HotPreviewSize:  150,
		ColdPreviewSize: 1200,
		JpegQuality:     85,
		PoolSizes: []PoolSize{
			{Name: SizeLarge, Bound: 1200},
			{Name: SizeMedium, Bound: 800},
			{Name: SizeSmall, Bound: 400},
		},
	}
}

// Generator produces the derivative renditions for a photo. It relies on a
// Store implementation for persisting the results.
type Generator struct {
	store Store
	opts  GeneratorOptions
}

func NewGenerator(store Store, opts GeneratorOptions) *Generator {
	if opts.HotPreviewSize <= 0 || opts.JpegQuality <= 0 {
		defaults := DefaultGeneratorOptions()
		if opts.HotPreviewSize <= 0 {
			opts.HotPreviewSize = defaults.HotPreviewSize
		}
		if opts.ColdPreviewSize <= 0 {
			opts.ColdPreviewSize = defaults.ColdPreviewSize
		}
		if opts.JpegQuality <= 0 {
			opts.JpegQuality = defaults.JpegQuality
		}
		if len(opts.PoolSizes) == 0 {
			opts.PoolSizes = defaults.PoolSizes
		}
	}
	return &Generator{store: store, opts: opts}
}

// LoadMaster decodes a master file once, applying the embedded EXIF
// orientation so every derivative is produced in display orientation.
func LoadMaster(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open master image %s: %w", path, err)
	}
	return img, nil
}

// fitDown scales the image to fit the bounding box without ever upscaling:
// a master already inside the box keeps its native size.
func fitDown(img image.Image, bound int) image.Image {
	b := img.Bounds()
	if b.Dx() <= bound && b.Dy() <= bound {
		return img
	}
	return imaging.Fit(img, bound, bound, imaging.Lanczos)
}

// encodeJPEG re-encodes the image from pixels, which drops every metadata
// block from the source file.
func (g *Generator) encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(g.opts.JpegQuality))
	if err != nil {
		return nil, fmt.Errorf("jpeg encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeHotPreview produces the embedded preview bytes for a master image.
// This is the normalized rendition the identity hash is computed from, so the
// size and encoder quality here must stay fixed.
func (g *Generator) EncodeHotPreview(master image.Image) ([]byte, error) {
	return g.encodeJPEG(fitDown(master, g.opts.HotPreviewSize))
}

// RemoveAll deletes every rendition stored for one photo identity.
func (g *Generator) RemoveAll(identityHash string) {
	sizes := []SizeName{SizeHotPreview, SizeColdPreview}
	for _, pool := range g.opts.PoolSizes {
		sizes = append(sizes, pool.Name)
	}
	for _, size := range sizes {
		if err := g.store.DeleteDerivative(identityHash, size); err != nil {
			log.Printf("media.derivatives: failed to remove %s/%s: %v", identityHash, size, err)
		}
	}
}

// GenerateAll stores the full rendition set for one photo: the already
// encoded hot preview, the cold preview, and the cascading pool sizes. On
// failure every blob written during this run is removed before the error is
// surfaced, so no orphaned partial set is left behind.
func (g *Generator) GenerateAll(identityHash string, master image.Image, hotPreview []byte) error {
	var written []SizeName

	cleanup := func() {
		for _, size := range written {
			if err := g.store.DeleteDerivative(identityHash, size); err != nil {
				log.Printf("media.derivatives: failed to clean up %s/%s after error: %v", identityHash, size, err)
			}
		}
	}

	put := func(size SizeName, data []byte) error {
		if _, err := g.store.PutDerivative(identityHash, size, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to store %s derivative for %s: %w", size, identityHash, err)
		}
		written = append(written, size)
		return nil
	}

	if err := put(SizeHotPreview, hotPreview); err != nil {
		cleanup()
		return err
	}

	coldData, err := g.encodeJPEG(fitDown(master, g.opts.ColdPreviewSize))
	if err != nil {
		cleanup()
		return fmt.Errorf("cold preview for %s: %w", identityHash, err)
	}
	if err := put(SizeColdPreview, coldData); err != nil {
		cleanup()
		return err
	}

	// each pool output becomes the source for the next-smaller size; one
	// resize chain instead of re-reading the master per size
	src := master
	for _, pool := range g.opts.PoolSizes {
		out := fitDown(src, pool.Bound)
		data, err := g.encodeJPEG(out)
		if err != nil {
			cleanup()
			return fmt.Errorf("pool size %s for %s: %w", pool.Name, identityHash, err)
		}
		if err := put(pool.Name, data); err != nil {
			cleanup()
			return err
		}
		src = out
	}

	return nil
}
