package media

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

// IdentityHash computes the stable photo identity from embedded preview
// bytes. Hashing the normalized preview instead of the original file couples
// identity to rendered content: two source files whose previews encode
// identically collapse to one Photo.
func IdentityHash(hotPreview []byte) string {
	sum := sha256.Sum256(hotPreview)
	return hex.EncodeToString(sum[:])
}

// PerceptualHash computes a rotation-invariant similarity fingerprint: the
// 64-bit DCT hash is taken over all four rotations of the preview and the
// lexicographically smallest string wins, so the same photo imported sideways
// hashes identically.
func PerceptualHash(img image.Image) (string, error) {
	rotations := []image.Image{
		img,
		imaging.Rotate90(img),
		imaging.Rotate180(img),
		imaging.Rotate270(img),
	}

	canonical := ""
	for _, rotated := range rotations {
		h, err := goimagehash.PerceptionHash(rotated)
		if err != nil {
			return "", fmt.Errorf("failed to compute perception hash: %w", err)
		}
		s := h.ToString()
		if canonical == "" || s < canonical {
			canonical = s
		}
	}
	return canonical, nil
}
