// Package phash computes fixed-width perceptual hashes of images and
// compares them by Hamming distance.
package phash

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"
	"strconv"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
)

// HexWidth is the width of an encoded hash: 64 bits as 16 hex characters.
const HexWidth = 16

// FromBytes decodes the image and returns its 64-bit perceptual hash encoded
// as a fixed-width hex string. The hash depends only on the decoded pixel
// content, so byte-identical images always produce the same hash.
func FromBytes(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", fmt.Errorf("failed to compute perceptual hash: %w", err)
	}

	return fmt.Sprintf("%016x", hash.GetHash()), nil
}

// Distance returns the Hamming distance between two hex-encoded hashes.
func Distance(a, b string) (int, error) {
	ha, err := parse(a)
	if err != nil {
		return 0, err
	}
	hb, err := parse(b)
	if err != nil {
		return 0, err
	}
	return bits.OnesCount64(ha ^ hb), nil
}

func parse(s string) (uint64, error) {
	if len(s) != HexWidth {
		return 0, fmt.Errorf("invalid hash %q: want %d hex characters", s, HexWidth)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return v, nil
}
