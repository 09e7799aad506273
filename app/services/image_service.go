package services

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Short-edge targets for the three variants.
const (
	SmallEdge  = 200
	MediumEdge = 600
	BigEdge    = 2000
)

const (
	jpegQuality = 95
	// Oversampling factor for the intermediate pass of the two-pass resize.
	oversample = 2
)

// VariantBlobs is one generated variant set: three JPEG-encoded images.
// Generation is all-or-nothing; there is never a partial set.
type VariantBlobs struct {
	Small  []byte
	Medium []byte
	Big    []byte
}

// GenerateVariants produces the small/medium/big variants of one source
// image. Aspect ratio is preserved and the source is never upscaled: a
// source whose short edge is below a target passes through at its own
// resolution for that variant.
func GenerateVariants(src []byte) (*VariantBlobs, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}

	small, err := encodeVariant(img, SmallEdge)
	if err != nil {
		return nil, fmt.Errorf("failed to generate small variant: %w", err)
	}
	medium, err := encodeVariant(img, MediumEdge)
	if err != nil {
		return nil, fmt.Errorf("failed to generate medium variant: %w", err)
	}
	big, err := encodeVariant(img, BigEdge)
	if err != nil {
		return nil, fmt.Errorf("failed to generate big variant: %w", err)
	}

	return &VariantBlobs{Small: small, Medium: medium, Big: big}, nil
}

func encodeVariant(img image.Image, targetEdge int) ([]byte, error) {
	resized := resizeShortEdge(img, targetEdge)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resizeShortEdge scales img so its short edge equals min(targetEdge,
// sourceShortEdge). The resize runs in two passes: first into an oversampled
// intermediate, then down to the final size, which keeps fine detail that a
// single direct downscale would lose.
func resizeShortEdge(img image.Image, targetEdge int) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	shortEdge := srcW
	if srcH < srcW {
		shortEdge = srcH
	}

	useEdge := targetEdge
	if shortEdge < useEdge {
		useEdge = shortEdge
	}

	if useEdge == shortEdge {
		// scale = 1, re-encode only
		return img
	}

	scale := float64(useEdge) / float64(shortEdge)
	targetW := int(float64(srcW)*scale + 0.5)
	targetH := int(float64(srcH)*scale + 0.5)

	interW := targetW * oversample
	interH := targetH * oversample
	if interW > srcW {
		interW = srcW
		interH = srcH
	}

	intermediate := imaging.Resize(img, interW, interH, imaging.Lanczos)
	return imaging.Resize(intermediate, targetW, targetH, imaging.Lanczos)
}
