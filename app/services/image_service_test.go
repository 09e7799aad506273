package services

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)))
	return buf.Bytes()
}

func decodeBounds(t *testing.T, blob []byte) (int, int) {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(blob))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestGenerateVariants(t *testing.T) {
	t.Run("LandscapeSource_ShortEdgeHitsTargets", func(t *testing.T) {
		src := encodeTestImage(t, 3000, 1500)

		variants, err := GenerateVariants(src)
		require.NoError(t, err)

		w, h := decodeBounds(t, variants.Small)
		require.Equal(t, 200, h, "small short edge is exactly 200")
		require.Equal(t, 400, w, "aspect ratio preserved")

		w, h = decodeBounds(t, variants.Medium)
		require.Equal(t, 600, h)
		require.Equal(t, 1200, w)

		w, h = decodeBounds(t, variants.Big)
		require.Equal(t, 1500, h, "short edge 1500 < 2000: no upscaling")
		require.Equal(t, 3000, w)
	})

	t.Run("PortraitSource_WidthIsTheShortEdge", func(t *testing.T) {
		src := encodeTestImage(t, 600, 1200)

		variants, err := GenerateVariants(src)
		require.NoError(t, err)

		w, h := decodeBounds(t, variants.Small)
		require.Equal(t, 200, w)
		require.Equal(t, 400, h)

		w, h = decodeBounds(t, variants.Medium)
		require.Equal(t, 600, w, "short edge equals target: scale 1")
		require.Equal(t, 1200, h)
	})

	t.Run("TinySource_NeverUpscaled", func(t *testing.T) {
		src := encodeTestImage(t, 120, 80)

		variants, err := GenerateVariants(src)
		require.NoError(t, err)

		for _, blob := range [][]byte{variants.Small, variants.Medium, variants.Big} {
			w, h := decodeBounds(t, blob)
			require.Equal(t, 120, w)
			require.Equal(t, 80, h)
		}
	})

	t.Run("UndecodableSource_WholeSetFails", func(t *testing.T) {
		variants, err := GenerateVariants([]byte("not an image"))
		require.Error(t, err)
		require.Nil(t, variants, "no partial variant set on failure")
	})
}
