package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhaus/planhaus/internal/pkg/storage"
)

func pngBytes(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestProcessStoresOriginalAndThumbnail(t *testing.T) {
	store := storage.NewLocal(t.TempDir())

	bounds, err := Process(store, "plans/images/a.png", pngBytes(t, 800, 600))
	require.NoError(t, err)
	assert.Equal(t, 800, bounds.Dx())

	for _, name := range []string{"plans/images/a.png", "plans/images/a_thumb.png"} {
		exists, err := store.Exists(name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	f, err := store.Open("plans/images/a_thumb.png")
	require.NoError(t, err)
	defer f.Close()
	thumb, err := imaging.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, ThumbWidth, thumb.Bounds().Dx())
}

func TestProcessDownscalesOversized(t *testing.T) {
	store := storage.NewLocal(t.TempDir())

	bounds, err := Process(store, "big.png", pngBytes(t, 3000, 1500))
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, bounds.Dx())
}

func TestProcessRejectsUnsupportedType(t *testing.T) {
	store := storage.NewLocal(t.TempDir())

	_, err := Process(store, "drawing.svg", bytes.NewReader([]byte("<svg/>")))
	assert.Error(t, err)

	_, err = Process(store, "broken.jpg", bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestThumbName(t *testing.T) {
	assert.Equal(t, "a/b_thumb.jpg", ThumbName("a/b.jpg"))
}
