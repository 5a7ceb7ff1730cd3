package service

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yatube/internal/config"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImageService(t *testing.T) *ImageService {
	t.Helper()
	return NewImageService(&config.Config{
		UploadDir:   t.TempDir(),
		MaxUploadMB: 1,
	})
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	data, err := encodeJPEG(img, 82)
	require.NoError(t, err)
	return data
}

func TestImageService_Save(t *testing.T) {
	svc := newTestImageService(t)

	relPath, err := svc.Save(UploadImageInput{
		Filename:    "small.jpg",
		ContentType: "image/jpeg",
		Content:     testJPEG(t, 640, 480),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "posts/"))
	assert.True(t, strings.HasSuffix(relPath, ".jpg"))

	absPath := filepath.Join(svc.uploadDir, relPath)
	_, err = os.Stat(absPath)
	assert.NoError(t, err)

	thumbPath := strings.TrimSuffix(absPath, ".jpg") + ".thumb.webp"
	_, err = os.Stat(thumbPath)
	assert.NoError(t, err)
}

func TestImageService_Save_Rejections(t *testing.T) {
	svc := newTestImageService(t)

	tests := []struct {
		name  string
		input UploadImageInput
	}{
		{
			name:  "Empty upload",
			input: UploadImageInput{Filename: "empty.jpg"},
		},
		{
			name: "Not an image",
			input: UploadImageInput{
				Filename: "notes.txt",
				Content:  []byte("just some text pretending to be a picture"),
			},
		},
		{
			name: "Content type mismatch",
			input: UploadImageInput{
				Filename:    "fake.png",
				ContentType: "image/png",
				Content:     testJPEG(t, 10, 10),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(tt.input)
			require.Error(t, err)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestImageService_Save_TooLarge(t *testing.T) {
	svc := NewImageService(&config.Config{UploadDir: t.TempDir(), MaxUploadMB: 1})

	oversized := make([]byte, 2*1024*1024)
	copy(oversized, testJPEG(t, 10, 10))

	_, err := svc.Save(UploadImageInput{Filename: "big.jpg", Content: oversized})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File too large")
}

func TestImageService_Resolve(t *testing.T) {
	svc := newTestImageService(t)

	relPath, err := svc.Save(UploadImageInput{
		Filename: "pic.jpg",
		Content:  testJPEG(t, 20, 20),
	})
	require.NoError(t, err)

	t.Run("Stored path resolves", func(t *testing.T) {
		fullPath, err := svc.Resolve(relPath)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(fullPath, svc.uploadDir))
	})

	t.Run("Traversal is rejected", func(t *testing.T) {
		_, err := svc.Resolve("../../etc/passwd")
		assert.Error(t, err)
	})

	t.Run("Missing file is not found", func(t *testing.T) {
		_, err := svc.Resolve("posts/missing.jpg")
		assert.True(t, models.IsNotFound(err))
	})
}
