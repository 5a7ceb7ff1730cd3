package service

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"yatube/internal/config"
	"yatube/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "/tmp/yatube/uploads"
	DefaultMaxUploadSizeMB = 10
	ThumbnailMaxSize       = 256
	WebPQuality            = 70
)

// UploadImageInput carries a raw post attachment as received from a
// multipart form.
type UploadImageInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ImageStore persists post attachments and returns the stored relative
// path. Defined as an interface so handler tests can swap in a stub.
type ImageStore interface {
	Save(in UploadImageInput) (string, error)
}

// ImageService validates and stores post image attachments on disk.
// The original file is kept under posts/ with a generated name; a small
// webp thumbnail is written alongside it for listings.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultUploadDir
	maxUploadSizeMB := DefaultMaxUploadSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxUploadMB > 0 {
			maxUploadSizeMB = cfg.MaxUploadMB
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Save validates the attachment and writes it to the upload directory.
// It returns the original's path relative to the upload root, in the
// form "posts/<uuid>.<ext>".
func (s *ImageService) Save(in UploadImageInput) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return "", models.NewValidationError("Unsupported image format")
	}

	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, decodedFormatToMime(format)) {
		return "", models.NewValidationError("Image content type mismatch")
	}

	name := uuid.New().String()
	relPath := filepath.ToSlash(filepath.Join("posts", name+"."+formatExtension(format)))
	absPath := filepath.Join(s.uploadDir, relPath)

	if err := writeBytesToFile(absPath, in.Content); err != nil {
		return "", models.NewInternalError(err)
	}

	thumb := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)
	thumbBytes, err := encodeWebP(thumb, WebPQuality)
	if err != nil {
		_ = os.Remove(absPath)
		return "", models.NewInternalError(err)
	}
	thumbRel := filepath.ToSlash(filepath.Join("posts", name+".thumb.webp"))
	if err := writeBytesToFile(filepath.Join(s.uploadDir, thumbRel), thumbBytes); err != nil {
		_ = os.Remove(absPath)
		return "", models.NewInternalError(err)
	}

	return relPath, nil
}

// Resolve maps a stored relative path back to the file on disk,
// rejecting anything that escapes the upload root.
func (s *ImageService) Resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(relPath)
	if cleaned == "" || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", models.NewValidationError("Invalid media path")
	}
	fullPath := filepath.Join(s.uploadDir, cleaned)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Media", relPath)
		}
		return "", models.NewInternalError(err)
	}
	return fullPath, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		// Re-draw into RGBA so every format encodes the same way.
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
		return dst
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeJPEG is used by tests to build fixture payloads.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func formatExtension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "jpg"
	default:
		return strings.ToLower(strings.TrimSpace(format))
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
