package folio

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"folio/store"
)

const (
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// handleImageUpload accepts a multipart image, bounds its width, re-encodes
// it as JPEG, and stores it under the uploads directory. The response shape
// matches what block editors expect from an image endpoint.
func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": 0, "error": "No image file provided"})
	}
	if file.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": 0, "error": "File too large (max 10MB)"})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := a.processImage(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": 0, "error": "Invalid image"})
	}

	name := uploadFilename(file.Filename)
	if err := os.MkdirAll(a.Config.Upload.Dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	path := filepath.Join(a.Config.Upload.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	a.Log.Info("image uploaded",
		zap.String("file", name),
		zap.Int("bytes", len(data)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": 1,
		"file":    echo.Map{"url": "/public/uploads/" + name},
	})
}

// processImage decodes, scales down anything wider than the configured
// bound, and re-encodes as JPEG.
func (a *App) processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if max := a.Config.Upload.MaxWidth; w > max {
		newH := h * max / w
		dst := image.NewRGBA(image.Rect(0, 0, max, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// uploadFilename derives a URL-safe name from the original one and appends a
// short random suffix so repeated uploads never collide.
func uploadFilename(original string) string {
	base := store.Slugify(strings.TrimSuffix(original, filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	return base + "-" + uuid.NewString()[:8] + ".jpg"
}
