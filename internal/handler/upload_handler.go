package handler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler stores uploaded images under a public static path.
// Filenames get a millisecond-timestamp prefix so repeated uploads of
// the same file never collide.
type UploadHandler struct {
	uploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Printf("Warning: could not create upload dir %s: %v", uploadDir, err)
	}
	return &UploadHandler{uploadDir: uploadDir}
}

// Upload accepts one or many files under the "file" multipart field
// POST /api/upload
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid multipart form"})
	}

	files := form.File["file"]
	if len(files) == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "No file uploaded"})
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
		if err := c.SaveFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Error saving file"})
		}
		urls = append(urls, "/uploads/"+filename)
	}

	resp := fiber.Map{"success": true, "urls": urls}
	if len(urls) == 1 {
		resp["url"] = urls[0]
	}
	return c.JSON(resp)
}
