package handler

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"nucleav/internal/storage"
)

// asset kinds accepted by the upload endpoint.
var assetKinds = map[string]bool{
	"logo":   true,
	"avatar": true,
}

// UploadAsset handles POST /v1/assets/:kind (multipart, field name: file).
// The stored URL is returned for use in company logo_url or profile image
// fields; the asset itself lives in object storage.
func UploadAsset(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := c.Params("kind")
		if !assetKinds[kind] {
			return writeError(c, fiber.StatusBadRequest, "INVALID_KIND", "asset kind must be logo or avatar")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		key := kind + "/" + uuid.NewString() + filepath.Ext(fh.Filename)
		info, err := store.Put(c.UserContext(), key, f, storage.PutOptions{
			Size:        fh.Size,
			ContentType: ct,
			Metadata:    map[string]string{"original-filename": fh.Filename},
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "UPLOAD_FAILED", "could not store asset")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"key": info.Key,
			"url": info.URL,
		})
	}
}
