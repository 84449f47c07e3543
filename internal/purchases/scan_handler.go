package purchases

import (
	"errors"
	"io"
	"strings"

	"costbook-backend/internal/auth"
	"costbook-backend/internal/receipt"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// POST /api/purchases/scan (multipart, field "image")
//
// Returns a draft purchase for review; nothing is stored. scanner is nil
// when no Gemini key is configured.
func ScanReceiptHandler(st store.Store, scanner receipt.Scanner, maxBytes int64, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if scanner == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "receipt scanning is not configured")
		}

		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "image file is required")
		}
		if fileHeader.Size > maxBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "image is too large")
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		if !strings.HasPrefix(mimeType, "image/") {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "only images can be scanned")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not open image")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read image")
		}
		if int64(len(data)) > maxBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "image is too large")
		}

		parsed, err := scanner.Scan(c.UserContext(), mimeType, data)
		if err != nil {
			log.Error("receipt scan failed", zap.Uint("owner_id", ownerID), zap.Error(err))
			if errors.Is(err, receipt.ErrEmptyResponse) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "no receipt data found in image")
			}
			return fiber.NewError(fiber.StatusBadGateway, "receipt could not be read")
		}

		ings, err := st.ListIngredients(c.UserContext(), ownerID)
		if err != nil {
			return err
		}

		return c.JSON(receipt.Match(parsed, ings))
	}
}
