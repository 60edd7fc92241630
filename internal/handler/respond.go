package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahlct/E-Portal-server/internal/repository"
	"github.com/sahlct/E-Portal-server/pkg/apperr"
	"github.com/sahlct/E-Portal-server/pkg/storage"
)

// respondError maps a service error onto the HTTP response. Clients get the
// taxonomy message; the full chain goes to the log when the error was
// unexpected.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := apperr.HTTPStatus(err)
	if status == 500 {
		log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"message": apperr.Message(err)})
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// listQuery reads the shared page/limit/search/status query params.
func listQuery(c *fiber.Ctx) repository.ListQuery {
	q := repository.ListQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Search: c.Query("search"),
	}
	if raw := c.Query("status"); raw != "" {
		if s, err := strconv.Atoi(raw); err == nil {
			q.Status = &s
		}
	}
	return q
}

func queryUUID(c *fiber.Ctx, name string) *uuid.UUID {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// saveUpload stages the uploaded file under folder and returns its
// reference, or "" when the field carries no file. The caller owns cleanup
// when the rest of the request fails.
func saveUpload(c *fiber.Ctx, files storage.FileStore, field, folder string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return "", nil
	}
	return storeHeader(files, fh, folder)
}

func storeHeader(files storage.FileStore, fh *multipart.FileHeader, folder string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperr.Validation("could not read uploaded file")
	}
	defer src.Close()
	ref, err := files.Store(src, fh.Filename, folder)
	if err != nil {
		return "", apperr.Unexpected(err)
	}
	return ref, nil
}

// cleanupUploads drops files staged during a request that failed.
// Best-effort only.
func cleanupUploads(files storage.FileStore, refs ...string) {
	for _, ref := range refs {
		if ref != "" {
			files.Delete(ref)
		}
	}
}

func strPtr(s string) *string { return &s }

func statusFromForm(c *fiber.Ctx) (*int, error) {
	raw := c.FormValue("status")
	if raw == "" {
		return nil, nil
	}
	s, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation("status must be 0 or 1")
	}
	return &s, nil
}
