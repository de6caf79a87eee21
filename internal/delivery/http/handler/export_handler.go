package handler

import (
	"os"
	"strings"

	"cv-forge/internal/delivery/http/middleware"
	"cv-forge/internal/latex"
	"cv-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ExportHandler struct {
	uc usecase.ExportUsecase
}

func NewExportHandler(uc usecase.ExportUsecase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

func (h *ExportHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/cvs/:id/export", h.Export)
}

// Export typesets the aggregate and streams the PDF back. The produced file
// is removed once the response is sent.
func (h *ExportHandler) Export(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	fileName := c.Query("filename", "cv")

	pdfPath, err := h.uc.Export(c.Context(), userID, id, fileName)
	if err != nil {
		return mapDomainError(err)
	}
	defer func() {
		_ = os.Remove(pdfPath)
	}()

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+attachmentName(fileName)+`"`)
	return c.SendFile(pdfPath)
}

// attachmentName reduces a caller-supplied name to a quotable disposition
// value: directory components stripped, quote/backslash/newline characters
// removed, .pdf extension.
func attachmentName(fileName string) string {
	base := strings.TrimSuffix(latex.SanitizeFileName(fileName), ".tex")
	base = strings.NewReplacer(`"`, "", `\`, "", "\r", "", "\n", "").Replace(base)
	if base == "" {
		base = "cv"
	}
	return base + ".pdf"
}
