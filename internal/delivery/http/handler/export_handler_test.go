package handler

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cv-forge/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

func TestAttachmentName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"resume", "resume.pdf"},
		{"resume.tex", "resume.pdf"},
		{"../../etc/passwd", "passwd.pdf"},
		{`my"resume`, "myresume.pdf"},
		{`back\slash`, "backslash.pdf"},
		{"line\r\nbreak", "linebreak.pdf"},
		{`"`, "cv.pdf"},
		{"", "cv.pdf"},
	}

	for _, tc := range cases {
		if got := attachmentName(tc.in); got != tc.want {
			t.Errorf("attachmentName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

type fakeExportUsecase struct {
	pdfPath string
	err     error
}

func (f *fakeExportUsecase) Export(ctx context.Context, userID, cvID int64, fileName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.pdfPath, nil
}

func TestExportHandler_DispositionHeaderIsSanitized(t *testing.T) {
	pdfPath := filepath.Join(t.TempDir(), "out.pdf")
	if err := os.WriteFile(pdfPath, []byte("pdf-bytes"), 0o644); err != nil {
		t.Fatalf("write pdf fixture: %v", err)
	}

	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserIDKey, int64(7))
		return c.Next()
	})
	NewExportHandler(&fakeExportUsecase{pdfPath: pdfPath}).RegisterRoutes(app)

	req := httptest.NewRequest("POST", `/cvs/1/export?filename=my%22resume`, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	disp := resp.Header.Get(fiber.HeaderContentDisposition)
	if disp != `attachment; filename="myresume.pdf"` {
		t.Fatalf("unexpected disposition header: %q", disp)
	}
	if strings.Count(disp, `"`) != 2 {
		t.Fatalf("raw quote leaked into header: %q", disp)
	}
	if got := resp.Header.Get(fiber.HeaderContentType); got != "application/pdf" {
		t.Fatalf("unexpected content type: %q", got)
	}
}
