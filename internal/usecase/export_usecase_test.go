package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cvdomain "cv-forge/internal/domain/cv"
	"cv-forge/internal/latex"
)

// fakeRenderer writes a marker file so the test can watch scratch cleanup.
type fakeRenderer struct {
	err      error
	lastDir  string
	lastName string
}

func (f *fakeRenderer) Render(c cvdomain.CV, dir, fileName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastDir = dir
	f.lastName = fileName
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, latex.SanitizeFileName(fileName))
	if err := os.WriteFile(path, []byte("doc"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeCompiler struct {
	err      error
	lastDest string
	deadline bool
}

func (f *fakeCompiler) Compile(ctx context.Context, texPath, destPath string) error {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.lastDest = destPath
	return os.WriteFile(destPath, []byte("pdf"), 0o644)
}

func exportFixture(t *testing.T) (*Export, *memCVRepository, *fakeRenderer, *fakeCompiler, int64) {
	t.Helper()
	repo := newMemCVRepository()
	cvs := NewCVUsecase(repo, nil)
	created, err := cvs.Create(context.Background(), 7, validAggregate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	renderer := &fakeRenderer{}
	compiler := &fakeCompiler{}
	u := NewExportUsecase(cvs, renderer, compiler, t.TempDir(), 30*time.Second)
	return u, repo, renderer, compiler, created.ID
}

func TestExport_ProducesPDFAndCleansScratch(t *testing.T) {
	u, _, renderer, compiler, cvID := exportFixture(t)

	pdfPath, err := u.Export(context.Background(), 7, cvID, "resume")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if pdfPath != compiler.lastDest {
		t.Fatalf("returned path %s does not match compiled artifact %s", pdfPath, compiler.lastDest)
	}
	if !strings.HasSuffix(pdfPath, "resume.pdf") {
		t.Fatalf("expected a resume.pdf artifact, got %s", pdfPath)
	}
	if _, err := os.Stat(pdfPath); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if _, err := os.Stat(renderer.lastDir); !os.IsNotExist(err) {
		t.Fatalf("scratch directory survived the export: %s", renderer.lastDir)
	}
	if !compiler.deadline {
		t.Fatalf("compile context carried no deadline")
	}
}

func TestExport_ConcurrentScratchDirsAreDistinct(t *testing.T) {
	u, _, renderer, _, cvID := exportFixture(t)
	ctx := context.Background()

	if _, err := u.Export(ctx, 7, cvID, "a"); err != nil {
		t.Fatalf("first export: %v", err)
	}
	first := renderer.lastDir
	if _, err := u.Export(ctx, 7, cvID, "b"); err != nil {
		t.Fatalf("second export: %v", err)
	}
	if renderer.lastDir == first {
		t.Fatalf("exports shared a scratch directory: %s", first)
	}
}

func TestExport_EmptyFileNameDefaults(t *testing.T) {
	u, _, renderer, _, cvID := exportFixture(t)

	pdfPath, err := u.Export(context.Background(), 7, cvID, "  ")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if renderer.lastName != "cv" {
		t.Fatalf("expected default name cv, got %q", renderer.lastName)
	}
	if !strings.HasSuffix(pdfPath, "cv.pdf") {
		t.Fatalf("expected cv.pdf artifact, got %s", pdfPath)
	}
}

func TestExport_CompileErrorPropagatesUnchanged(t *testing.T) {
	u, _, renderer, compiler, cvID := exportFixture(t)
	compiler.err = &latex.CompilationError{ExitCode: 1, Output: "! Emergency stop."}

	_, err := u.Export(context.Background(), 7, cvID, "resume")
	var cErr *latex.CompilationError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected *latex.CompilationError, got %T (%v)", err, err)
	}
	if cErr.ExitCode != 1 {
		t.Fatalf("exit code rewritten: %d", cErr.ExitCode)
	}
	if _, err := os.Stat(renderer.lastDir); !os.IsNotExist(err) {
		t.Fatalf("scratch directory survived a failed export")
	}
}

func TestExport_RenderErrorPropagates(t *testing.T) {
	u, _, renderer, compiler, cvID := exportFixture(t)
	renderer.err = &latex.IOError{Path: "/nope"}

	_, err := u.Export(context.Background(), 7, cvID, "resume")
	var ioErr *latex.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *latex.IOError, got %T (%v)", err, err)
	}
	if compiler.lastDest != "" {
		t.Fatalf("compiler ran despite render failure")
	}
}

func TestExport_UnknownAggregate(t *testing.T) {
	u, _, _, _, _ := exportFixture(t)

	if _, err := u.Export(context.Background(), 7, 9999, "resume"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExport_ForeignAggregate(t *testing.T) {
	u, _, _, _, cvID := exportFixture(t)

	if _, err := u.Export(context.Background(), 8, cvID, "resume"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
