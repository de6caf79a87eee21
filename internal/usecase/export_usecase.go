package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	cvdomain "cv-forge/internal/domain/cv"

	"github.com/google/uuid"
)

// DocumentRenderer produces the intermediate typeset source for an
// aggregate.
type DocumentRenderer interface {
	Render(c cvdomain.CV, dir, fileName string) (string, error)
}

// DocumentCompiler turns a rendered source into the final artifact at
// destPath.
type DocumentCompiler interface {
	Compile(ctx context.Context, texPath, destPath string) error
}

type ExportUsecase interface {
	Export(ctx context.Context, userID, cvID int64, fileName string) (string, error)
}

// Export drives the render-then-compile pipeline for one aggregate. Each
// export works in its own directory under workDir so concurrent exports
// never share intermediate files.
type Export struct {
	cvs      CVUsecase
	renderer DocumentRenderer
	compiler DocumentCompiler

	workDir string
	timeout time.Duration
}

func NewExportUsecase(cvs CVUsecase, renderer DocumentRenderer, compiler DocumentCompiler, workDir string, timeout time.Duration) *Export {
	if strings.TrimSpace(workDir) == "" {
		workDir = "output_temp"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Export{cvs: cvs, renderer: renderer, compiler: compiler, workDir: workDir, timeout: timeout}
}

// Export renders the aggregate, invokes the compiler under a deadline, and
// returns the path of the final PDF inside workDir. The per-export scratch
// directory, including the intermediate document and compiler byproducts, is
// removed before returning; the produced PDF is the caller's to delete.
func (u *Export) Export(ctx context.Context, userID, cvID int64, fileName string) (string, error) {
	c, err := u.cvs.Get(ctx, userID, cvID)
	if err != nil {
		return "", err
	}

	scratch := filepath.Join(u.workDir, uuid.NewString())
	defer func() {
		_ = os.RemoveAll(scratch)
	}()

	if strings.TrimSpace(fileName) == "" {
		fileName = "cv"
	}

	texPath, err := u.renderer.Render(c, scratch, fileName)
	if err != nil {
		return "", err
	}

	destName := strings.TrimSuffix(filepath.Base(texPath), ".tex") + ".pdf"
	destPath := filepath.Join(u.workDir, uuid.NewString()+"_"+destName)

	compileCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.compiler.Compile(compileCtx, texPath, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}
