package latex

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// CompilationError is a non-zero exit from the typesetting binary. Output
// holds the merged stdout/stderr stream for diagnostics.
type CompilationError struct {
	ExitCode int
	Output   string
}

func (e *CompilationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("typesetting compiler failed (exit code %d)", e.ExitCode)
}

// RelocationError is a failure to move the produced artifact to the caller's
// destination, distinct from a compile failure.
type RelocationError struct {
	Source string
	Dest   string
	cause  error
}

func (e *RelocationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("move artifact %s -> %s: %v", e.Source, e.Dest, e.cause)
}

func (e *RelocationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Compiler runs the external typesetting binary against a rendered document.
// One child process per call; the process dies with ctx.
type Compiler struct {
	bin      string
	observer func(line string)
}

// NewCompiler builds a Compiler around bin (e.g. xelatex). observer receives
// each line of the merged output stream as it arrives; nil means discard.
func NewCompiler(bin string, observer func(line string)) *Compiler {
	if strings.TrimSpace(bin) == "" {
		bin = "xelatex"
	}
	if observer == nil {
		observer = func(string) {}
	}
	return &Compiler{bin: bin, observer: observer}
}

// Compile runs the binary in non-interactive mode with the output directory
// pinned to the source file's directory, waits for exit, and moves the
// produced artifact (source name with a .pdf extension) to destPath.
// Cancelling ctx kills the compiler's process group. Intermediate-file
// cleanup is the
// caller's responsibility.
func (c *Compiler) Compile(ctx context.Context, texPath, destPath string) error {
	dir := filepath.Dir(texPath)
	name := filepath.Base(texPath)

	cmd := exec.CommandContext(ctx, c.bin,
		"-interaction=nonstopmode",
		"-output-directory="+dir,
		name,
	)
	cmd.Dir = dir

	// Run the binary in its own process group and kill the whole group on
	// cancellation. Killing only the direct child would leave any helper
	// process it spawned holding the stdout pipe, and the read loop below
	// would block until that orphan exits.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("compiler pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.bin, err)
	}

	var out strings.Builder
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		out.WriteString(line)
		out.WriteByte('\n')
		c.observer(line)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("compiler: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CompilationError{ExitCode: exitErr.ExitCode(), Output: out.String()}
		}
		return fmt.Errorf("compiler: %w", err)
	}

	produced := strings.TrimSuffix(texPath, filepath.Ext(texPath)) + ".pdf"
	if err := moveFile(produced, destPath); err != nil {
		return &RelocationError{Source: produced, Dest: destPath, cause: err}
	}
	return nil
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// rename crosses file systems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
