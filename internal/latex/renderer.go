package latex

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	cvdomain "cv-forge/internal/domain/cv"
)

//go:embed templates/cv.tex.tmpl
var templateFS embed.FS

const templateName = "cv.tex.tmpl"

// latexEscaper rewrites markup-sensitive characters in free text before it
// reaches the template.
var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
)

const presentLabel = "Present"

const (
	educationDateLayout  = "Jan 2006"
	experienceDateLayout = "January 2006"
)

// IOError is a file-system failure while writing the intermediate document.
type IOError struct {
	Path  string
	cause error
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("write %s: %v", e.Path, e.cause)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Renderer turns an aggregate into an escaped LaTeX document via the
// embedded template.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/"+templateName)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: t}, nil
}

// Render writes the document for c into dir under fileName and returns the
// full path. fileName is reduced to its base name and forced to a .tex
// extension, so a caller-supplied name cannot escape dir.
func (r *Renderer) Render(c cvdomain.CV, dir, fileName string) (string, error) {
	safeName := SanitizeFileName(fileName)
	outPath := filepath.Join(dir, safeName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &IOError{Path: dir, cause: err}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", &IOError{Path: outPath, cause: err}
	}

	if err := r.tmpl.Execute(f, document{CV: newCVView(c)}); err != nil {
		_ = f.Close()
		_ = os.Remove(outPath)
		return "", &IOError{Path: outPath, cause: err}
	}
	if err := f.Close(); err != nil {
		return "", &IOError{Path: outPath, cause: err}
	}

	return outPath, nil
}

// SanitizeFileName strips any directory component and forces the .tex
// extension.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "cv"
	}
	if !strings.HasSuffix(base, ".tex") {
		base += ".tex"
	}
	return base
}

// document mirrors the template contract: a single cv object with escaped
// scalar fields and child sequences.
type document struct {
	CV cvView
}

type cvView struct {
	Title    string
	FullName string
	Email    string
	Phone    string
	Address  string
	Summary  string

	Education  []educationView
	Experience []experienceView
	Skills     []skillView
	Languages  []languageView
}

type educationView struct {
	Institution  string
	Degree       string
	FieldOfStudy string
	StartDate    string
	EndDate      string
	Description  string
}

type experienceView struct {
	Company     string
	Position    string
	Location    string
	StartDate   string
	EndDate     string
	Description string
}

type skillView struct {
	Name  string
	Level int
}

type languageView struct {
	Name        string
	Proficiency string
}

func newCVView(c cvdomain.CV) cvView {
	v := cvView{
		Title:    Escape(c.Title),
		FullName: Escape(c.FullName),
		Email:    Escape(c.Email),
		Phone:    Escape(c.Phone),
		Address:  Escape(c.Address),
		Summary:  Escape(c.Summary),
	}

	for _, edu := range c.Education {
		v.Education = append(v.Education, educationView{
			Institution:  Escape(edu.Institution),
			Degree:       Escape(edu.Degree),
			FieldOfStudy: Escape(edu.FieldOfStudy),
			StartDate:    formatDate(edu.StartDate, educationDateLayout),
			EndDate:      formatDate(edu.EndDate, educationDateLayout),
			Description:  Escape(edu.Description),
		})
	}

	for _, exp := range c.Experience {
		v.Experience = append(v.Experience, experienceView{
			Company:     Escape(exp.Company),
			Position:    Escape(exp.Position),
			Location:    Escape(exp.Location),
			StartDate:   formatDate(exp.StartDate, experienceDateLayout),
			EndDate:     formatDate(exp.EndDate, experienceDateLayout),
			Description: Escape(exp.Description),
		})
	}

	for _, sk := range c.Skills {
		v.Skills = append(v.Skills, skillView{Name: Escape(sk.Name), Level: sk.Level})
	}

	for _, lang := range c.Languages {
		v.Languages = append(v.Languages, languageView{Name: Escape(lang.Name), Proficiency: Escape(lang.Proficiency)})
	}

	return v
}

func Escape(s string) string {
	return latexEscaper.Replace(s)
}

// formatDate renders an absent date as the literal Present. Month names come
// out in English regardless of host locale, which is the fixed-locale
// rendering the documents expect.
func formatDate(d *time.Time, layout string) string {
	if d == nil {
		return presentLabel
	}
	return d.Format(layout)
}
