package dto

import (
	"fmt"
	"time"

	cvdomain "cv-forge/internal/domain/cv"
)

const dateLayout = "2006-01-02"

type CVRequest struct {
	Title    string `json:"title"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	Summary  string `json:"summary,omitempty"`

	Education  []EducationRequest  `json:"education"`
	Experience []ExperienceRequest `json:"experience"`
	Skills     []SkillRequest      `json:"skills"`
	Languages  []LanguageRequest   `json:"languages"`
}

type EducationRequest struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Description  string `json:"description,omitempty"`
}

type ExperienceRequest struct {
	Company     string `json:"company"`
	Position    string `json:"position,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

type SkillRequest struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type LanguageRequest struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// ToDomain converts the payload, parsing dates in YYYY-MM-DD form; an empty
// date string means absent.
func (r CVRequest) ToDomain() (cvdomain.CV, error) {
	c := cvdomain.CV{
		Title:    r.Title,
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		Summary:  r.Summary,
	}

	for _, edu := range r.Education {
		start, err := parseDate(edu.StartDate)
		if err != nil {
			return cvdomain.CV{}, err
		}
		end, err := parseDate(edu.EndDate)
		if err != nil {
			return cvdomain.CV{}, err
		}
		c.Education = append(c.Education, cvdomain.Education{
			Institution:  edu.Institution,
			Degree:       edu.Degree,
			FieldOfStudy: edu.FieldOfStudy,
			StartDate:    start,
			EndDate:      end,
			Description:  edu.Description,
		})
	}

	for _, exp := range r.Experience {
		start, err := parseDate(exp.StartDate)
		if err != nil {
			return cvdomain.CV{}, err
		}
		end, err := parseDate(exp.EndDate)
		if err != nil {
			return cvdomain.CV{}, err
		}
		c.Experience = append(c.Experience, cvdomain.Experience{
			Company:     exp.Company,
			Position:    exp.Position,
			Location:    exp.Location,
			StartDate:   start,
			EndDate:     end,
			Description: exp.Description,
		})
	}

	for _, sk := range r.Skills {
		c.Skills = append(c.Skills, cvdomain.Skill{Name: sk.Name, Level: sk.Level})
	}

	for _, lang := range r.Languages {
		c.Languages = append(c.Languages, cvdomain.Language{Name: lang.Name, Proficiency: lang.Proficiency})
	}

	return c, nil
}

type CVResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Title    string `json:"title"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	Summary  string `json:"summary,omitempty"`

	Education  []EducationResponse  `json:"education"`
	Experience []ExperienceResponse `json:"experience"`
	Skills     []SkillResponse      `json:"skills"`
	Languages  []LanguageResponse   `json:"languages"`
}

type EducationResponse struct {
	ID           int64  `json:"id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Description  string `json:"description,omitempty"`
}

type ExperienceResponse struct {
	ID          int64  `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

type SkillResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type LanguageResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

func NewCVResponse(c cvdomain.CV) CVResponse {
	res := CVResponse{
		ID:       c.ID,
		UserID:   c.UserID,
		Title:    c.Title,
		FullName: c.FullName,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
		Summary:  c.Summary,

		Education:  make([]EducationResponse, 0, len(c.Education)),
		Experience: make([]ExperienceResponse, 0, len(c.Experience)),
		Skills:     make([]SkillResponse, 0, len(c.Skills)),
		Languages:  make([]LanguageResponse, 0, len(c.Languages)),
	}

	for _, edu := range c.Education {
		res.Education = append(res.Education, EducationResponse{
			ID:           edu.ID,
			Institution:  edu.Institution,
			Degree:       edu.Degree,
			FieldOfStudy: edu.FieldOfStudy,
			StartDate:    formatDate(edu.StartDate),
			EndDate:      formatDate(edu.EndDate),
			Description:  edu.Description,
		})
	}

	for _, exp := range c.Experience {
		res.Experience = append(res.Experience, ExperienceResponse{
			ID:          exp.ID,
			Company:     exp.Company,
			Position:    exp.Position,
			Location:    exp.Location,
			StartDate:   formatDate(exp.StartDate),
			EndDate:     formatDate(exp.EndDate),
			Description: exp.Description,
		})
	}

	for _, sk := range c.Skills {
		res.Skills = append(res.Skills, SkillResponse{ID: sk.ID, Name: sk.Name, Level: sk.Level})
	}

	for _, lang := range c.Languages {
		res.Languages = append(res.Languages, LanguageResponse{ID: lang.ID, Name: lang.Name, Proficiency: lang.Proficiency})
	}

	return res
}

func NewCVListResponse(list []cvdomain.CV) []CVResponse {
	out := make([]CVResponse, 0, len(list))
	for _, c := range list {
		out = append(out, NewCVResponse(c))
	}
	return out
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
