package cv

import "time"

// CV is the aggregate root. It exclusively owns its child collections;
// children have no lifecycle outside the aggregate. ID is 0 until the store
// assigns one on first create.
type CV struct {
	ID       int64
	UserID   int64
	Title    string
	FullName string
	Email    string
	Phone    string
	Address  string
	Summary  string

	Education  []Education
	Experience []Experience
	Skills     []Skill
	Languages  []Language
}

type Education struct {
	ID           int64
	CVID         int64
	Institution  string
	Degree       string
	FieldOfStudy string
	StartDate    *time.Time
	EndDate      *time.Time
	Description  string
}

type Experience struct {
	ID          int64
	CVID        int64
	Company     string
	Position    string
	Location    string
	StartDate   *time.Time
	EndDate     *time.Time
	Description string
}

type Skill struct {
	ID    int64
	CVID  int64
	Name  string
	Level int
}

type Language struct {
	ID          int64
	CVID        int64
	Name        string
	Proficiency string
}

const (
	MinSkillLevel = 1
	MaxSkillLevel = 5
)

const (
	ProficiencyBeginner     = "Beginner"
	ProficiencyIntermediate = "Intermediate"
	ProficiencyAdvanced     = "Advanced"
	ProficiencyNative       = "Native"
)

func ValidProficiency(p string) bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyNative:
		return true
	}
	return false
}
