package interview

import "github.com/spigell/talentscout/internal/store"

// Profile field names as they appear in extraction results and persisted
// documents.
const (
	FieldFullName          = "full_name"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldYearsOfExperience = "years_of_experience"
	FieldDesiredPosition   = "desired_position"
	FieldLocation          = "location"
	FieldTechStack         = "tech_stack"
)

// Profile is the mutable record of everything learned about a candidate.
// An empty string means the field has not been collected yet.
type Profile struct {
	FullName           string   `mapstructure:"full_name"`
	Email              string   `mapstructure:"email"`
	Phone              string   `mapstructure:"phone"`
	YearsOfExperience  string   `mapstructure:"years_of_experience"`
	DesiredPosition    string   `mapstructure:"desired_position"`
	Location           string   `mapstructure:"location"`
	TechStack          string   `mapstructure:"tech_stack"`
	ResumeText         string   `mapstructure:"resume_text"`
	ResumeAnalysis     string   `mapstructure:"resume_analysis"`
	TechnicalQuestions []string `mapstructure:"technical_questions"`
	QAResponses        []string `mapstructure:"qa_responses"`
}

// MergeExtracted applies extracted values to the profile. A field is written
// only when the new value is non-empty and not an absence sentinel, so a
// previously collected value is never downgraded.
func (p *Profile) MergeExtracted(fields map[string]string, sentinels *Sentinels) {
	for field, value := range fields {
		if sentinels.Absent(value) {
			continue
		}
		p.set(field, value)
	}
}

// Complete reports whether all seven collectible fields are present. The
// stage flip it drives is informational; the completion service decides what
// to ask next regardless.
func (p *Profile) Complete() bool {
	collectible := []string{
		p.FullName, p.Email, p.Phone,
		p.YearsOfExperience, p.DesiredPosition,
		p.Location, p.TechStack,
	}
	for _, v := range collectible {
		if v == "" {
			return false
		}
	}
	return true
}

func (p *Profile) set(field, value string) {
	switch field {
	case FieldFullName:
		p.FullName = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	case FieldYearsOfExperience:
		p.YearsOfExperience = value
	case FieldDesiredPosition:
		p.DesiredPosition = value
	case FieldLocation:
		p.Location = value
	case FieldTechStack:
		p.TechStack = value
	}
}

func (p *Profile) document() store.Document {
	questions := append([]string(nil), p.TechnicalQuestions...)
	responses := append([]string(nil), p.QAResponses...)

	return store.Document{
		FieldFullName:          p.FullName,
		FieldEmail:             p.Email,
		FieldPhone:             p.Phone,
		FieldYearsOfExperience: p.YearsOfExperience,
		FieldDesiredPosition:   p.DesiredPosition,
		FieldLocation:          p.Location,
		FieldTechStack:         p.TechStack,
		"resume_text":          p.ResumeText,
		"resume_analysis":      p.ResumeAnalysis,
		"technical_questions":  questions,
		"qa_responses":         responses,
	}
}
