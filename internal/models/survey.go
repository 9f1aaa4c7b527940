package models

import (
	"strings"
	"time"
)

// Survey is one submission header (encuestas table). Legacy rows may lack
// either timestamp.
type Survey struct {
	ID                int64      `db:"id" json:"id"`
	RegisteredAt      *time.Time `db:"fecha_registro" json:"fecha_registro,omitempty"`
	Area              string     `db:"area" json:"area"`
	Mood              string     `db:"mood" json:"mood"`
	VulnerabilityText *string    `db:"vulnerability_text" json:"vulnerability_text,omitempty"`
	CreatedAt         *time.Time `db:"created_at" json:"created_at,omitempty"`
}

// RegisteredTime is the registration date, falling back to the creation
// time. Zero when both are missing.
func (s Survey) RegisteredTime() time.Time {
	switch {
	case s.RegisteredAt != nil:
		return *s.RegisteredAt
	case s.CreatedAt != nil:
		return *s.CreatedAt
	default:
		return time.Time{}
	}
}

// Comment returns the trimmed vulnerability text or "".
func (s Survey) Comment() string {
	if s.VulnerabilityText == nil {
		return ""
	}
	return strings.TrimSpace(*s.VulnerabilityText)
}

// Answer is one question response (respuestas table).
type Answer struct {
	ID           int64  `db:"id" json:"id"`
	SurveyID     int64  `db:"encuesta_id" json:"encuesta_id"`
	QuestionID   int    `db:"pregunta_id" json:"pregunta_id"`
	QuestionText string `db:"pregunta_texto" json:"pregunta_texto"`
	Response     string `db:"respuesta" json:"respuesta"`
	Score        int    `db:"puntaje" json:"puntaje"`
}

// SurveyDetail is a header with its answers ordered by question.
type SurveyDetail struct {
	Survey
	MatchedArea Area     `json:"matched_area"`
	Answers     []Answer `json:"answers"`
}

// SubmitSurveyRequest is the public submission payload.
type SubmitSurveyRequest struct {
	Date              string         `json:"date"`
	Area              string         `json:"area" validate:"required,max=120"`
	Mood              string         `json:"mood" validate:"required"`
	Answers           map[int]string `json:"answers" validate:"required,dive,keys,min=1,max=14,endkeys,required,max=120"`
	VulnerabilityText string         `json:"vulnerability_text" validate:"max=4000"`
}

// SubmitSurveyResponse acknowledges a stored submission.
type SubmitSurveyResponse struct {
	ID             int64  `json:"id"`
	Area           string `json:"area"`
	ClosingMessage string `json:"closing_message"`
}

// UpdateSurveyRequest edits an existing submission. Omitted answers are
// left untouched.
type UpdateSurveyRequest struct {
	Area              string         `json:"area" validate:"required,max=120"`
	Mood              string         `json:"mood" validate:"required"`
	Answers           map[int]string `json:"answers" validate:"dive,keys,min=1,max=14,endkeys,required,max=120"`
	VulnerabilityText *string        `json:"vulnerability_text" validate:"omitempty,max=4000"`
}

// SurveyCatalog is everything a client needs to render the form.
type SurveyCatalog struct {
	Areas       []Area     `json:"areas"`
	Moods       []Mood     `json:"moods"`
	Questions   []Question `json:"questions"`
	Frequencies []string   `json:"frequencies"`
}
