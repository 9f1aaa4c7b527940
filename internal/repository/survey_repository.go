package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

// Only the ids are guaranteed non-null. Text and numeric columns read as
// their zero value; timestamps stay nullable on the model.
const (
	surveyColumns = "id, fecha_registro, COALESCE(area, '') AS area, COALESCE(mood, '') AS mood, vulnerability_text, created_at"
	answerColumns = "id, COALESCE(encuesta_id, 0) AS encuesta_id, COALESCE(pregunta_id, 0) AS pregunta_id, " +
		"COALESCE(pregunta_texto, '') AS pregunta_texto, COALESCE(respuesta, '') AS respuesta, COALESCE(puntaje, 0) AS puntaje"
)

// SurveyRepository persists submissions in encuestas and respuestas.
type SurveyRepository struct {
	db       *sqlx.DB
	pageSize int
}

// NewSurveyRepository constructs the repository. pageSize bounds each
// listing round trip.
func NewSurveyRepository(db *sqlx.DB, pageSize int) *SurveyRepository {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SurveyRepository{db: db, pageSize: pageSize}
}

// ListSurveys returns every header ordered by creation.
func (r *SurveyRepository) ListSurveys(ctx context.Context) ([]models.Survey, error) {
	query := fmt.Sprintf("SELECT %s FROM encuestas ORDER BY created_at ASC, id ASC", surveyColumns)
	surveys, err := selectAllPages[models.Survey](ctx, r.db, query, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return surveys, nil
}

// ListAnswers returns every answer row.
func (r *SurveyRepository) ListAnswers(ctx context.Context) ([]models.Answer, error) {
	query := fmt.Sprintf("SELECT %s FROM respuestas ORDER BY id ASC", answerColumns)
	answers, err := selectAllPages[models.Answer](ctx, r.db, query, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}

// GetSurvey loads one header. Missing rows yield sql.ErrNoRows.
func (r *SurveyRepository) GetSurvey(ctx context.Context, id int64) (*models.Survey, error) {
	query := fmt.Sprintf("SELECT %s FROM encuestas WHERE id = $1", surveyColumns)
	var survey models.Survey
	if err := r.db.GetContext(ctx, &survey, query, id); err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return &survey, nil
}

// ListAnswersBySurvey returns one submission's answers ordered by question.
func (r *SurveyRepository) ListAnswersBySurvey(ctx context.Context, surveyID int64) ([]models.Answer, error) {
	query := fmt.Sprintf("SELECT %s FROM respuestas WHERE encuesta_id = $1 ORDER BY pregunta_id ASC", answerColumns)
	answers := make([]models.Answer, 0)
	if err := r.db.SelectContext(ctx, &answers, query, surveyID); err != nil {
		return nil, fmt.Errorf("list survey answers: %w", err)
	}
	return answers, nil
}

// Create inserts the header and its answers in one transaction and fills
// in the generated ids.
func (r *SurveyRepository) Create(ctx context.Context, survey *models.Survey, answers []models.Answer) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insertSurvey = `INSERT INTO encuestas (fecha_registro, area, mood, vulnerability_text, created_at)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
		if err := tx.QueryRowxContext(ctx, insertSurvey,
			survey.RegisteredAt, survey.Area, survey.Mood, survey.VulnerabilityText, survey.CreatedAt,
		).Scan(&survey.ID); err != nil {
			return fmt.Errorf("insert survey: %w", err)
		}

		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].SurveyID = survey.ID
		}
		const insertAnswers = `INSERT INTO respuestas (encuesta_id, pregunta_id, pregunta_texto, respuesta, puntaje)
VALUES (:encuesta_id, :pregunta_id, :pregunta_texto, :respuesta, :puntaje)`
		if _, err := tx.NamedExecContext(ctx, insertAnswers, answers); err != nil {
			return fmt.Errorf("insert answers: %w", err)
		}
		return nil
	})
}

// Update rewrites the header and the given answers. An answer with no
// existing row is inserted.
func (r *SurveyRepository) Update(ctx context.Context, survey *models.Survey, answers []models.Answer) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const updateSurvey = `UPDATE encuestas SET area = $1, mood = $2, vulnerability_text = $3 WHERE id = $4`
		res, err := tx.ExecContext(ctx, updateSurvey, survey.Area, survey.Mood, survey.VulnerabilityText, survey.ID)
		if err != nil {
			return fmt.Errorf("update survey: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("update survey: %w", sql.ErrNoRows)
		}

		const updateAnswer = `UPDATE respuestas SET respuesta = $1, puntaje = $2 WHERE encuesta_id = $3 AND pregunta_id = $4`
		const insertAnswer = `INSERT INTO respuestas (encuesta_id, pregunta_id, pregunta_texto, respuesta, puntaje) VALUES ($1, $2, $3, $4, $5)`
		for _, a := range answers {
			res, err := tx.ExecContext(ctx, updateAnswer, a.Response, a.Score, survey.ID, a.QuestionID)
			if err != nil {
				return fmt.Errorf("update answer %d: %w", a.QuestionID, err)
			}
			if affected, err := res.RowsAffected(); err == nil && affected > 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx, insertAnswer, survey.ID, a.QuestionID, a.QuestionText, a.Response, a.Score); err != nil {
				return fmt.Errorf("insert answer %d: %w", a.QuestionID, err)
			}
		}
		return nil
	})
}

// Delete removes the answers and then the header.
func (r *SurveyRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM respuestas WHERE encuesta_id = $1`, id); err != nil {
			return fmt.Errorf("delete answers: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM encuestas WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete survey: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("delete survey: %w", sql.ErrNoRows)
		}
		return nil
	})
}
