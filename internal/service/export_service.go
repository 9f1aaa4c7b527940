package service

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/pkg/export"
	"github.com/noah-isme/clima-laboral-api/pkg/storage"
)

const (
	exportSheetName  = "Resultados Detallados"
	exportEmptyLabel = "No hay datos registrados aún."
	exportFilePrefix = "CVDirecto"
)

type exportSource interface {
	ListSurveys(ctx context.Context) ([]models.Survey, error)
	ListAnswers(ctx context.Context) ([]models.Answer, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type tableRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix    string
	ResultTTL    time.Duration
	CSVDelimiter rune
}

// ExportFile is a rendered export ready to be streamed or stored.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders survey data as spreadsheets and PDF reports.
type ExportService struct {
	source  exportSource
	stats   dashboardSource
	matcher *AreaMatcher
	storage fileStorage
	signer  *storage.SignedURLSigner
	csv     tableRenderer
	xlsx    tableRenderer
	pdf     documentRenderer
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService. files and signer may be
// nil when only direct downloads are served.
func NewExportService(source exportSource, stats dashboardSource, matcher *AreaMatcher, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if matcher == nil {
		matcher = NewAreaMatcher(logger, nil)
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		source:  source,
		stats:   stats,
		matcher: matcher,
		storage: files,
		signer:  signer,
		csv:     export.NewCSVExporter(export.CSVOptions{BOM: true, Comma: cfg.CSVDelimiter}),
		xlsx:    export.NewXLSXExporter(exportSheetName, exportEmptyLabel),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// SurveyHeaders lists the detailed export columns in order.
func SurveyHeaders() []string {
	headers := []string{"ID Encuesta", "Fecha Registro", "Área", "Estado de Ánimo", "Vulnerabilidad"}
	for _, q := range models.Questions() {
		headers = append(headers, answerHeader(q.ID), scoreHeader(q.ID))
	}
	return append(headers, "Promedio Final")
}

func answerHeader(id int) string {
	return fmt.Sprintf("P%d: %s", id, models.QuestionText(id))
}

func scoreHeader(id int) string {
	return fmt.Sprintf("Score_P%d", id)
}

// SurveyDataset builds one row per submission. Scores are recomputed from
// the answer text and the final average leaves out the change question,
// the same rule the dashboard applies.
func (s *ExportService) SurveyDataset(ctx context.Context) (export.Dataset, error) {
	surveys, err := s.source.ListSurveys(ctx)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load surveys: %w", err)
	}
	answers, err := s.source.ListAnswers(ctx)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load answers: %w", err)
	}
	return BuildSurveyDataset(s.matcher, surveys, answers), nil
}

// BuildSurveyDataset is the pure part of SurveyDataset.
func BuildSurveyDataset(matcher *AreaMatcher, surveys []models.Survey, answers []models.Answer) export.Dataset {
	type running struct {
		row   map[string]interface{}
		sum   int
		count int
	}

	index := make(map[int64]*running, len(surveys))
	ordered := make([]*running, 0, len(surveys))
	for _, survey := range surveys {
		var registered interface{}
		if at := survey.RegisteredTime(); !at.IsZero() {
			registered = at
		}
		r := &running{row: map[string]interface{}{
			"ID Encuesta":     survey.ID,
			"Fecha Registro":  registered,
			"Área":            string(matcher.Match(survey.Area)),
			"Estado de Ánimo": survey.Mood,
			"Vulnerabilidad":  survey.Comment(),
		}}
		index[survey.ID] = r
		ordered = append(ordered, r)
	}

	for _, a := range answers {
		r, ok := index[a.SurveyID]
		if !ok {
			continue
		}
		score := Score(a.Response, a.QuestionID)
		if countsTowardAverage(a.QuestionID) {
			r.sum += score
			r.count++
		}
		if a.QuestionID >= 1 && a.QuestionID <= models.QuestionCount {
			r.row[answerHeader(a.QuestionID)] = a.Response
			r.row[scoreHeader(a.QuestionID)] = score
		}
	}

	rows := make([]map[string]interface{}, 0, len(ordered))
	for _, r := range ordered {
		avg := 0.0
		if r.count > 0 {
			avg = float64(r.sum) / float64(r.count)
		}
		r.row["Promedio Final"] = fmt.Sprintf("%.2f", avg)
		rows = append(rows, r.row)
	}
	return export.Dataset{Headers: SurveyHeaders(), Rows: rows}
}

// Spreadsheet renders the detailed survey export as xlsx or csv.
func (s *ExportService) Spreadsheet(ctx context.Context, format models.ReportFormat) (*ExportFile, error) {
	dataset, err := s.SurveyDataset(ctx)
	if err != nil {
		return nil, err
	}

	var renderer tableRenderer
	switch format {
	case models.ReportFormatXLSX:
		renderer = s.xlsx
	case models.ReportFormatCSV:
		renderer = s.csv
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format %s", format)
	}
	data, err := renderer.Render(dataset)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s_Data_Completa_%s.%s", exportFilePrefix, s.now().UTC().Format("2006-01-02"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// AreaReport renders the PDF report for one area or GENERAL.
func (s *ExportService) AreaReport(ctx context.Context, area models.Area) (*ExportFile, error) {
	dashboard, _, err := s.stats.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	data, err := s.pdf.Render(BuildAreaDocument(dashboard, area))
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("Reporte_%s_%s_%s.pdf", exportFilePrefix, cleanFilePart(string(area)), s.now().UTC().Format("2006-01-02")),
		ContentType: models.ReportFormatPDF.ContentType(),
		Data:        data,
	}, nil
}

// BuildAreaDocument lays out the PDF sections for area. GENERAL also gets
// the area ranking.
func BuildAreaDocument(dashboard *models.DashboardStats, area models.Area) export.Document {
	stats := dashboard.Areas[area]
	doc := export.Document{
		Title:    fmt.Sprintf("Reporte de Clima Laboral: %s", area),
		Subtitle: "Generado " + dashboard.GeneratedAt.UTC().Format("2006-01-02 15:04") + " UTC",
	}

	summary := []string{
		fmt.Sprintf("Participantes: %d", stats.Total),
		fmt.Sprintf("Promedio general: %.1f / 10", stats.AverageScore),
		fmt.Sprintf("Casos de vulnerabilidad: %d", stats.VulnerabilityCount),
	}
	if dashboard.Degraded {
		summary = append(summary, "Aviso: los datos no estaban disponibles al generar este reporte.")
	}
	doc.Sections = append(doc.Sections, export.Section{Heading: "Resumen", Lines: summary})

	moods := export.Dataset{Headers: []string{"Estado", "Respuestas", "%"}}
	for _, share := range stats.MoodDistribution {
		moods.Rows = append(moods.Rows, map[string]interface{}{
			"Estado":     share.Label,
			"Respuestas": share.Count,
			"%":          share.Percent,
		})
	}
	doc.Sections = append(doc.Sections, export.Section{Heading: "Estado de ánimo", Table: &moods, Widths: []float64{90, 50, 50}})

	questions := export.Dataset{Headers: []string{"Pregunta", "Sí %", "A veces %", "No %"}}
	for _, q := range stats.Questions {
		questions.Rows = append(questions.Rows, map[string]interface{}{
			"Pregunta":  fmt.Sprintf("P%d. %s", q.QuestionID, q.Text),
			"Sí %":      q.AffirmativePercent,
			"A veces %": q.NeutralPercent,
			"No %":      q.NegativePercent,
		})
	}
	doc.Sections = append(doc.Sections, export.Section{Heading: "Factores por pregunta", Table: &questions, Widths: []float64{130, 20, 20, 20}})

	if area == models.AreaGeneral {
		ranking := export.Dataset{Headers: []string{"#", "Área", "Promedio", "Participantes"}}
		for _, entry := range RankAreas(dashboard) {
			ranking.Rows = append(ranking.Rows, map[string]interface{}{
				"#":             entry.Position,
				"Área":          string(entry.Area),
				"Promedio":      fmt.Sprintf("%.1f", entry.AverageScore),
				"Participantes": entry.Total,
			})
		}
		doc.Sections = append(doc.Sections, export.Section{Heading: "Ranking por áreas", Table: &ranking, Widths: []float64{15, 95, 40, 40}})
	}

	if len(stats.Comments) > 0 {
		comments := append([]models.Comment{}, stats.Comments...)
		sort.SliceStable(comments, func(i, j int) bool { return comments[i].Date.After(comments[j].Date) })
		lines := make([]string, 0, len(comments))
		for _, c := range comments {
			if c.Date.IsZero() {
				lines = append(lines, c.Text)
				continue
			}
			lines = append(lines, fmt.Sprintf("[%s] %s", c.Date.UTC().Format("2006-01-02"), c.Text))
		}
		doc.Sections = append(doc.Sections, export.Section{Heading: "Comentarios de vulnerabilidad", Lines: lines})
	}
	return doc
}

// Generate renders the file a report job asks for, stores it and signs a
// download URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	if s.storage == nil || s.signer == nil {
		return nil, fmt.Errorf("report storage is not configured")
	}

	var (
		file *ExportFile
		err  error
	)
	switch job.Type {
	case models.ReportTypeSurveys:
		file, err = s.Spreadsheet(ctx, job.Params.Format)
	case models.ReportTypeAreaSummary:
		if job.Params.Format != models.ReportFormatPDF {
			return nil, fmt.Errorf("area summary only renders as pdf, got %s", job.Params.Format)
		}
		area := job.Params.Area
		if area == "" {
			area = models.AreaGeneral
		}
		file, err = s.AreaReport(ctx, area)
	default:
		return nil, fmt.Errorf("unsupported report type %s", job.Type)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(fmt.Sprintf("%s/%s", job.ID, file.Filename), file.Data)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("report rendered", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("bytes", len(file.Data)))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	if s.signer == nil {
		return "", "", time.Time{}, storage.ErrMalformedToken
	}
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, or the configured ResultTTL when
// ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

func cleanFilePart(raw string) string {
	if raw == "" {
		return "na"
	}
	return unsafeFileChars.ReplaceAllString(raw, "_")
}
