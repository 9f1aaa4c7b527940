package models

// Question is one of the fixed Likert-style survey items.
type Question struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

const (
	// QuestionCount is the number of survey questions.
	QuestionCount = 14
	// ChangeQuestionID asks whether anything changed since the last survey.
	// Its answers are tallied but never scored.
	ChangeQuestionID = 14
	// UnknownQuestionText labels answers whose question id is not defined.
	UnknownQuestionText = "Pregunta desconocida"
)

var surveyQuestions = [QuestionCount]Question{
	{ID: 1, Text: "¿Mi supervisor me trata con respeto?"},
	{ID: 2, Text: "¿Escucha mis opiniones y sugerencias?"},
	{ID: 3, Text: "¿Se comunica de forma clara y profesional?"},
	{ID: 4, Text: "¿Me brinda apoyo cuando tengo un problema laboral?"},
	{ID: 5, Text: "¿Trata a todos los compañeros por igual?"},
	{ID: 6, Text: "¿Me explica correctamente que es lo que se espera de mi trabajo?"},
	{ID: 7, Text: "¿Me ofrece retroalimentación constructiva para mejorar?"},
	{ID: 8, Text: "¿Esta disponible cuando necesito orientación y ayuda?"},
	{ID: 9, Text: "¿Reconoce mi esfuerzo y logros?"},
	{ID: 10, Text: "¿Se interesa por mantener un buen ambiente de trabajo?"},
	{ID: 11, Text: "¿Me siento cómodo trabajando con mi supervisor o coordinador?"},
	{ID: 12, Text: "¿Considero que mi supervisor o coordinador es justo con sus decisiones?"},
	{ID: 13, Text: "¿Se han realizado juntas de arranque en tu área?"},
	{ID: 14, Text: "¿Ha habido algún cambio desde la ultima vez que contestaste la encuesta? (Si eres de nuevo ingreso responde N/A)"},
}

// Questions returns the survey questions in order.
func Questions() []Question {
	out := make([]Question, QuestionCount)
	copy(out, surveyQuestions[:])
	return out
}

// QuestionText returns the text for id, or UnknownQuestionText.
func QuestionText(id int) string {
	if id < 1 || id > QuestionCount {
		return UnknownQuestionText
	}
	return surveyQuestions[id-1].Text
}

// Frequency options offered for questions 1-13.
var FrequencyOptions = []string{"Siempre", "A veces", "Nunca"}
