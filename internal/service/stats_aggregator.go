package service

import (
	"github.com/noah-isme/clima-laboral-api/internal/models"
)

// AreaAccumulator holds the running totals for one area. Fixed-size arrays
// keep it a plain value so folds never share state.
type AreaAccumulator struct {
	Total         int
	ScoreSum      int
	ScoreCount    int
	Vulnerability int
	Comments      []models.Comment
	Moods         [models.MoodCount]int
	Questions     [models.QuestionCount][3]int
}

// FoldSurvey returns acc updated with one submission header.
func FoldSurvey(acc AreaAccumulator, s models.Survey) AreaAccumulator {
	acc.Total++
	if text := s.Comment(); text != "" {
		acc.Vulnerability++
		// Full slice expression forces a copy so acc's caller keeps its own slice.
		acc.Comments = append(acc.Comments[:len(acc.Comments):len(acc.Comments)], models.Comment{Text: text, Date: s.RegisteredTime()})
	}
	if mood, ok := models.ParseMood(s.Mood); ok {
		acc.Moods[mood.Index()]++
	}
	return acc
}

// FoldAnswer returns acc updated with one answer row.
func FoldAnswer(acc AreaAccumulator, a models.Answer) AreaAccumulator {
	if countsTowardAverage(a.QuestionID) {
		acc.ScoreSum += Score(a.Response, a.QuestionID)
		acc.ScoreCount++
	}
	if a.QuestionID >= 1 && a.QuestionID <= models.QuestionCount {
		acc.Questions[a.QuestionID-1][Classify(a.Response)]++
	}
	return acc
}

// Aggregation is the result of folding every row.
type Aggregation struct {
	Nodes     map[models.Area]AreaAccumulator
	Unmatched int
}

// Aggregate folds headers and answers into GENERAL plus one node per
// canonical area. Answers without a header are skipped. A header whose area
// does not match contributes to GENERAL only.
func Aggregate(matcher *AreaMatcher, surveys []models.Survey, answers []models.Answer) Aggregation {
	nodes := make(map[models.Area]AreaAccumulator, len(models.Areas())+1)
	nodes[models.AreaGeneral] = AreaAccumulator{}
	for _, area := range models.Areas() {
		nodes[area] = AreaAccumulator{}
	}

	owner := make(map[int64]models.Area, len(surveys))
	unmatched := 0
	for _, s := range surveys {
		area, ok := matcher.Resolve(s.Area)
		if !ok {
			unmatched++
		}
		owner[s.ID] = area

		nodes[models.AreaGeneral] = FoldSurvey(nodes[models.AreaGeneral], s)
		if area != models.AreaGeneral {
			nodes[area] = FoldSurvey(nodes[area], s)
		}
	}

	for _, a := range answers {
		area, ok := owner[a.SurveyID]
		if !ok {
			continue
		}
		nodes[models.AreaGeneral] = FoldAnswer(nodes[models.AreaGeneral], a)
		if area != models.AreaGeneral {
			nodes[area] = FoldAnswer(nodes[area], a)
		}
	}

	return Aggregation{Nodes: nodes, Unmatched: unmatched}
}
