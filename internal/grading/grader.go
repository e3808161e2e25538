// Package grading turns a learner's spoken answer into a Grade.
package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/openai"
)

// ErrEmptyTranscript is returned when there is nothing to grade.
var ErrEmptyTranscript = errors.New("grading: empty transcript")

// Request is one answer to grade against the item's canonical definition.
type Request struct {
	Term       string
	Canonical  string
	Transcript string
}

type Result struct {
	Grade    models.Grade `json:"grade"`
	Feedback string       `json:"feedback"`
}

// Grader grades a transcript.
type Grader interface {
	Grade(ctx context.Context, req Request) (*Result, error)
}

const gradingSystemPrompt = `You grade vocabulary answers. The learner was asked to explain the meaning of a term. ` +
	`Compare their spoken answer to the reference definition. Reply "pass" when the meaning is captured, ` +
	`"almost" when it is partly right or vague, and "fail" when it is wrong or missing. ` +
	`Give one or two sentences of feedback addressed to the learner.`

var gradingSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"grade", "feedback"},
	"properties": map[string]any{
		"grade":    map[string]any{"type": "string", "enum": []string{"pass", "almost", "fail"}},
		"feedback": map[string]any{"type": "string"},
	},
}

// LLMGrader asks a language model to grade the answer.
type LLMGrader struct {
	gen openai.JSONGenerator
}

var _ Grader = (*LLMGrader)(nil)

func NewLLMGrader(gen openai.JSONGenerator) *LLMGrader {
	return &LLMGrader{gen: gen}
}

func (g *LLMGrader) Grade(ctx context.Context, req Request) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("grading")
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, ErrEmptyTranscript
	}
	log.Debug("grading answer for %q", req.Term)

	user := fmt.Sprintf("Term: %s\nReference definition: %s\nLearner answer: %s", req.Term, req.Canonical, req.Transcript)
	var out struct {
		Grade    string `json:"grade"`
		Feedback string `json:"feedback"`
	}
	if err := g.gen.GenerateJSON(ctx, gradingSystemPrompt, user, "grade", gradingSchema, &out); err != nil {
		log.Error("Failed to grade answer for %q: %v", req.Term, err)
		return nil, fmt.Errorf("grading: %w", err)
	}

	grade, err := models.ParseGrade(out.Grade)
	if err != nil {
		return nil, fmt.Errorf("grading: %w", err)
	}
	return &Result{Grade: grade, Feedback: strings.TrimSpace(out.Feedback)}, nil
}

// Overlap thresholds for ExactGrader.
const (
	passOverlap   = 0.6
	almostOverlap = 0.3
)

// ExactGrader compares content words of the answer and the definition. It is
// used when no language model is configured.
type ExactGrader struct{}

var _ Grader = ExactGrader{}

func (ExactGrader) Grade(ctx context.Context, req Request) (*Result, error) {
	answer := tokens(req.Transcript)
	if len(answer) == 0 {
		return nil, ErrEmptyTranscript
	}
	want := tokens(req.Canonical)
	if len(want) == 0 {
		return &Result{Grade: models.GradeAlmost, Feedback: "No reference definition to compare against."}, nil
	}

	hit := 0
	for w := range want {
		if answer[w] {
			hit++
		}
	}
	overlap := float64(hit) / float64(len(want))

	logger.FromContext(ctx).WithPrefix("grading").Debug("overlap for %q: %.2f", req.Term, overlap)

	switch {
	case overlap >= passOverlap:
		return &Result{Grade: models.GradePass, Feedback: "Matches the definition."}, nil
	case overlap >= almostOverlap:
		return &Result{Grade: models.GradeAlmost, Feedback: "Partly right. Reference: " + req.Canonical}, nil
	default:
		return &Result{Grade: models.GradeFail, Feedback: "Reference: " + req.Canonical}, nil
	}
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "or": true, "and": true, "to": true,
	"in": true, "on": true, "for": true, "with": true, "by": true, "is": true, "it": true,
	"that": true, "as": true, "at": true, "be": true, "something": true, "someone": true,
}

// tokens returns the set of lowercase content words in s.
func tokens(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	}) {
		w = strings.Trim(w, "'")
		if len(w) < 2 || stopWords[w] {
			continue
		}
		out[w] = true
	}
	return out
}
