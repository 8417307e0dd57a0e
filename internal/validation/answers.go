package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/candidate-match/internal/types"
)

// Answers binds each answer to its question and resolves it into a typed
// answer. Answers whose question is unknown are dropped with ReasonUnknownQ;
// answers outside the question's domain are dropped with ReasonAnswerDomain.
// Only the first answer for a question is kept.
func (v *Validator) Answers(answers []types.UserAnswer, questions map[string]types.Question) ([]types.ResolvedAnswer, Report) {
	report := newReport(len(answers))
	resolved := make([]types.ResolvedAnswer, 0, len(answers))
	seen := make(map[string]struct{}, len(answers))

	for _, a := range answers {
		if strings.TrimSpace(a.QuestionID) == "" || !a.Answer.IsSet {
			report.drop(ReasonStructure)
			continue
		}
		if _, dup := seen[a.QuestionID]; dup {
			report.drop(ReasonDuplicate)
			continue
		}
		q, ok := questions[a.QuestionID]
		if !ok {
			report.drop(ReasonUnknownQ)
			continue
		}
		r, err := ResolveAnswer(a, q)
		if err != nil {
			report.drop(ReasonAnswerDomain)
			continue
		}
		seen[a.QuestionID] = struct{}{}
		resolved = append(resolved, r)
	}

	report.Valid = len(resolved)
	return resolved, report
}

// ResolveAnswer interprets a raw answer according to the question type.
// Agreement answers must be whole numbers on the scale; numeric strings are
// accepted. Choice answers must name one of the question's options when the
// question lists any.
func ResolveAnswer(a types.UserAnswer, q types.Question) (types.ResolvedAnswer, error) {
	switch q.Type {
	case types.QuestionAgreementScale:
		value, err := scaleValue(a.Answer)
		if err != nil {
			return nil, err
		}
		return types.AgreementAnswer{QuestionID: q.QuestionID, Value: value}, nil

	case types.QuestionSpecificChoice:
		if a.Answer.IsNumber {
			return nil, fmt.Errorf("question %s expects an option, got a number", q.QuestionID)
		}
		option := strings.TrimSpace(a.Answer.Text)
		if option == "" {
			return nil, fmt.Errorf("question %s: empty option", q.QuestionID)
		}
		if len(q.Options) > 0 && !containsOption(q.Options, option) {
			return nil, fmt.Errorf("question %s: unknown option %q", q.QuestionID, option)
		}
		return types.ChoiceAnswer{QuestionID: q.QuestionID, Option: option}, nil

	default:
		return nil, fmt.Errorf("question %s: unsupported type %q", q.QuestionID, q.Type)
	}
}

func scaleValue(v types.AnswerValue) (int, error) {
	n := v.Number
	if !v.IsNumber {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, fmt.Errorf("agreement answer %q is not a number", v.Text)
		}
		n = parsed
	}
	if math.IsNaN(n) || n != math.Trunc(n) {
		return 0, fmt.Errorf("agreement answer %v is not a whole number", n)
	}
	if n < types.ScaleMin || n > types.ScaleMax {
		return 0, fmt.Errorf("agreement answer %v outside %d..%d", n, types.ScaleMin, types.ScaleMax)
	}
	return int(n), nil
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), option) {
			return true
		}
	}
	return false
}
