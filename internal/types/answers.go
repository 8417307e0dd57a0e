package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// UserAnswer is one quiz response. It is never persisted.
type UserAnswer struct {
	QuestionID string      `json:"questionId" validate:"required"`
	Answer     AnswerValue `json:"answer"`
}

// AnswerValue holds the raw answer, which is either a number (agreement scale)
// or a string (selected option). Which one is meaningful depends on the question.
type AnswerValue struct {
	Number   float64
	Text     string
	IsNumber bool
	IsSet    bool
}

// NumberAnswer builds a numeric AnswerValue.
func NumberAnswer(v float64) AnswerValue {
	return AnswerValue{Number: v, IsNumber: true, IsSet: true}
}

// TextAnswer builds a string AnswerValue.
func TextAnswer(s string) AnswerValue {
	return AnswerValue{Text: s, IsSet: true}
}

// UnmarshalJSON accepts a JSON number or a JSON string. Anything else,
// null included, leaves the value unset so the record can be dropped later
// instead of failing the whole request.
func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	*a = AnswerValue{}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = NumberAnswer(n)
	}
	return nil
}

// UnmarshalJSON decodes one answer record. A non-string questionId or a
// record that is not an object yields an empty answer rather than an error.
func (u *UserAnswer) UnmarshalJSON(data []byte) error {
	*u = UserAnswer{}
	var raw struct {
		QuestionID json.RawMessage `json:"questionId"`
		Answer     json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if id := bytes.TrimSpace(raw.QuestionID); len(id) > 0 && id[0] == '"' {
		if err := json.Unmarshal(id, &u.QuestionID); err != nil {
			return err
		}
	}
	if len(raw.Answer) > 0 {
		return u.Answer.UnmarshalJSON(raw.Answer)
	}
	return nil
}

// MarshalJSON writes the value back in the shape it was received.
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch {
	case !a.IsSet:
		return []byte("null"), nil
	case a.IsNumber:
		return json.Marshal(a.Number)
	default:
		return json.Marshal(a.Text)
	}
}

// String renders the value for logs and CLI output.
func (a AnswerValue) String() string {
	switch {
	case !a.IsSet:
		return ""
	case a.IsNumber:
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	default:
		return a.Text
	}
}

// ResolvedAnswer is a UserAnswer bound to its question's type. The only
// implementations are AgreementAnswer and ChoiceAnswer.
type ResolvedAnswer interface {
	ID() string
	resolved()
}

// AgreementAnswer is a position on the agreement scale.
type AgreementAnswer struct {
	QuestionID string
	Value      int
}

// ID returns the question the answer refers to.
func (a AgreementAnswer) ID() string { return a.QuestionID }
func (AgreementAnswer) resolved() {}

// ChoiceAnswer is a selected option identifier.
type ChoiceAnswer struct {
	QuestionID string
	Option     string
}

// ID returns the question the answer refers to.
func (a ChoiceAnswer) ID() string { return a.QuestionID }
func (ChoiceAnswer) resolved() {}
