package types

// MatchResult is the derived compatibility of one candidate with a set of answers.
type MatchResult struct {
	CandidateID      string             `json:"candidateId"`
	Name             string             `json:"name"`
	Party            string             `json:"party"`
	Score            int                `json:"score"`
	MatchedPositions int                `json:"matchedPositions"`
	AlignmentByArea  map[PolicyArea]int `json:"alignmentByArea"`
}

// MatchRequest is the body of the scoring endpoint.
type MatchRequest struct {
	Answers []UserAnswer `json:"answers" validate:"required,min=1"`
}

// MatchResponse is returned by the scoring endpoint.
type MatchResponse struct {
	Matches           []MatchResult `json:"matches"`
	QuestionsAnswered int           `json:"questionsAnswered"`
	TotalCandidates   int           `json:"totalCandidates"`
}
