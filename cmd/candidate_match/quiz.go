package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-match/internal/observability"
	"github.com/jonathan/candidate-match/internal/types"
)

// PromptSkip leaves a question unanswered.
const PromptSkip = "Skip"

var agreementLabels = []string{
	"1 - Strongly disagree",
	"2 - Disagree",
	"3 - Neutral",
	"4 - Agree",
	"5 - Strongly agree",
}

var errQuizCancelled = errors.New("quiz cancelled")

// selectPrompt shows a list and returns the chosen index. Tests replace it.
var selectPrompt = func(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}
	idx, _, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return 0, errQuizCancelled
	}
	return idx, err
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the quiz interactively against a catalog file",
	RunE:  runQuiz,
}

var (
	quizCatalog string
	quizTop     int
)

func init() {
	quizCmd.Flags().StringVarP(&quizCatalog, "catalog", "c", "", "Path to catalog JSON file (required)")
	quizCmd.Flags().IntVar(&quizTop, "top", 0, "Number of candidates to show (default server.top_k)")

	if err := quizCmd.MarkFlagRequired("catalog"); err != nil {
		panic(fmt.Sprintf("failed to mark catalog flag as required: %v", err))
	}

	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalogFile(quizCatalog)
	if err != nil {
		return err
	}

	answers, err := askQuestions(catalog.Questions)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		return fmt.Errorf("no questions answered")
	}

	topK := appCfg.Server.TopK
	if quizTop > 0 {
		topK = quizTop
	}
	resp, err := scoreCatalog(catalog, answers, appCfg.Matching.EmbeddingDim, topK)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(resp)
	return nil
}

// askQuestions prompts for every question in catalog order. Skipped
// questions produce no answer.
func askQuestions(questions []types.Question) ([]types.UserAnswer, error) {
	answers := make([]types.UserAnswer, 0, len(questions))
	for i, q := range questions {
		label := fmt.Sprintf("[%d/%d] %s", i+1, len(questions), q.Text)

		var items []string
		switch q.Type {
		case types.QuestionAgreementScale:
			items = append(items, agreementLabels...)
		case types.QuestionSpecificChoice:
			items = append(items, q.Options...)
		default:
			continue
		}
		items = append(items, PromptSkip)

		idx, err := selectPrompt(label, items)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(items)-1 {
			continue
		}

		answer := types.UserAnswer{QuestionID: q.QuestionID}
		if q.Type == types.QuestionAgreementScale {
			answer.Answer = types.NumberAnswer(float64(types.ScaleMin + idx))
		} else {
			answer.Answer = types.TextAnswer(q.Options[idx])
		}
		answers = append(answers, answer)
	}
	return answers, nil
}
