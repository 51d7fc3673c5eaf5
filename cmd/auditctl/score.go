package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"compliance-backend/internal/audit"
)

func newScoreCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "score <questions.json>",
		Short: "Compute global and per-group conformity scores",
		Long:  `Reads a JSON array of questions (or an object with a "questions" field) and prints the score summary.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := readQuestions(args[0])
			if err != nil {
				return err
			}
			if group != "" {
				return writeJSON(cmd.OutOrStdout(), audit.Score(questions, group))
			}
			return writeJSON(cmd.OutOrStdout(), audit.Summarize(questions))
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "score a single group only")
	return cmd
}

func readQuestions(path string) ([]audit.Question, error) {
	var wrapped struct {
		Questions []audit.Question `json:"questions"`
	}
	if err := readJSON(path, &wrapped); err == nil && len(wrapped.Questions) > 0 {
		return wrapped.Questions, nil
	}
	var questions []audit.Question
	if err := readJSON(path, &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s contains no questions", path)
	}
	return questions, nil
}
