package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"exam-portal-service/internal/config"
	"exam-portal-service/internal/domain"
)

// NewSeedCmd loads the sample exams into the configured store.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample exams",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Store.Driver == "postgres" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	service, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, seed := range sampleExams() {
		exam, err := service.CreateExam(ctx, seed.Name, seed.Questions)
		if err != nil {
			return err
		}
		log.Printf("seeded exam %q (%s, %d questions)", exam.Name, exam.ID, len(exam.Questions))
	}
	return nil
}

func sampleExams() []domain.Exam {
	return []domain.Exam{
		{
			Name: "Maths",
			Questions: []domain.Question{
				{Text: "What is 5 + 7?", Options: []string{"10", "12", "13", "15"}, CorrectAnswer: 1},
				{Text: "What is 8 x 6?", Options: []string{"42", "48", "56", "64"}, CorrectAnswer: 1},
				{Text: "Solve for x: 2x - 4 = 10", Options: []string{"5", "6", "7", "8"}, CorrectAnswer: 2},
				{Text: "What is the square root of 144?", Options: []string{"10", "11", "12", "14"}, CorrectAnswer: 2},
				{Text: "What is 20% of 150?", Options: []string{"20", "25", "30", "35"}, CorrectAnswer: 2},
				{Text: "Which is a prime number?", Options: []string{"9", "15", "21", "23"}, CorrectAnswer: 3},
				{Text: "What is the value of pi (approx)?", Options: []string{"3.12", "3.14", "3.16", "3.18"}, CorrectAnswer: 1},
				{Text: "100 divided by 4 is?", Options: []string{"20", "25", "30", "40"}, CorrectAnswer: 1},
			},
		},
		{
			Name: "General Knowledge",
			Questions: []domain.Question{
				{Text: "What is the capital of France?", Options: []string{"Berlin", "Madrid", "Paris", "Rome"}, CorrectAnswer: 2},
				{Text: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter", "Saturn"}, CorrectAnswer: 1},
				{Text: "How many continents are there?", Options: []string{"5", "6", "7", "8"}, CorrectAnswer: 2},
				{Text: "Which ocean is the largest?", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectAnswer: 3},
			},
		},
	}
}
