package service

import "github.com/lshigami/Quokka/config"

// testConfig returns the production defaults so tests exercise the same
// thresholds the pipeline ships with. Individual tests override fields.
func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.Pipeline{
			MinChunkWords:       800,
			TargetChunkWords:    1200,
			MaxChunkWords:       1500,
			PromptCharLimit:     2000,
			MaxRetries:          3,
			RetryDelaySeconds:   2,
			PacingDelayMillis:   1000,
			SimilarityThreshold: 0.75,
			MinQualityScore:     0.6,
			TargetMCQ:           15,
			TargetShortAnswer:   10,
			TargetConceptual:    5,
			MinFinalQuestions:   15,
			MinExtractedChars:   100,
		},
		Attempts: config.Attempts{
			MaxAttempts:       5,
			PassingPercentage: 70,
			BlockDurationDays: 30,
		},
	}
}
