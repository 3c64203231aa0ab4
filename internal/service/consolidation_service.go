package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lshigami/Quokka/config"
	"github.com/rs/zerolog/log"
)

// Marks per question type.
const (
	marksMCQ         = 1
	marksShortAnswer = 2
	marksConceptual  = 3
)

// QuizConsolidationService deduplicates, quality-scores and selects the final
// fixed-distribution question set from all generated candidates.
type QuizConsolidationService interface {
	Consolidate(candidates []CandidateQuestion) []FinalQuestion
}

type quizConsolidationService struct {
	similarityThreshold float64
	minQualityScore     float64
	targets             map[string]int
}

func NewQuizConsolidationService(cfg *config.Config) QuizConsolidationService {
	return &quizConsolidationService{
		similarityThreshold: cfg.Pipeline.SimilarityThreshold,
		minQualityScore:     cfg.Pipeline.MinQualityScore,
		targets: map[string]int{
			"mcq":          cfg.Pipeline.TargetMCQ,
			"short_answer": cfg.Pipeline.TargetShortAnswer,
			"conceptual":   cfg.Pipeline.TargetConceptual,
		},
	}
}

// Consolidate groups candidates by type, drops near-duplicates, scores the
// survivors and takes the top scorers per type up to the target distribution.
// Fewer than the target is acceptable; the orchestrator enforces the overall
// quality floor.
func (s *quizConsolidationService) Consolidate(candidates []CandidateQuestion) []FinalQuestion {
	byType := map[string][]CandidateQuestion{}
	for _, c := range candidates {
		byType[c.QuestionType()] = append(byType[c.QuestionType()], c)
	}

	var final []FinalQuestion
	number := 1
	for _, qType := range []string{"mcq", "short_answer", "conceptual"} {
		unique := s.deduplicate(byType[qType])
		scored := scoreQuestions(unique)
		selected := s.selectTop(scored, s.targets[qType])
		for _, sq := range selected {
			fq := toFinalQuestion(sq)
			fq.QuestionNumber = number
			number++
			final = append(final, fq)
		}
		log.Info().
			Str("type", qType).
			Int("candidates", len(byType[qType])).
			Int("afterDedup", len(unique)).
			Int("selected", len(selected)).
			Msg("Consolidated question type")
	}
	return final
}

// deduplicate keeps the first-seen question of every near-duplicate pair.
// Similarity is lexical only; no transitive merging.
func (s *quizConsolidationService) deduplicate(candidates []CandidateQuestion) []CandidateQuestion {
	var accepted []CandidateQuestion
	var acceptedNorms []string
	for _, c := range candidates {
		norm := normalizeQuestionText(c.Question())
		duplicate := false
		for _, prev := range acceptedNorms {
			if diceSimilarity(norm, prev) > s.similarityThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			accepted = append(accepted, c)
			acceptedNorms = append(acceptedNorms, norm)
		}
	}
	return accepted
}

func (s *quizConsolidationService) selectTop(scored []ScoredQuestion, target int) []ScoredQuestion {
	var eligible []ScoredQuestion
	for _, sq := range scored {
		if sq.QualityScore >= s.minQualityScore {
			eligible = append(eligible, sq)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].QualityScore > eligible[j].QualityScore
	})
	if len(eligible) > target {
		eligible = eligible[:target]
	}
	return eligible
}

func scoreQuestions(candidates []CandidateQuestion) []ScoredQuestion {
	scored := make([]ScoredQuestion, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, ScoredQuestion{Candidate: c, QualityScore: qualityScore(c)})
	}
	return scored
}

// qualityScore is an additive well-formedness heuristic capped at 1.0.
func qualityScore(c CandidateQuestion) float64 {
	score := 0.0
	text := c.Question()
	if n := len(text); n >= 20 && n <= 200 {
		score += 0.3
	}
	if n := len(strings.Fields(text)); n >= 5 && n <= 40 {
		score += 0.2
	}

	switch q := c.(type) {
	case MCQCandidate:
		if len(q.Options) == 4 {
			score += 0.2
		}
		switch q.CorrectAnswer {
		case "A", "B", "C", "D":
			score += 0.15
		}
		if len(q.Options) > 0 {
			total := 0
			for _, opt := range q.Options {
				total += len(opt)
			}
			mean := float64(total) / float64(len(q.Options))
			if mean >= 10 && mean <= 80 {
				score += 0.15
			}
		}
	case ShortAnswerCandidate:
		if len(q.ExpectedAnswer) >= 10 {
			score += 0.3
		}
	case ConceptualCandidate:
		if len(q.KeyPoints) >= 10 {
			score += 0.3
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

var punctuationRe = regexp.MustCompile(`[^\pL\pN\s]`)

// normalizeQuestionText lowercases, strips punctuation and collapses
// whitespace so the similarity measure compares content only.
func normalizeQuestionText(text string) string {
	text = strings.ToLower(text)
	text = punctuationRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// diceSimilarity is the Sørensen–Dice coefficient over character bigrams,
// in [0,1].
func diceSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	aBigrams := bigrams(a)
	bBigrams := bigrams(b)
	if len(aBigrams) == 0 || len(bBigrams) == 0 {
		return 0.0
	}

	counts := make(map[string]int, len(aBigrams))
	for _, g := range aBigrams {
		counts[g]++
	}
	overlap := 0
	for _, g := range bBigrams {
		if counts[g] > 0 {
			counts[g]--
			overlap++
		}
	}
	return 2.0 * float64(overlap) / float64(len(aBigrams)+len(bBigrams))
}

func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}

func toFinalQuestion(sq ScoredQuestion) FinalQuestion {
	fq := FinalQuestion{
		Type:         sq.Candidate.QuestionType(),
		QuestionText: sq.Candidate.Question(),
		Difficulty:   difficultyForType(sq.Candidate.QuestionType()),
	}
	switch q := sq.Candidate.(type) {
	case MCQCandidate:
		fq.Marks = marksMCQ
		fq.Options = []string{q.Options["A"], q.Options["B"], q.Options["C"], q.Options["D"]}
		idx := int(q.CorrectAnswer[0] - 'A')
		fq.CorrectIndex = &idx
		fq.Explanation = "The correct answer is " + q.CorrectAnswer + ") " + q.Options[q.CorrectAnswer] + "."
	case ShortAnswerCandidate:
		fq.Marks = marksShortAnswer
		fq.ExpectedAnswer = q.ExpectedAnswer
	case ConceptualCandidate:
		fq.Marks = marksConceptual
		fq.KeyPoints = q.KeyPoints
	}
	return fq
}

// difficultyForType assigns the display label; it mirrors the marks ladder and
// is not used for grading.
func difficultyForType(qType string) string {
	switch qType {
	case "short_answer":
		return "medium"
	case "conceptual":
		return "hard"
	default:
		return "easy"
	}
}
