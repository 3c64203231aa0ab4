package service

import (
	"regexp"
	"strings"
)

// questionParser turns the model's line-based tagged reply into typed
// candidates. The grammar is tiny and fixed:
//
//	MCQ: / SHORT: / CONCEPTUAL:   section markers
//	Q<n>:                         question markers
//	A) .. D)                      option markers (mcq)
//	CORRECT: <letter>             correct answer (mcq)
//	ANSWER: <text>                expected answer (short)
//	KEY_POINTS: <text>            key points (conceptual)
//
// Malformed blocks are dropped, never surfaced as errors: one bad block must
// not cost the chunk its remaining questions.
type questionParser struct{}

var (
	sectionMarkerRe = regexp.MustCompile(`(?m)^\s*(MCQ|SHORT|CONCEPTUAL)\s*:\s*$`)
	questionStartRe = regexp.MustCompile(`(?m)^\s*Q\d+\s*[:.)]\s*`)
	optionLineRe    = regexp.MustCompile(`^\s*([A-D])\)\s*(.+)$`)
	correctLineRe   = regexp.MustCompile(`(?i)^\s*CORRECT\s*(?:ANSWER)?\s*:\s*([A-D])\b`)
	answerLineRe    = regexp.MustCompile(`(?i)^\s*ANSWER\s*:\s*(.*)$`)
	keyPointsLineRe = regexp.MustCompile(`(?i)^\s*KEY[_ ]?POINTS\s*:\s*(.*)$`)
)

// ParseCandidates splits the raw reply into its three sections and parses each
// question block, recording chunk id and source on every accepted candidate.
func (p questionParser) ParseCandidates(raw string, chunkID int, source string) []CandidateQuestion {
	var out []CandidateQuestion
	for name, body := range p.splitSections(raw) {
		for _, block := range p.splitBlocks(body) {
			var c CandidateQuestion
			switch name {
			case "MCQ":
				c = p.parseMCQBlock(block, chunkID, source)
			case "SHORT":
				c = p.parseShortBlock(block, chunkID, source)
			case "CONCEPTUAL":
				c = p.parseConceptualBlock(block, chunkID, source)
			}
			if c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// splitSections maps section name to the text between its marker and the next.
func (p questionParser) splitSections(raw string) map[string]string {
	sections := make(map[string]string)
	locs := sectionMarkerRe.FindAllStringSubmatchIndex(raw, -1)
	for i, loc := range locs {
		name := raw[loc[2]:loc[3]]
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sections[name] = raw[loc[1]:end]
	}
	return sections
}

// splitBlocks cuts a section body into per-question blocks at each Q<n>: marker.
func (p questionParser) splitBlocks(body string) []string {
	locs := questionStartRe.FindAllStringIndex(body, -1)
	var blocks []string
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := strings.TrimSpace(body[loc[1]:end])
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// parseMCQBlock accepts a block only with a non-empty question line, exactly
// four lettered options and a valid correct letter.
func (p questionParser) parseMCQBlock(block string, chunkID int, source string) CandidateQuestion {
	lines := strings.Split(block, "\n")
	options := make(map[string]string)
	correct := ""
	var questionLines []string

	for _, line := range lines {
		if m := optionLineRe.FindStringSubmatch(line); m != nil {
			options[m[1]] = strings.TrimSpace(m[2])
			continue
		}
		if m := correctLineRe.FindStringSubmatch(line); m != nil {
			correct = strings.ToUpper(m[1])
			continue
		}
		if len(options) == 0 && correct == "" {
			questionLines = append(questionLines, strings.TrimSpace(line))
		}
	}

	question := strings.TrimSpace(strings.Join(questionLines, " "))
	if question == "" || len(options) != 4 || correct == "" {
		return nil
	}
	for _, letter := range []string{"A", "B", "C", "D"} {
		if options[letter] == "" {
			return nil
		}
	}

	return MCQCandidate{
		candidateBase: candidateBase{Text: question, ChunkID: chunkID, Source: source},
		Options:       options,
		CorrectAnswer: correct,
	}
}

func (p questionParser) parseShortBlock(block string, chunkID int, source string) CandidateQuestion {
	question, answer := splitQuestionAndField(block, answerLineRe)
	if question == "" || answer == "" {
		return nil
	}
	return ShortAnswerCandidate{
		candidateBase:  candidateBase{Text: question, ChunkID: chunkID, Source: source},
		ExpectedAnswer: answer,
	}
}

func (p questionParser) parseConceptualBlock(block string, chunkID int, source string) CandidateQuestion {
	question, keyPoints := splitQuestionAndField(block, keyPointsLineRe)
	if question == "" || keyPoints == "" {
		return nil
	}
	return ConceptualCandidate{
		candidateBase: candidateBase{Text: question, ChunkID: chunkID, Source: source},
		KeyPoints:     keyPoints,
	}
}

// splitQuestionAndField separates the question lines from the first line
// matching fieldRe; everything after that line joins the field value.
func splitQuestionAndField(block string, fieldRe *regexp.Regexp) (string, string) {
	lines := strings.Split(block, "\n")
	var questionLines, fieldLines []string
	inField := false
	for _, line := range lines {
		if !inField {
			if m := fieldRe.FindStringSubmatch(line); m != nil {
				inField = true
				if v := strings.TrimSpace(m[1]); v != "" {
					fieldLines = append(fieldLines, v)
				}
				continue
			}
			questionLines = append(questionLines, strings.TrimSpace(line))
			continue
		}
		fieldLines = append(fieldLines, strings.TrimSpace(line))
	}
	question := strings.TrimSpace(strings.Join(questionLines, " "))
	field := strings.TrimSpace(strings.Join(fieldLines, " "))
	return question, field
}
