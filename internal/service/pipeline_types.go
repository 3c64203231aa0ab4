package service

// ExtractedText is the cleaned output of one material, before chunking.
// Transient: never persisted.
type ExtractedText struct {
	SourceTitle      string
	Text             string
	SourceMaterialID string
}

// Chunk is a paragraph-aligned slice of extracted text sized for one
// generation call. ChunkID is sequence-unique within a generation run.
type Chunk struct {
	ChunkID     int
	SourceTitle string
	Text        string
	WordCount   int
}

// CandidateQuestion is the sum type over the three generated question shapes.
// Type-specific fields live only on the concrete variants.
type CandidateQuestion interface {
	QuestionType() string
	Question() string
	OriginChunk() int
	Origin() string
}

// candidateBase carries the fields every variant shares.
type candidateBase struct {
	Text    string
	ChunkID int
	Source  string
}

func (c candidateBase) Question() string { return c.Text }
func (c candidateBase) OriginChunk() int { return c.ChunkID }
func (c candidateBase) Origin() string   { return c.Source }

// MCQCandidate has exactly four options keyed A-D and a correct letter.
type MCQCandidate struct {
	candidateBase
	Options       map[string]string
	CorrectAnswer string
}

func (MCQCandidate) QuestionType() string { return "mcq" }

type ShortAnswerCandidate struct {
	candidateBase
	ExpectedAnswer string
}

func (ShortAnswerCandidate) QuestionType() string { return "short_answer" }

type ConceptualCandidate struct {
	candidateBase
	KeyPoints string
}

func (ConceptualCandidate) QuestionType() string { return "conceptual" }

// ScoredQuestion pairs a candidate with its heuristic quality score in [0,1].
type ScoredQuestion struct {
	Candidate    CandidateQuestion
	QualityScore float64
}

// FinalQuestion is one selected, numbered, point-assigned question ready to be
// persisted. Only MCQ questions carry Options/CorrectIndex.
type FinalQuestion struct {
	QuestionNumber int
	Type           string
	QuestionText   string
	Options        []string
	CorrectIndex   *int
	ExpectedAnswer string
	KeyPoints      string
	Marks          int
	Difficulty     string
	Explanation    string
}
