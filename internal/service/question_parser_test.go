package service

import "testing"

const wellFormedReply = `MCQ:
Q1: What does a router use to choose the next hop for a packet?
A) The packet's payload checksum
B) Its routing table
C) The sender's hostname
D) A random interface
CORRECT: B
Q2: Which layer of the OSI model does IP operate at?
A) Physical
B) Data link
C) Network
D) Transport
CORRECT: C
Q3: What is the purpose of a subnet mask?
A) To encrypt traffic between hosts
B) To separate the network and host portions of an address
C) To assign MAC addresses dynamically
D) To compress packet headers
CORRECT: B

SHORT:
Q1: Explain what happens when a router receives a packet with TTL of one.
ANSWER: The router decrements the TTL to zero, drops the packet and sends an ICMP time exceeded message back to the source.
Q2: Why do networks use private address ranges?
ANSWER: Private ranges conserve public address space and are translated at the edge by NAT.

CONCEPTUAL:
Q1: Discuss the trade-offs between distance-vector and link-state routing protocols.
KEY_POINTS: Convergence speed, bandwidth overhead of flooding versus periodic updates, memory requirements, loop avoidance mechanisms.
`

func TestParseCandidatesWellFormedReply(t *testing.T) {
	var p questionParser
	got := p.ParseCandidates(wellFormedReply, 7, "Networking Notes")

	counts := map[string]int{}
	for _, c := range got {
		counts[c.QuestionType()]++
		if c.OriginChunk() != 7 {
			t.Fatalf("origin chunk: want=7 got=%d", c.OriginChunk())
		}
		if c.Origin() != "Networking Notes" {
			t.Fatalf("origin: want=%q got=%q", "Networking Notes", c.Origin())
		}
	}
	if counts["mcq"] != 3 || counts["short_answer"] != 2 || counts["conceptual"] != 1 {
		t.Fatalf("candidate counts: want=3/2/1 got=%d/%d/%d",
			counts["mcq"], counts["short_answer"], counts["conceptual"])
	}
}

func TestParseCandidatesMCQFields(t *testing.T) {
	var p questionParser
	got := p.ParseCandidates(wellFormedReply, 1, "src")

	var first *MCQCandidate
	for _, c := range got {
		if mcq, ok := c.(MCQCandidate); ok {
			first = &mcq
			break
		}
	}
	if first == nil {
		t.Fatalf("no MCQ candidate parsed")
	}
	if first.Question() != "What does a router use to choose the next hop for a packet?" {
		t.Fatalf("question text: got %q", first.Question())
	}
	if first.CorrectAnswer != "B" {
		t.Fatalf("correct answer: want=B got=%q", first.CorrectAnswer)
	}
	if first.Options["B"] != "Its routing table" {
		t.Fatalf("option B: got %q", first.Options["B"])
	}
}

func TestParseCandidatesDropsMalformedMCQ(t *testing.T) {
	raw := `MCQ:
Q1: This one only has three options.
A) First
B) Second
C) Third
CORRECT: A
Q2: This one is missing its correct answer.
A) First
B) Second
C) Third
D) Fourth
Q3: This one is complete and should survive.
A) First option text
B) Second option text
C) Third option text
D) Fourth option text
CORRECT: D
`
	var p questionParser
	got := p.ParseCandidates(raw, 1, "src")
	if len(got) != 1 {
		t.Fatalf("candidates: want=1 got=%d", len(got))
	}
	if got[0].Question() != "This one is complete and should survive." {
		t.Fatalf("wrong survivor: %q", got[0].Question())
	}
}

func TestParseCandidatesDropsShortWithoutAnswer(t *testing.T) {
	raw := `SHORT:
Q1: A question with no expected answer line.
Q2: A question with a proper answer.
ANSWER: The proper answer text.
`
	var p questionParser
	got := p.ParseCandidates(raw, 1, "src")
	if len(got) != 1 {
		t.Fatalf("candidates: want=1 got=%d", len(got))
	}
	sa, ok := got[0].(ShortAnswerCandidate)
	if !ok {
		t.Fatalf("want ShortAnswerCandidate, got %T", got[0])
	}
	if sa.ExpectedAnswer != "The proper answer text." {
		t.Fatalf("expected answer: got %q", sa.ExpectedAnswer)
	}
}

func TestParseCandidatesAcceptsFormatDrift(t *testing.T) {
	// Models drift on label casing and spacing; the parser tolerates it.
	raw := `MCQ:
Q1. Which value is returned on overflow?
A) Zero
B) The maximum representable value
C) An implementation defined value
D) A trap representation
correct answer: C

CONCEPTUAL:
Q1: Compare the two approaches.
Key Points: Cost, latency, operational complexity.
`
	var p questionParser
	got := p.ParseCandidates(raw, 1, "src")
	if len(got) != 2 {
		t.Fatalf("candidates: want=2 got=%d", len(got))
	}
	for _, c := range got {
		switch q := c.(type) {
		case MCQCandidate:
			if q.CorrectAnswer != "C" {
				t.Fatalf("correct answer: want=C got=%q", q.CorrectAnswer)
			}
		case ConceptualCandidate:
			if q.KeyPoints != "Cost, latency, operational complexity." {
				t.Fatalf("key points: got %q", q.KeyPoints)
			}
		}
	}
}

func TestParseCandidatesEmptyReply(t *testing.T) {
	var p questionParser
	if got := p.ParseCandidates("no sections here at all", 1, "src"); len(got) != 0 {
		t.Fatalf("want 0 candidates, got %d", len(got))
	}
}
