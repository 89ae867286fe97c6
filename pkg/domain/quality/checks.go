package quality

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// NeutralScore is the degraded score recorded when an optional external
// check provider is unavailable. The assessment continues; a suggestion
// notes the gap.
const NeutralScore = 70.0

// Artifact is the immutable snapshot of deliverable content a check sees.
type Artifact struct {
	FileName string
	FileType string
	Content  string
}

// CheckProvider is the optional pluggable rules/compliance engine behind
// static_analysis and content_analysis check types. When absent or failing,
// those checks degrade to NeutralScore rather than failing the assessment.
type CheckProvider interface {
	// ValidateArtifact scores lexical/structural properties (0-100).
	ValidateArtifact(ctx context.Context, artifact Artifact, check CheckConfig) (float64, error)
	// ValidateContent scores textual completeness/clarity (0-100).
	ValidateContent(ctx context.Context, artifact Artifact, check CheckConfig) (float64, error)
}

// checkOutcome is the result of running a single check.
type checkOutcome struct {
	Score    float64
	Degraded bool
}

// runCheck evaluates one check against an artifact. Built-in heuristics are
// deterministic; provider-backed checks degrade to neutral on any provider
// error, never propagating it.
func runCheck(ctx context.Context, provider CheckProvider, artifact Artifact, check CheckConfig) checkOutcome {
	switch check.Type {
	case CheckStaticAnalysis:
		if provider == nil {
			return checkOutcome{Score: NeutralScore, Degraded: true}
		}
		score, err := provider.ValidateArtifact(ctx, artifact, check)
		if err != nil {
			return checkOutcome{Score: NeutralScore, Degraded: true}
		}
		return checkOutcome{Score: clampScore(score)}

	case CheckContentAnalysis:
		if provider == nil {
			return checkOutcome{Score: NeutralScore, Degraded: true}
		}
		score, err := provider.ValidateContent(ctx, artifact, check)
		if err != nil {
			return checkOutcome{Score: NeutralScore, Degraded: true}
		}
		return checkOutcome{Score: clampScore(score)}

	case CheckFormatCompliance, CheckHeuristic:
		return checkOutcome{Score: clampScore(builtinCheck(artifact, check))}

	default:
		// Unknown check types score neutral so a typo in an override does
		// not sink the whole dimension.
		return checkOutcome{Score: NeutralScore, Degraded: true}
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// builtinCheck dispatches by check name to a deterministic text heuristic.
func builtinCheck(artifact Artifact, check CheckConfig) float64 {
	content := artifact.Content
	lines := strings.Split(content, "\n")

	switch check.Name {
	case "non-empty":
		return scoreNonEmpty(content, check)
	case "todo-markers":
		return scoreTodoMarkers(content)
	case "line-length":
		return scoreLineLength(lines, check)
	case "whitespace-hygiene":
		return scoreWhitespace(lines)
	case "indentation":
		return scoreIndentation(lines)
	case "line-endings":
		return scoreLineEndings(content)
	case "heading-structure":
		return scoreHeadings(lines)
	case "parseable":
		return scoreParseable(artifact)
	case "sentence-length":
		return scoreSentenceLength(content)
	case "identifier-length", "key-naming", "terminology":
		return scoreWordShape(content)
	case "comment-density":
		return scoreCommentDensity(lines)
	case "test-naming":
		return scoreTestNaming(content)
	case "assertion-presence":
		return scoreAssertions(content)
	default:
		// Unnamed built-in checks fall back to the emptiness heuristic.
		return scoreNonEmpty(content, check)
	}
}

func scoreNonEmpty(content string, check CheckConfig) float64 {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}
	minLength := 50
	if v, ok := check.Config["min_length"].(float64); ok && v > 0 {
		minLength = int(v)
	}
	if len(trimmed) >= minLength {
		return 100
	}
	return float64(len(trimmed)) / float64(minLength) * 100
}

func scoreTodoMarkers(content string) float64 {
	upper := strings.ToUpper(content)
	count := strings.Count(upper, "TODO") + strings.Count(upper, "FIXME") + strings.Count(upper, "XXX")
	score := 100.0 - float64(count)*15
	if score < 20 {
		return 20
	}
	return score
}

func scoreLineLength(lines []string, check CheckConfig) float64 {
	if len(lines) == 0 {
		return 0
	}
	maxLen := 120
	if v, ok := check.Config["max_length"].(float64); ok && v > 0 {
		maxLen = int(v)
	}
	ok := 0
	for _, l := range lines {
		if len(l) <= maxLen {
			ok++
		}
	}
	return float64(ok) / float64(len(lines)) * 100
}

func scoreWhitespace(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}
	clean := 0
	for _, l := range lines {
		if l == strings.TrimRight(l, " \t") {
			clean++
		}
	}
	return float64(clean) / float64(len(lines)) * 100
}

func scoreIndentation(lines []string) float64 {
	tabs, spaces := 0, 0
	for _, l := range lines {
		if strings.HasPrefix(l, "\t") {
			tabs++
		} else if strings.HasPrefix(l, " ") {
			spaces++
		}
	}
	indented := tabs + spaces
	if indented == 0 {
		return 100
	}
	dominant := tabs
	if spaces > tabs {
		dominant = spaces
	}
	return float64(dominant) / float64(indented) * 100
}

func scoreLineEndings(content string) float64 {
	crlf := strings.Count(content, "\r\n")
	lf := strings.Count(content, "\n") - crlf
	if crlf == 0 || lf == 0 {
		return 100
	}
	total := crlf + lf
	dominant := crlf
	if lf > crlf {
		dominant = lf
	}
	return float64(dominant) / float64(total) * 100
}

func scoreHeadings(lines []string) float64 {
	headings := 0
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			headings++
		}
	}
	switch {
	case headings >= 3:
		return 100
	case headings == 2:
		return 85
	case headings == 1:
		return 70
	default:
		return 40
	}
}

func scoreParseable(artifact Artifact) float64 {
	ft := strings.ToLower(artifact.FileType)
	content := []byte(artifact.Content)
	if strings.TrimSpace(artifact.Content) == "" {
		return 0
	}
	if strings.HasSuffix(ft, ".json") {
		var v interface{}
		if json.Unmarshal(content, &v) == nil {
			return 100
		}
		return 10
	}
	var v interface{}
	if yaml.Unmarshal(content, &v) == nil {
		return 100
	}
	return 10
}

func scoreSentenceLength(content string) float64 {
	sentences := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	if len(sentences) == 0 {
		return 40
	}
	totalWords := 0
	counted := 0
	for _, s := range sentences {
		words := len(strings.Fields(s))
		if words == 0 {
			continue
		}
		totalWords += words
		counted++
	}
	if counted == 0 {
		return 40
	}
	avg := float64(totalWords) / float64(counted)
	if avg <= 25 {
		return 100
	}
	score := 100 - (avg-25)*3
	if score < 30 {
		return 30
	}
	return score
}

func scoreWordShape(content string) float64 {
	words := strings.FieldsFunc(content, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if len(words) == 0 {
		return 0
	}
	reasonable := 0
	for _, w := range words {
		if len(w) >= 2 && len(w) <= 40 {
			reasonable++
		}
	}
	return float64(reasonable) / float64(len(words)) * 100
}

func scoreCommentDensity(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}
	comments := 0
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "//") || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "*") {
			comments++
		}
	}
	ratio := float64(comments) / float64(len(lines))
	// A sliver of commentary is healthy; both zero and wall-to-wall comments
	// score lower.
	switch {
	case ratio >= 0.05 && ratio <= 0.4:
		return 100
	case ratio > 0.4:
		return 70
	case ratio > 0:
		return 80
	default:
		return 55
	}
}

func scoreTestNaming(content string) float64 {
	lower := strings.ToLower(content)
	markers := 0
	for _, m := range []string{"test", "should", "expect", "describe", "it("} {
		if strings.Contains(lower, m) {
			markers++
		}
	}
	return float64(markers) / 5.0 * 100
}

func scoreAssertions(content string) float64 {
	lower := strings.ToLower(content)
	count := 0
	for _, m := range []string{"assert", "expect", "require", "t.error", "t.fatal"} {
		count += strings.Count(lower, m)
	}
	switch {
	case count >= 5:
		return 100
	case count > 0:
		return 60 + float64(count)*8
	default:
		return 20
	}
}
