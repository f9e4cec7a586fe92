package domain

import (
	"regexp"
	"sort"
	"strings"

	sessiondomain "rehearse/internal/modules/session/domain"
)

// Metrics are caller-supplied signals about one spoken or typed answer.
// The analyzer never computes them; a transcription/scoring collaborator
// (or the external provider plugin) does.
type Metrics struct {
	Confidence float64 `json:"confidence"`
	Clarity    float64 `json:"clarity"`
	Structure  float64 `json:"structure"`
	Hesitation float64 `json:"hesitation"`
	PaceWPM    float64 `json:"pace_wpm"`
}

type Result struct {
	Score    float64
	Feedback []sessiondomain.Feedback
	Metrics  Metrics
}

const (
	minAnswerLen    = 50
	maxAnswerLen    = 500
	optimalLen      = 200
	metricThreshold = 0.5
	metricExcellent = 0.8
	maxHesitation   = 0.3
	minPaceWPM      = 100
	maxPaceWPM      = 200
	starSuccessFrac = 0.75
)

// STAR component keyword sets, matched case-insensitively as substrings.
var starComponents = [4][]string{
	{"situation", "context", "background", "when i", "at my"},
	{"task", "goal", "objective", "responsible", "needed to"},
	{"action", "i did", "i decided", "i implemented", "i led", "i built"},
	{"result", "outcome", "impact", "achieved", "learned", "delivered"},
}

var achievementPattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?\s*%|\b(increas|improv|reduc|sav|generat)\w*\b|\brevenue\b|\bprofit\b)`)

// Evaluate runs the full rule set over one answer and produces the feedback
// list and 0-100 score. Pure: same inputs, same output.
func Evaluate(text string, m Metrics) Result {
	var feedback []sessiondomain.Feedback
	strengths := 0

	success := func(message string) {
		feedback = append(feedback, sessiondomain.Feedback{
			Type: sessiondomain.FeedbackSuccess, Message: message, Severity: sessiondomain.SeverityPositive,
		})
		strengths++
	}
	warn := func(message, suggestion string, severity sessiondomain.Severity) {
		feedback = append(feedback, sessiondomain.Feedback{
			Type: sessiondomain.FeedbackWarning, Message: message, Severity: severity, Suggestion: suggestion,
		})
	}
	info := func(message, suggestion string) {
		feedback = append(feedback, sessiondomain.Feedback{
			Type: sessiondomain.FeedbackInfo, Message: message, Severity: sessiondomain.SeverityAdvisory, Suggestion: suggestion,
		})
	}

	length := len(text)
	switch {
	case length < minAnswerLen:
		warn("Answer too short", "Aim for at least a few full sentences", sessiondomain.SeverityCritical)
	case length > maxAnswerLen:
		warn("Answer too long", "Tighten the story to its core", sessiondomain.SeverityAdvisory)
	default:
		strengths++
	}

	checkMetric := func(name string, value float64) {
		switch {
		case value >= metricExcellent:
			success("Excellent " + name)
		case value < metricThreshold:
			severity := sessiondomain.SeverityAdvisory
			if value < 0.3 {
				severity = sessiondomain.SeverityCritical
			}
			warn("Low "+name, "Practice the same answer again, focusing on "+name, severity)
		}
	}
	checkMetric("confidence", m.Confidence)
	checkMetric("clarity", m.Clarity)
	checkMetric("structure", m.Structure)

	if m.Hesitation > maxHesitation {
		info("Frequent hesitation", "Pause silently instead of using filler words")
	}
	switch {
	case m.PaceWPM < minPaceWPM:
		info("Slow speaking pace", "Pick up the tempo a little")
	case m.PaceWPM > maxPaceWPM:
		warn("Fast speaking pace", "Slow down so every point lands", sessiondomain.SeverityAdvisory)
	default:
		strengths++
	}

	starFrac := starCompleteness(text)
	switch {
	case starFrac >= starSuccessFrac:
		success("Full STAR structure")
	case starFrac > 0:
		info("Partial STAR structure", "Cover situation, task, action and result")
	}

	if achievementPattern.MatchString(text) {
		success("Good use of metrics")
	}

	score := 50.0
	score += 10 * float64(strengths)
	for _, item := range feedback {
		switch item.Severity {
		case sessiondomain.SeverityCritical:
			score -= 10
		case sessiondomain.SeverityAdvisory:
			score -= 5
		}
	}
	score += lengthBonus(length)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Result{Score: score, Feedback: feedback, Metrics: m}
}

// starCompleteness is the fraction of the four STAR components whose keyword
// set matches the answer.
func starCompleteness(text string) float64 {
	lower := strings.ToLower(text)
	present := 0
	for _, keywords := range starComponents {
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				present++
				break
			}
		}
	}
	return float64(present) / 4
}

// lengthBonus rewards answers near the optimal length, fading linearly to
// zero at a full optimal-length distance away.
func lengthBonus(length int) float64 {
	distance := float64(length - optimalLen)
	if distance < 0 {
		distance = -distance
	}
	bonus := 20 * (1 - distance/float64(optimalLen))
	if bonus < 0 {
		return 0
	}
	return bonus
}

// TopBySeverity returns up to n feedback items ordered by descending
// severity, preserving rule order within a severity class.
func TopBySeverity(feedback []sessiondomain.Feedback, n int) []sessiondomain.Feedback {
	ordered := make([]sessiondomain.Feedback, len(feedback))
	copy(ordered, feedback)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Severity > ordered[j].Severity })
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}
