package domain

import "time"

const SchemaVersion = 1

// StoreKey is the fixed name the whole session collection is persisted under.
const StoreKey = "rehearse.sessions"

// ReadinessKey is the fixed name the cross-session readiness scalar lives under.
const ReadinessKey = "rehearse.readiness"

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

// CanTransition reports whether a session may move from one status to
// another. Completed is terminal; in-progress and paused may swap freely.
func CanTransition(from, to Status) bool {
	if from == StatusCompleted {
		return false
	}
	switch to {
	case StatusInProgress, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

type FeedbackType string

const (
	FeedbackSuccess FeedbackType = "success"
	FeedbackWarning FeedbackType = "warning"
	FeedbackError   FeedbackType = "error"
	FeedbackInfo    FeedbackType = "info"
)

type Severity int

const (
	SeverityPositive Severity = 0
	SeverityAdvisory Severity = 1
	SeverityCritical Severity = 2
)

// Feedback is one scoring observation, both a transient HUD unit and a
// persisted annotation on an answer.
type Feedback struct {
	Type       FeedbackType `json:"type"`
	Message    string       `json:"message"`
	Severity   Severity     `json:"severity"`
	Suggestion string       `json:"suggestion,omitempty"`
}

type Question struct {
	Text    string    `json:"text"`
	Index   int       `json:"index"`
	AskedAt time.Time `json:"asked_at"`
}

type Answer struct {
	Text       string     `json:"text"`
	AnsweredAt time.Time  `json:"answered_at"`
	Confidence float64    `json:"confidence"`
	Clarity    float64    `json:"clarity"`
	Structure  float64    `json:"structure"`
	Quality    float64    `json:"quality"`
	Feedback   []Feedback `json:"feedback,omitempty"`
}

// Quality is the mean of the three caller-supplied metric scores.
func Quality(confidence, clarity, structure float64) float64 {
	return (confidence + clarity + structure) / 3
}

type Session struct {
	ID              string        `json:"id"`
	CreatedAt       time.Time     `json:"created_at"`
	Company         string        `json:"company"`
	Difficulty      string        `json:"difficulty"`
	Mode            string        `json:"mode"`
	Status          Status        `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	EndedAt         time.Time     `json:"ended_at,omitempty"`
	Duration        time.Duration `json:"duration"`
	Questions       []Question    `json:"questions"`
	Answers         []Answer      `json:"answers"`
	Score           float64       `json:"score"`
	ReadinessGain   float64       `json:"readiness_gain"`
	TargetReadiness float64       `json:"target_readiness"`
}

// ReadinessGain caps the per-session contribution so one strong run cannot
// saturate the gauge.
func ReadinessGain(score float64) float64 {
	gain := score * 0.5
	if gain > 25 {
		gain = 25
	}
	return gain
}

// ClampReadiness keeps the process-wide readiness scalar inside [0,100].
func ClampReadiness(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Stats is always derived from the completed session set, never stored.
type Stats struct {
	TotalInterviews  int
	AverageScore     float64
	BestScore        float64
	TotalDuration    time.Duration
	Companies        []string
	ReadinessGainSum float64
	RecentTrend      []float64
}

// TimelineEntry is one completed session in chronological order.
type TimelineEntry struct {
	SessionID string
	Company   string
	EndedAt   time.Time
	Duration  time.Duration
	Score     float64
}
