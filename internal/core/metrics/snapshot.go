package metrics

import "time"

// Goal thresholds. Both comparisons are strict.
const (
	ActivationGoal = 50.0
	NPSThreshold   = 40
)

// FeedbackBreakdown holds the raw rating counts.
type FeedbackBreakdown struct {
	Happy  int `json:"happy" yaml:"happy"`
	Normal int `json:"normal" yaml:"normal"`
	Sad    int `json:"sad" yaml:"sad"`
	Total  int `json:"total" yaml:"total"`
}

// Snapshot is the full set of derived product metrics for one point in time.
// Percentages carry one decimal, the viral coefficient two.
type Snapshot struct {
	UniqueVisits      int     `json:"unique_visits" yaml:"unique_visits"`
	ActivationRate    float64 `json:"activation_rate" yaml:"activation_rate"`
	ActivationGoalMet bool    `json:"activation_goal_met" yaml:"activation_goal_met"`
	QRScans           int     `json:"qr_scans" yaml:"qr_scans"`
	DAU               int     `json:"dau" yaml:"dau"`

	TotalPosts     int     `json:"total_posts" yaml:"total_posts"`
	TotalLikes     int     `json:"total_likes" yaml:"total_likes"`
	TotalShares    int     `json:"total_shares" yaml:"total_shares"`
	EngagementRate float64 `json:"engagement_rate" yaml:"engagement_rate"`

	AvgSessionMinutes float64 `json:"avg_session_minutes" yaml:"avg_session_minutes"`
	SessionCount      int     `json:"session_count" yaml:"session_count"`
	ChurnRate         float64 `json:"churn_rate" yaml:"churn_rate"`
	Day1Retention     float64 `json:"day1_retention" yaml:"day1_retention"`
	ViralCoefficient  float64 `json:"viral_coefficient" yaml:"viral_coefficient"`

	NPSScore        int               `json:"nps_score" yaml:"nps_score"`
	NPSThresholdMet bool              `json:"nps_threshold_met" yaml:"nps_threshold_met"`
	Feedback        FeedbackBreakdown `json:"feedback" yaml:"feedback"`

	// Bookkeeping about the working set.
	EventsConsidered int       `json:"events_considered" yaml:"events_considered"`
	EventsSkipped    int       `json:"events_skipped" yaml:"events_skipped"`
	ComputedAt       time.Time `json:"computed_at" yaml:"computed_at"`
}

// EmptySnapshot is the all-zero snapshot returned for empty inputs.
func EmptySnapshot(now time.Time) Snapshot {
	return Snapshot{ComputedAt: now}
}
