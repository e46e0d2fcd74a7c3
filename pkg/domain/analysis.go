package domain

import "time"

// AnalysisRecord is one historical image-analysis outcome. Records are
// immutable once received; ordering is server-assigned, most recent first.
type AnalysisRecord struct {
	ID         int64   `json:"id,omitempty"`
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"` // 0..1
	Date       string  `json:"date"`
}

// When returns the parsed record timestamp, if parseable.
func (r AnalysisRecord) When() (time.Time, bool) {
	return ParseServerTime(r.Date)
}

// Prediction is the outcome of a single analysis request. It exists only to
// render the result panel and is never sent back to the server.
type Prediction struct {
	Condition  string  `json:"prediction"`
	Confidence float64 `json:"confidence"` // 0..1
}

// Certainty buckets a confidence score into a qualitative label.
func (p Prediction) Certainty() string {
	switch {
	case p.Confidence > 0.9:
		return "High"
	case p.Confidence > 0.75:
		return "Medium"
	default:
		return "Low"
	}
}

// DashboardStats are the aggregate figures from the dashboard endpoint.
// AvgConfidence is a 0-100 percentage, unlike record confidences.
type DashboardStats struct {
	TotalAnalyses int     `json:"totalAnalyses"`
	AvgConfidence float64 `json:"avgConfidence"`
}
