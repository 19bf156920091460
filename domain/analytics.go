package domain

// CategoryShare is one entry of the dashboard category breakdown.
type CategoryShare struct {
	Category string  `json:"category"`
	Count    float64 `json:"count"`
	Percent  float64 `json:"percent"`
}

// KeywordRelevance is one entry of the dashboard keyword ranking.
type KeywordRelevance struct {
	Keyword   string  `json:"keyword"`
	Relevance float64 `json:"relevance"`
}

type BrandShare struct {
	Brand   string  `json:"brand"`
	Count   float64 `json:"count"`
	Percent float64 `json:"percent"`
}

// DayCount is one calendar day of the activity timeline.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// AlgorithmCTR is the click-through breakdown for one algorithm kind.
// Rate is 0 (never undefined) when Shown is 0.
type AlgorithmCTR struct {
	Shown   int     `json:"shown"`
	Clicked int     `json:"clicked"`
	Rate    float64 `json:"rate"`
}

type CTRSummary struct {
	Overall      AlgorithmCTR               `json:"overall"`
	ByAlgorithm  map[Algorithm]AlgorithmCTR `json:"by_algorithm"`
}

// DashboardSummary is the aggregate view served by the analytics reporter.
type DashboardSummary struct {
	WindowDays      int                  `json:"window_days"`
	ActivityCounts  map[ActivityKind]int `json:"activity_counts"`
	TotalActivities int                  `json:"total_activities"`
	TopCategories   []CategoryShare      `json:"top_categories"`
	TopKeywords     []KeywordRelevance   `json:"top_keywords"`
	Brands          []BrandShare         `json:"brands"`
	Timeline        []DayCount           `json:"timeline"`
	PriceRange      *PriceRange          `json:"price_range,omitempty"`
	EngagementScore float64              `json:"engagement_score"`
	Recommendations CTRSummary           `json:"recommendations"`
}
