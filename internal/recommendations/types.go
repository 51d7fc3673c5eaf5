package recommendations

// Priority ranks how urgently a recommendation should be handled.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// TimeFrame is the horizon in which a recommendation should be delivered.
type TimeFrame string

const (
	TimeFrameImmediate TimeFrame = "immediate"
	TimeFrameShortTerm TimeFrame = "short_term"
	TimeFrameLongTerm  TimeFrame = "long_term"
)

// Difficulty classifies implementation effort as reported by the service.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyComplex  Difficulty = "complex"
)

// Recommendation is one remediation item produced for an audit.
type Recommendation struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Priority       Priority       `json:"priority"`
	TimeFrame      TimeFrame      `json:"timeFrame"`
	Impact         Impact         `json:"impact"`
	Implementation Implementation `json:"implementation"`
	DataQuality    DataQuality    `json:"dataQuality"`
	Alternatives   []Alternative  `json:"alternatives,omitempty"`
	Progress       float64        `json:"progress"`
	Fallback       bool           `json:"fallback,omitempty"`
	ClientContext  *ClientContext `json:"clientContext,omitempty"`
	Metrics        *Metrics       `json:"metrics,omitempty"`
}

// Impact holds the three impact percentages and their justifications.
type Impact struct {
	EnergyEfficiency float64       `json:"energyEfficiency"`
	Performance      float64       `json:"performance"`
	Compliance       float64       `json:"compliance"`
	Details          ImpactDetails `json:"details"`
}

type ImpactDetails struct {
	EnergyEfficiency string `json:"energyEfficiency"`
	Performance      string `json:"performance"`
	Compliance       string `json:"compliance"`
}

type Implementation struct {
	Difficulty    Difficulty `json:"difficulty"`
	EstimatedCost string     `json:"estimatedCost"`
	Timeframe     string     `json:"timeframe"`
	Prerequisites []string   `json:"prerequisites"`
}

type DataQuality struct {
	Completeness float64 `json:"completeness"`
	Confidence   float64 `json:"confidence,omitempty"`
	Source       string  `json:"source,omitempty"`
}

// Alternative is a competing option attached to a single recommendation.
type Alternative struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	EstimatedCost string   `json:"estimatedCost,omitempty"`
	Pros          []string `json:"pros,omitempty"`
	Cons          []string `json:"cons,omitempty"`
}

// ClientContext is appended by the enricher.
type ClientContext struct {
	IndustryBenchmark string `json:"industryBenchmark"`
	RegulatoryImpact  string `json:"regulatoryImpact"`
	CostEstimate      string `json:"costEstimate"`
}

// Metrics is appended by the enricher.
type Metrics struct {
	ROI                      float64 `json:"roi"`
	ImplementationComplexity string  `json:"implementationComplexity"`
	RiskLevel                string  `json:"riskLevel"`
}

// Analysis is the free-form assessment returned next to the recommendations.
type Analysis struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
	GlobalRisk string   `json:"globalRisk,omitempty"`
}

// AnalysisContext echoes what the service assumed about the client.
type AnalysisContext struct {
	Industry    string   `json:"industry,omitempty"`
	Regulations []string `json:"regulations,omitempty"`
	Assumptions []string `json:"assumptions,omitempty"`
}

// GenerationResult is the outcome of one generation pipeline run.
type GenerationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Analysis        Analysis         `json:"analysis"`
	Context         AnalysisContext  `json:"context"`
	Partial         bool             `json:"partial"`
	Dropped         int              `json:"dropped"`
	Warnings        []string         `json:"warnings,omitempty"`
	Fallback        bool             `json:"fallback"`
	Attempts        int              `json:"-"`
}
