package quality

// IssueType names the defect categories the quality engine detects
type IssueType string

const (
	IssueMissing      IssueType = "missing"
	IssueOutlier      IssueType = "outlier"
	IssueDuplicate    IssueType = "duplicate"
	IssueMixedType    IssueType = "mixed_type"
	IssueInconsistent IssueType = "inconsistent"
)

// Severity ranks issues for presentation, critical first
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the sort rank (critical=0 … low=3)
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Issue is one detected defect. Column is empty for dataset-level issues
// (duplicates). Issues are generated fresh each pass and never mutated.
type Issue struct {
	Type         IssueType `json:"type"`
	Column       string    `json:"column,omitempty"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	Details      string    `json:"details,omitempty"`
	Suggestion   string    `json:"suggestion,omitempty"`
	AffectedRows int       `json:"affected_rows"`
	Percentage   float64   `json:"percentage"`
}

// Summary counts issues per severity
type Summary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total returns the issue count across all severities
func (s Summary) Total() int { return s.Critical + s.High + s.Medium + s.Low }

// Report is the full quality assessment of one dataset
type Report struct {
	OverallScore int            `json:"overall_score"` // 0-100
	Issues       []Issue        `json:"issues"`        // ordered critical → low
	Summary      Summary        `json:"summary"`
	ColumnHealth map[string]int `json:"column_health"` // column name → 0-100
}
