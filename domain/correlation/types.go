package correlation

// Strength buckets |r| into coarse classes for presentation
type Strength string

const (
	StrengthNone       Strength = "none"        // |r| < 0.1
	StrengthWeak       Strength = "weak"        // [0.1, 0.3)
	StrengthModerate   Strength = "moderate"    // [0.3, 0.5)
	StrengthStrong     Strength = "strong"      // [0.5, 0.7)
	StrengthVeryStrong Strength = "very_strong" // >= 0.7
)

// ClassifyStrength buckets an absolute correlation coefficient
func ClassifyStrength(abs float64) Strength {
	switch {
	case abs >= 0.7:
		return StrengthVeryStrong
	case abs >= 0.5:
		return StrengthStrong
	case abs >= 0.3:
		return StrengthModerate
	case abs >= 0.1:
		return StrengthWeak
	default:
		return StrengthNone
	}
}

// Pair is the Pearson correlation between an unordered pair of numeric
// columns. Coefficients are rounded to 3 decimals.
//
// RowAligned is always false today: each column is filtered to its valid
// numeric values independently and the two sequences are zipped up to the
// shorter length, which is not a row-aligned correlation when the columns
// have different null patterns. The flag exists so a row-aligned mode can
// coexist later without changing the shape of the result.
type Pair struct {
	ColumnA     string   `json:"column_a"`
	ColumnB     string   `json:"column_b"`
	Correlation float64  `json:"correlation"`
	Strength    Strength `json:"strength"`
	SampleSize  int      `json:"sample_size"`
	RowAligned  bool     `json:"row_aligned"`
}
