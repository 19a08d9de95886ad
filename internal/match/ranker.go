package match

import "sort"

// Grade is the display bucket for an externally computed match score.
// One threshold set (70/50/30) drives both the label and the color.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradeLow       Grade = "low"
)

func GradeScore(score float64) Grade {
	switch {
	case score >= 70:
		return GradeExcellent
	case score >= 50:
		return GradeGood
	case score >= 30:
		return GradeFair
	default:
		return GradeLow
	}
}

func (g Grade) Color() string {
	switch g {
	case GradeExcellent:
		return "#4caf50"
	case GradeGood, GradeFair:
		return "#ff9800"
	default:
		return "#f44336"
	}
}

func (g Grade) Label() string {
	switch g {
	case GradeExcellent:
		return "Excellent match"
	case GradeGood:
		return "Good match"
	case GradeFair:
		return "Fair match"
	default:
		return "Low match"
	}
}

// SortSuggestions orders suggestions by score, best first. The sort is
// stable so equally scored candidates keep the collaborator's order.
func SortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].MatchScore > s[j].MatchScore
	})
}
