// Package types contains common types used across the application
package types

// Recommendation is one ranked role in a response.
type Recommendation struct {
	Rank int    `json:"rank"`
	Role string `json:"role"`
}

// Explanation is a ranked role with the signals that placed it.
type Explanation struct {
	Rank       int     `json:"rank"`
	Role       string  `json:"role"`
	Content    float64 `json:"content"`
	Popularity float64 `json:"popularity"`
	Score      float64 `json:"score"`
}

// Rank numbers roles from 1 in the given order.
func Rank(roles []string) []Recommendation {
	out := make([]Recommendation, len(roles))
	for i, r := range roles {
		out[i] = Recommendation{Rank: i + 1, Role: r}
	}
	return out
}
