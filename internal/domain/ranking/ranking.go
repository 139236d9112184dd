// Package ranking derives rating-engine rank arrays from raw match scores.
package ranking

// FromScores converts raw integer scores into rank positions, parallel to
// the input. Rank 0 is best. When golfStyle is true a lower score wins,
// otherwise a higher score wins. Equal scores share a rank, so the output
// can legally contain ties for the rating engine to resolve.
//
// Ranks follow competition numbering: each entry's rank is the count of
// strictly better scores, so [10, 10, 5] (golf) yields [1, 1, 0].
func FromScores(points []int, golfStyle bool) []int {
	ranks := make([]int, len(points))
	for i, p := range points {
		for _, q := range points {
			if better(q, p, golfStyle) {
				ranks[i]++
			}
		}
	}
	return ranks
}

func better(a, b int, golfStyle bool) bool {
	if golfStyle {
		return a < b
	}
	return a > b
}
