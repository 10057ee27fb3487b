package compare

// Score is one reference document's similarity to the unknown document.
type Score struct {
	Label      string  `json:"label"`
	Similarity float64 `json:"similarity"`
}

// Result holds the scores of every reference, in comparison order.
type Result struct {
	Unknown string  `json:"unknown"`
	Scores  []Score `json:"scores"`
}

// Best returns the reference most similar to the unknown document. Ties go to
// the earlier reference. ok is false when there are no scores.
func (r *Result) Best() (best Score, ok bool) {
	for i, s := range r.Scores {
		if i == 0 || s.Similarity > best.Similarity {
			best = s
		}
	}
	return best, len(r.Scores) > 0
}
