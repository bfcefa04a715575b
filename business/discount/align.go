package discount

// CategoryVocabulary is the fixed set of categorical values the trained model
// saw at training time, per column. It is captured once when the artifact is
// saved and threaded everywhere as an explicit parameter, never re-derived.
type CategoryVocabulary map[string][]string

// Contains reports whether val is a known training-time category for col.
func (v CategoryVocabulary) Contains(col, val string) bool {
	for _, c := range v[col] {
		if c == val {
			return true
		}
	}
	return false
}

// AlignCategories conforms every vocabulary column of every row to the
// training-time category set. Values outside the vocabulary become nil, the
// explicit missing/unknown marker; they are never an error. Skipping this step
// is the single most dangerous failure mode: an unseen category string would
// silently corrupt the model's categorical encoding.
func AlignCategories(rows []FeatureRow, vocab CategoryVocabulary) {
	for _, row := range rows {
		for col := range vocab {
			raw, ok := row[col]
			if !ok {
				continue
			}
			s, isStr := raw.(string)
			if !isStr || !vocab.Contains(col, s) {
				row[col] = nil
			}
		}
	}
}
