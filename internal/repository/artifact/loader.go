package artifact

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"sofida/business/discount"
)

// Artifacts is the loaded persisted-model triple: the regressor itself plus
// the feature schema and category vocabulary captured at training time.
type Artifacts struct {
	Model               *GBDTRegressor
	FeatureCols         []string
	CategoricalFeatures []string
	Vocabulary          discount.CategoryVocabulary
}

func ModelPath(prefix string) string { return prefix + ".model.json" }
func MetaPath(prefix string) string  { return prefix + ".meta.json" }

type modelFile struct {
	Objective string     `json:"objective"`
	BaseScore float64    `json:"base_score"`
	Trees     []gbdtTree `json:"trees"`
}

type metaFile struct {
	FeatureCols         []string         `json:"feature_cols"`
	CategoricalFeatures []string         `json:"categorical_features"`
	Categories          map[string][]any `json:"categories"`
}

// LoadArtifacts reads both artifact files for a prefix. Absence or malformed
// content fails explicitly with an error naming the expected paths; it never
// silently degrades.
func LoadArtifacts(prefix string) (*Artifacts, error) {
	modelPath := ModelPath(prefix)
	metaPath := MetaPath(prefix)

	if !fileExists(modelPath) || !fileExists(metaPath) {
		return nil, fmt.Errorf(
			"missing artifacts for prefix %q: expected %s and %s, train and save artifacts first",
			prefix, modelPath, metaPath,
		)
	}

	modelRaw, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model file %s: %w", modelPath, err)
	}
	var mf modelFile
	if err := json.Unmarshal(modelRaw, &mf); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", modelPath, err)
	}
	if len(mf.Trees) == 0 {
		return nil, fmt.Errorf("model file %s contains no trees", modelPath)
	}

	metaRaw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata file %s: %w", metaPath, err)
	}
	var meta metaFile
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata file %s: %w", metaPath, err)
	}
	if len(meta.FeatureCols) == 0 {
		return nil, fmt.Errorf("metadata file %s declares no feature columns", metaPath)
	}

	vocab := make(discount.CategoryVocabulary, len(meta.Categories))
	for col, raw := range meta.Categories {
		cats := make([]string, 0, len(raw))
		for _, v := range raw {
			// null entries are the stored missing/unknown marker; unknown
			// values are represented as nil row values, not a category string.
			if v == nil {
				continue
			}
			cats = append(cats, canonicalCategory(v))
		}
		vocab[col] = cats
	}

	model := &GBDTRegressor{
		BaseScore:    mf.BaseScore,
		Trees:        mf.Trees,
		requiredCols: meta.FeatureCols,
	}

	return &Artifacts{
		Model:               model,
		FeatureCols:         meta.FeatureCols,
		CategoricalFeatures: meta.CategoricalFeatures,
		Vocabulary:          vocab,
	}, nil
}

// canonicalCategory renders a stored category value the same way the feature
// row builder does, so integer-valued categories (place_id, item_id) match.
func canonicalCategory(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
