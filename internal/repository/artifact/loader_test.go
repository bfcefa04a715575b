package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModelJSON = `{
  "objective": "regression_log1p",
  "base_score": 0.25,
  "trees": [
    {"nodes": [
      {"feature": "discount_pct_final", "threshold": 0.2, "left": 1, "right": 2, "default_left": true},
      {"leaf": true, "value": 0.1},
      {"leaf": true, "value": 0.4}
    ]}
  ]
}`

const testMetaJSON = `{
  "feature_cols": ["discount_pct_final", "daypart", "place_id"],
  "categorical_features": ["daypart", "place_id"],
  "categories": {
    "daypart": ["morning", "afternoon", null],
    "place_id": [59897, 60001]
  }
}`

func writeArtifacts(t *testing.T, model, meta string) string {
	t.Helper()
	prefix := filepath.Join(t.TempDir(), "discount_gbm")
	require.NoError(t, os.WriteFile(ModelPath(prefix), []byte(model), 0o644))
	require.NoError(t, os.WriteFile(MetaPath(prefix), []byte(meta), 0o644))
	return prefix
}

func TestLoadArtifacts(t *testing.T) {
	prefix := writeArtifacts(t, testModelJSON, testMetaJSON)

	arts, err := LoadArtifacts(prefix)
	require.NoError(t, err)

	assert.Equal(t, 0.25, arts.Model.BaseScore)
	require.Len(t, arts.Model.Trees, 1)
	assert.Equal(t, []string{"discount_pct_final", "daypart", "place_id"}, arts.FeatureCols)
	assert.Equal(t, []string{"daypart", "place_id"}, arts.CategoricalFeatures)

	// null vocabulary entries are the stored unknown marker and are skipped
	assert.Equal(t, []string{"morning", "afternoon"}, arts.Vocabulary["daypart"])
	// integer-valued categories canonicalize the same way the row builder does
	assert.Equal(t, []string{"59897", "60001"}, arts.Vocabulary["place_id"])
}

func TestLoadArtifactsMissingFilesNamesBothPaths(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "nope")

	_, err := LoadArtifacts(prefix)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ModelPath(prefix))
	assert.Contains(t, err.Error(), MetaPath(prefix))
}

func TestLoadArtifactsRejectsEmptyModel(t *testing.T) {
	prefix := writeArtifacts(t, `{"trees": []}`, testMetaJSON)

	_, err := LoadArtifacts(prefix)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trees")
}

func TestLoadArtifactsRejectsEmptySchema(t *testing.T) {
	prefix := writeArtifacts(t, testModelJSON, `{"feature_cols": []}`)

	_, err := LoadArtifacts(prefix)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature columns")
}

func TestLoadArtifactsRejectsMalformedJSON(t *testing.T) {
	prefix := writeArtifacts(t, `{not json`, testMetaJSON)

	_, err := LoadArtifacts(prefix)
	require.Error(t, err)
}

func TestCanonicalCategory(t *testing.T) {
	assert.Equal(t, "morning", canonicalCategory("morning"))
	assert.Equal(t, "59897", canonicalCategory(59897.0))
	assert.Equal(t, "0.5", canonicalCategory(0.5))
	assert.Equal(t, "true", canonicalCategory(true))
}
