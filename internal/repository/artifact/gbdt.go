package artifact

import (
	"fmt"

	"sofida/business/discount"
)

// gbdtNode is one node of a regression tree. Interior nodes carry either a
// numeric split (threshold) or a categorical split (categories that route
// left); missing/unknown values follow the default branch learned at training
// time.
type gbdtNode struct {
	Leaf  bool    `json:"leaf,omitempty"`
	Value float64 `json:"value,omitempty"`

	Feature     string   `json:"feature,omitempty"`
	Threshold   float64  `json:"threshold,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Left        int      `json:"left,omitempty"`
	Right       int      `json:"right,omitempty"`
	DefaultLeft bool     `json:"default_left,omitempty"`
}

type gbdtTree struct {
	Nodes []gbdtNode `json:"nodes"`
}

// GBDTRegressor is a gradient-boosted tree ensemble scoring named feature
// rows. Leaf values are in log1p space; the decision engine owns the inverse
// transform.
type GBDTRegressor struct {
	BaseScore float64
	Trees     []gbdtTree

	// requiredCols is the training-time feature set; a row missing any of
	// these is a shape error, not a missing value.
	requiredCols []string
}

var _ discount.Regressor = (*GBDTRegressor)(nil)

func (m *GBDTRegressor) Predict(rows []discount.FeatureRow) ([]float64, error) {
	out := make([]float64, len(rows))

	for i, row := range rows {
		for _, c := range m.requiredCols {
			if _, ok := row[c]; !ok {
				return nil, fmt.Errorf("row %d is missing feature %q", i, c)
			}
		}

		pred := m.BaseScore
		for ti := range m.Trees {
			leaf, err := m.Trees[ti].score(row)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", ti, err)
			}
			pred += leaf
		}
		out[i] = pred
	}

	return out, nil
}

func (t *gbdtTree) score(row discount.FeatureRow) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("empty tree")
	}

	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := &t.Nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}

		next := node.Right
		if t.goesLeft(node, row[node.Feature]) {
			next = node.Left
		}
		if next < 0 || next >= len(t.Nodes) {
			return 0, fmt.Errorf("node %d references invalid child %d", idx, next)
		}
		idx = next
	}

	return 0, fmt.Errorf("tree walk did not terminate, cycle at node %d", idx)
}

func (t *gbdtTree) goesLeft(node *gbdtNode, value any) bool {
	if len(node.Categories) > 0 {
		s, ok := value.(string)
		if !ok {
			// nil or non-string: the unknown-category path
			return node.DefaultLeft
		}
		for _, c := range node.Categories {
			if c == s {
				return true
			}
		}
		return false
	}

	v, ok := value.(float64)
	if !ok {
		return node.DefaultLeft
	}
	return v < node.Threshold
}
