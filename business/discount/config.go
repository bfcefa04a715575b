package discount

const (
	CampaignSegmentItem = "item_discount"
	CampaignSegmentBill = "bill_discount"
)

const (
	// Price floor: a candidate can never push the paid fraction below 5%.
	minPriceMultiplier = 0.05
	maxDiscountDepth   = 0.95

	// Remaining window length is floored, never rejected.
	minWindowHours = 1e-6

	// duration_hours_capped ceiling (30 days).
	maxDurationHours = 24.0 * 30.0

	defaultMaxBoostFactor = 3.0

	defaultBaselinePct    = 0.0
	defaultAggressiveness = 5.0
)

// DefaultPctGrid is the candidate grid used when the caller supplies none.
func DefaultPctGrid() []float64 {
	return []float64{0.00, 0.05, 0.10, 0.15, 0.20, 0.25, 0.30, 0.40}
}

// Config carries engine tunables. The zero value is not usable; construct via
// DefaultConfig and override fields as needed.
type Config struct {
	// MaxBoostFactor caps the discount lift of the rule-based curve.
	MaxBoostFactor float64

	// DefaultPlaceID is substituted when a request omits place_id.
	DefaultPlaceID int64
}

func DefaultConfig() Config {
	return Config{
		MaxBoostFactor: defaultMaxBoostFactor,
		DefaultPlaceID: 59897,
	}
}
