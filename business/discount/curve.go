package discount

// eqUnitsPerHour estimates sales velocity (units/hour) for a candidate
// discount using a hand-tuned response curve. It needs no trained model, which
// makes it a sanity prior the blend step can lean on when the model is biased
// for tail configurations.
//
// base_rate is the undiscounted demand rate; lift grows linearly with discount
// depth up to maxBoost; the shortage factor raises urgency when inventory is
// long relative to demand (up to 2x) and shrinks toward 0.5x for scarce goods.
func eqUnitsPerHour(amountLeft, expectedDemand, pct, winHours, maxBoost float64) float64 {
	if winHours < minWindowHours {
		winHours = minWindowHours
	}
	baseRate := expectedDemand / winHours

	lift := clip(1.0+4.5*pct, 0.0, maxBoost)

	shortageFactor := 1.0
	if expectedDemand > 0 {
		shortageRatio := amountLeft / expectedDemand
		shortageFactor = clip(0.5+0.5*shortageRatio, 0.5, 2.0)
	}

	return baseRate * lift * shortageFactor
}
