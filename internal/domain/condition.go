package domain

// NetworkCondition is a coarse classification of a forecast, used for
// logging, metrics, and the snapshot pushed to players.
type NetworkCondition string

const (
	ConditionExcellent NetworkCondition = "excellent"
	ConditionGood      NetworkCondition = "good"
	ConditionFair      NetworkCondition = "fair"
	ConditionPoor      NetworkCondition = "poor"
)

var conditionRanks = map[NetworkCondition]int{
	ConditionPoor:      0,
	ConditionFair:      1,
	ConditionGood:      2,
	ConditionExcellent: 3,
}

func (c NetworkCondition) Valid() bool {
	_, ok := conditionRanks[c]
	return ok
}

// Rank orders conditions poor(0) to excellent(3); unknown values rank as poor.
func (c NetworkCondition) Rank() int {
	return conditionRanks[c]
}

// ClassifyCondition buckets a forecast by bandwidth, then demotes for packet
// loss: sustained loss above 5% caps the tier at fair, above 10% at poor.
func ClassifyCondition(f Forecast) NetworkCondition {
	cond := ConditionPoor
	switch {
	case f.Bandwidth >= 10_000_000:
		cond = ConditionExcellent
	case f.Bandwidth >= 5_000_000:
		cond = ConditionGood
	case f.Bandwidth >= 2_000_000:
		cond = ConditionFair
	}
	if f.PacketLoss > 0.1 {
		return ConditionPoor
	}
	if f.PacketLoss > 0.05 && cond.Rank() > ConditionFair.Rank() {
		return ConditionFair
	}
	return cond
}
