package bot

// CourageBonus is added to hand strength when answering a raise after winning a round.
const CourageBonus = 15

// RaiseTuning holds the thresholds one personality applies to raises.
// A strength threshold of -1 makes the decision purely random; a chance of 0 makes it
// purely strength based.
type RaiseTuning struct {
	RequestStrength int
	RequestChance   float64
	AcceptStrength  int
	AcceptChance    float64
}

// DefaultTuning maps each personality to its thresholds.
var DefaultTuning = map[Personality]RaiseTuning{
	Aggressive:    {RequestStrength: 50, RequestChance: 0.3, AcceptStrength: 45},
	Conservative:  {RequestStrength: 80, RequestChance: 0.7, AcceptStrength: 75},
	Balanced:      {RequestStrength: 65, RequestChance: 0.5, AcceptStrength: 60},
	Unpredictable: {RequestStrength: -1, RequestChance: 0.4, AcceptStrength: -1, AcceptChance: 0.4},
}

// fallbackTuning applies to personalities missing from DefaultTuning.
var fallbackTuning = RaiseTuning{RequestStrength: 70, RequestChance: 0.6, AcceptStrength: 65}

// TuningFor returns the thresholds for p.
func TuningFor(p Personality) RaiseTuning {
	if t, ok := DefaultTuning[p]; ok {
		return t
	}
	return fallbackTuning
}
