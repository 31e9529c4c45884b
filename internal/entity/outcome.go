package entity

// Result tags an Outcome.
type Result int

const (
	Ongoing Result = iota
	Win
	Draw
)

func (that Result) String() string {
	switch that {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

func (that Result) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

// Outcome classifies a board. Winner is only set when Result is Win.
type Outcome struct {
	Result Result `json:"result"`
	Winner Mark   `json:"winner,omitempty"`
}

func OngoingOutcome() Outcome {
	return Outcome{Result: Ongoing}
}

func WinOutcome(mark Mark) Outcome {
	return Outcome{Result: Win, Winner: mark}
}

func DrawOutcome() Outcome {
	return Outcome{Result: Draw}
}

func (that Outcome) IsTerminal() bool {
	return that.Result != Ongoing
}

func (that Outcome) String() string {
	if that.Result == Win {
		return "win:" + string(that.Winner)
	}

	return that.Result.String()
}
