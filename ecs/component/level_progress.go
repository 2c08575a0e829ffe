package component

type LevelOutcome uint8

const (
	LevelInProgress LevelOutcome = iota
	LevelWon
	LevelLost
)

func (o LevelOutcome) String() string {
	switch o {
	case LevelWon:
		return "won"
	case LevelLost:
		return "lost"
	}
	return "in_progress"
}

// LevelProgress counts cleared destructible blocks against the level target.
type LevelProgress struct {
	Total   int
	Cleared int
	Percent int
	Target  int
	Outcome LevelOutcome
	Stars   int
}

var LevelProgressComponent = NewComponent[LevelProgress]()
