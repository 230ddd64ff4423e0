package server

// The 64-field board carries a handful of special fields. Obstacles throw
// the landing player backwards, unique fields jump them forwards. The board
// topology is fixed, so the table is code rather than data.

type fieldKind int

const (
	fieldPlain fieldKind = iota
	fieldObstacle
	fieldUnique
)

type fieldEffect struct {
	kind fieldKind
	to   int
}

var fieldEffects = map[int]fieldEffect{
	6:  {kind: fieldObstacle, to: 0},
	19: {kind: fieldUnique, to: 27},
	31: {kind: fieldObstacle, to: 20},
	42: {kind: fieldObstacle, to: 32},
	52: {kind: fieldUnique, to: 57},
	58: {kind: fieldObstacle, to: 53},
}

// applyFieldEffect maps a landing position to the position the player ends
// up on. Positions without a special field are returned unchanged.
func applyFieldEffect(position int) int {
	if effect, ok := fieldEffects[position]; ok {
		return effect.to
	}
	return position
}

// fieldKindAt reports what kind of field sits at the given position.
func fieldKindAt(position int) fieldKind {
	if effect, ok := fieldEffects[position]; ok {
		return effect.kind
	}
	return fieldPlain
}

func (k fieldKind) String() string {
	switch k {
	case fieldObstacle:
		return "obstacle"
	case fieldUnique:
		return "unique"
	default:
		return "plain"
	}
}
