package components

// Kind is a creature's immutable role.
type Kind uint8

const (
	KindHerbivore Kind = iota
	KindPredator
)

// IsPredator reports whether the kind hunts other creatures.
func (k Kind) IsPredator() bool {
	return k == KindPredator
}

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// KindNames returns the display names for all kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"herbivore", "predator"}
}

// KindOf maps the predator flag to a Kind.
func KindOf(predator bool) Kind {
	if predator {
		return KindPredator
	}
	return KindHerbivore
}

// DeathCause records why a creature died.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseStarvation
	CauseOldAge
	CausePredation
)

// String returns the display name for a DeathCause.
func (c DeathCause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CauseOldAge:
		return "old_age"
	case CausePredation:
		return "predation"
	}
	return "none"
}
