package component

// Pool is a current/max/regen triple, used for health and energy pools on
// every attribute component family. Invariant: 0 <= Current <= Max; Regen >= 0.
type Pool struct {
	Current float64
	Max     float64
	Regen   float64
}

func (p Pool) Valid() bool {
	return p.Current >= 0 && p.Current <= p.Max && p.Regen >= 0
}

// BodyAttributes holds the offensive/defensive/finesse triple for the
// physical axis, plus the health pool it governs.
type BodyAttributes struct {
	Offense, Defense, Finesse float64
	Health                    Pool
}

// MindAttributes holds the mental axis and its energy pool.
type MindAttributes struct {
	Offense, Defense, Finesse float64
	Energy                    Pool
}

// SoulAttributes holds the spiritual axis and its energy pool.
type SoulAttributes struct {
	Offense, Defense, Finesse float64
	Energy                    Pool
}
