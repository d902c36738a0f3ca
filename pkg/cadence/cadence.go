package cadence

// Cadence describes how often an income source pays out or a budget item
// recurs. Both sides of an allocation must be interpreted against the same
// pay period, so the enum is shared.
type Cadence string

const (
	Weekly      Cadence = "weekly"
	Biweekly    Cadence = "biweekly"
	Semimonthly Cadence = "semimonthly"
	Monthly     Cadence = "monthly"
)

func (c Cadence) Valid() bool {
	switch c {
	case Weekly, Biweekly, Semimonthly, Monthly:
		return true
	}
	return false
}
