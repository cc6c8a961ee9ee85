package employee

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Timing is a branch working window as HH:MM strings. Either side may be empty.
type Timing struct {
	Start string
	End   string
}

type BranchAssignment struct {
	Branch string
	Timing *Timing
}

type Employee struct {
	ID       string
	Name     string
	UserCode int
	Status   string
	Branches []BranchAssignment
}

// HasTiming reports whether any branch assignment configures a timing window.
func (e Employee) HasTiming() bool {
	for _, b := range e.Branches {
		if b.Timing != nil && (b.Timing.Start != "" || b.Timing.End != "") {
			return true
		}
	}
	return false
}

// TimingFor returns the timing of the named branch, or nil when it has none.
func (e Employee) TimingFor(branch string) *Timing {
	for _, b := range e.Branches {
		if b.Branch == branch {
			return b.Timing
		}
	}
	return nil
}
