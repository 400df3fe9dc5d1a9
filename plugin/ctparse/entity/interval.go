package entity

// Interval is a closed range between two Times, or an open one when either
// side is nil.
type Interval struct {
	From *Time
	To   *Time
}

// NewInterval copies the endpoints so the Interval does not alias caller
// memory.
func NewInterval(from, to *Time) Interval {
	var i Interval
	if from != nil {
		f := *from
		i.From = &f
	}
	if to != nil {
		t := *to
		i.To = &t
	}
	return i
}

// IsTimeInterval reports whether both ends are set and are bare times of day.
func (i Interval) IsTimeInterval() bool {
	return i.From != nil && i.To != nil && i.From.IsTOD() && i.To.IsTOD()
}

// Equal compares endpoints by value.
func (i Interval) Equal(o Interval) bool {
	return endpointEqual(i.From, o.From) && endpointEqual(i.To, o.To)
}

func endpointEqual(a, b *Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// String renders "<from> - <to>" with None for an open side.
func (i Interval) String() string {
	return endpointString(i.From) + " - " + endpointString(i.To)
}

func endpointString(t *Time) string {
	if t == nil {
		return "None"
	}
	return t.String()
}
