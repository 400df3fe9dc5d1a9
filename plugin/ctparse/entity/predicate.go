package entity

// Predicate names a boolean property of a Value that grammar rules can
// require of an already produced entity.
type Predicate string

const (
	HasDOW         Predicate = "hasDOW"
	IsDOM          Predicate = "isDOM"
	IsMonth        Predicate = "isMonth"
	IsYear         Predicate = "isYear"
	IsDate         Predicate = "isDate"
	IsDOY          Predicate = "isDOY"
	IsTOD          Predicate = "isTOD"
	IsPOD          Predicate = "isPOD"
	IsDateTime     Predicate = "isDateTime"
	IsTimeInterval Predicate = "isTimeInterval"
)

var timePredicates = map[Predicate]func(Time) bool{
	HasDOW:     Time.HasDOW,
	IsDOM:      Time.IsDOM,
	IsMonth:    Time.IsMonth,
	IsYear:     Time.IsYear,
	IsDate:     Time.IsDate,
	IsDOY:      Time.IsDOY,
	IsTOD:      Time.IsTOD,
	IsPOD:      Time.IsPOD,
	IsDateTime: Time.IsDateTime,
}

// Valid reports whether p is one of the known predicates.
func (p Predicate) Valid() bool {
	_, ok := timePredicates[p]
	return ok || p == IsTimeInterval
}

func (p Predicate) onTime(t Time) bool {
	fn, ok := timePredicates[p]
	return ok && fn(t)
}
