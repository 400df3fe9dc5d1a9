package rule

import (
	"strconv"

	"github.com/hrygo/ctparse/plugin/ctparse/entity"
)

// Arg is what one symbol of a firing rule matched: a raw text Match for text
// symbols, an entity Value otherwise.
type Arg struct {
	Match *Match
	Value entity.Value
}

// Args are handed to a Builder in symbol order.
type Args []Arg

func (a Args) Value(i int) entity.Value       { return a[i].Value }
func (a Args) Time(i int) entity.Time         { return a[i].Value.Time() }
func (a Args) Interval(i int) entity.Interval { return a[i].Value.Interval() }

// Group returns a named capture of the i-th argument's match, or "".
func (a Args) Group(i int, name string) string {
	if a[i].Match == nil {
		return ""
	}
	return a[i].Match.Group(name)
}

// Int parses a named capture as a decimal integer.
func (a Args) Int(i int, name string) (int, bool) {
	s := a.Group(i, name)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
