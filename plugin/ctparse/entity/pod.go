package entity

// Part-of-day tags. Early/late variants are formed by prefixing "early" or
// "late" to a base tag.
const (
	PODMorning    = "morning"
	PODBeforeNoon = "beforenoon"
	PODNoon       = "noon"
	PODAfternoon  = "afternoon"
	PODEvening    = "evening"
	PODNight      = "night"
)

// podHours maps each part-of-day tag to its [from, to) hour range.
var podHours = map[string][2]int{
	"earlymorning":    {0, 6},
	"morning":         {5, 8},
	"latemorning":     {8, 10},
	"earlybeforenoon": {8, 11},
	"beforenoon":      {9, 12},
	"latebeforenoon":  {10, 13},
	"earlynoon":       {11, 13},
	"noon":            {12, 14},
	"latenoon":        {13, 15},
	"earlyafternoon":  {13, 15},
	"afternoon":       {14, 16},
	"lateafternoon":   {15, 17},
	"earlyevening":    {16, 18},
	"evening":         {17, 19},
	"lateevening":     {18, 20},
	"earlynight":      {18, 20},
	"night":           {19, 22},
	"latenight":       {20, 23},
}

// PODRange returns the hour range of a part-of-day tag.
func PODRange(pod string) (from, to int, ok bool) {
	r, ok := podHours[pod]
	return r[0], r[1], ok
}

// IsPODTag reports whether pod belongs to the fixed vocabulary.
func IsPODTag(pod string) bool {
	_, ok := podHours[pod]
	return ok
}
