package venue

import (
	"math/rand/v2"
	"strconv"
)

// StagePosition is where the stage sits on the stadium plan.
var StagePosition = Point{X: 85, Y: 50}

// StadiumPositions maps stadium section names to their anchor. The stage is
// on the right; floor sections sit in front of it, surrounded by the 100
// ring and the 200 mezzanine.
var StadiumPositions = map[string]Point{
	"A": {75, 65}, "B": {75, 55}, "C": {75, 45},
	"D": {68, 65}, "E": {68, 55}, "F": {68, 45},
	"G": {60, 65}, "H": {60, 55}, "J": {60, 45},

	"115": {50, 70}, "116": {47, 68}, "117": {44, 65}, "118": {42, 60},
	"119": {40, 55}, "120": {38, 50}, "121": {38, 40}, "122": {40, 35},
	"101": {43, 30}, "102": {47, 28}, "103": {70, 32}, "104": {73, 30},
	"105": {76, 32}, "106": {79, 35}, "107": {81, 40}, "108": {82, 45},
	"109": {82, 50}, "110": {81, 55}, "111": {79, 60}, "112": {76, 63},
	"113": {73, 65}, "114": {70, 67},

	"227": {30, 22}, "228": {33, 20}, "229": {36, 18}, "230": {39, 17},
	"201": {42, 16}, "202": {46, 15}, "203": {50, 16}, "204": {54, 17},

	"212": {50, 82}, "213": {46, 83}, "214": {42, 84}, "215": {39, 85},
	"216": {36, 84}, "217": {33, 83}, "218": {30, 81}, "219": {28, 78},

	"205": {60, 18}, "206": {65, 20}, "207": {70, 23}, "208": {73, 26},
	"209": {76, 30}, "210": {78, 35}, "211": {79, 40},

	"220": {25, 70}, "221": {23, 65}, "222": {22, 60}, "223": {22, 55},
	"224": {23, 50}, "225": {25, 45}, "226": {28, 40},
}

// SoldOutSections are stadium sections generated with no availability.
var SoldOutSections = map[string]bool{
	"E": true, "H": true, "103": true, "115": true, "116": true, "117": true,
	"118": true, "119": true, "120": true, "202": true, "210": true,
	"213": true, "214": true, "215": true,
}

// DefaultAnchor is used for sections without a known position.
var DefaultAnchor = Point{X: 50, Y: 50}

// AnchorFor returns the stadium position of a section name.
func AnchorFor(name string) Point {
	if p, ok := StadiumPositions[name]; ok {
		return p
	}
	return DefaultAnchor
}

// RowLabel names row i: A to Z, then the 1-based number.
func RowLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// GenerateRows builds numRows rows of seatsPerRow seats. Each seat is
// available with probability ratio.
func GenerateRows(numRows int, seatsPerRow int, price float64, ratio float64, rng *rand.Rand) []Row {
	rows := make([]Row, 0, max(0, numRows))
	for i := 0; i < numRows; i++ {
		seats := make([]Seat, 0, max(0, seatsPerRow))
		for j := 1; j <= seatsPerRow; j++ {
			seats = append(seats, Seat{
				Label:     strconv.Itoa(j),
				Available: rng.Float64() < ratio,
				Price:     price,
			})
		}
		rows = append(rows, Row{Label: RowLabel(i), Seats: seats})
	}
	return rows
}

type Tone int

const (
	ToneAvailable Tone = iota
	ToneLow
	ToneSoldOut
)

type SectionAvailability struct {
	Available int
	Total     int
	Ratio     float64
}

// Tone classifies availability: more than half free, some free, none.
func (a SectionAvailability) Tone() Tone {
	switch {
	case a.Ratio > 0.5:
		return ToneAvailable
	case a.Ratio > 0:
		return ToneLow
	default:
		return ToneSoldOut
	}
}

func Availability(section Section) SectionAvailability {
	var result SectionAvailability
	for _, row := range section.Rows {
		for _, seat := range row.Seats {
			result.Total++
			if seat.Available {
				result.Available++
			}
		}
	}
	if result.Total > 0 {
		result.Ratio = float64(result.Available) / float64(result.Total)
	}
	return result
}
