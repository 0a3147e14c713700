package venue

import (
	"errors"
	"fmt"
	"strings"
)

// SeatIDDelimiter joins the parts of a serialized SeatID. Row and seat labels
// must not contain it.
const SeatIDDelimiter = "-"

var ErrInvalidSeatID = errors.New("invalid seat id")

// SeatID is the composite identity of one seat inside a layout.
type SeatID struct {
	Section string
	Row     string
	Seat    string
}

func (id SeatID) String() string {
	return id.Section + SeatIDDelimiter + id.Row + SeatIDDelimiter + id.Seat
}

func (id SeatID) IsZero() bool {
	return id.Section == "" && id.Row == "" && id.Seat == ""
}

// ParseSeatID splits a serialized id from the right, so section ids may
// contain the delimiter ("section-1-A-1" is section "section-1", row "A",
// seat "1").
func ParseSeatID(value string) (SeatID, error) {
	last := strings.LastIndex(value, SeatIDDelimiter)
	if last <= 0 || last == len(value)-1 {
		return SeatID{}, fmt.Errorf("%w: %q", ErrInvalidSeatID, value)
	}
	rest := value[:last]
	mid := strings.LastIndex(rest, SeatIDDelimiter)
	if mid <= 0 || mid == len(rest)-1 {
		return SeatID{}, fmt.Errorf("%w: %q", ErrInvalidSeatID, value)
	}
	return SeatID{
		Section: rest[:mid],
		Row:     rest[mid+1:],
		Seat:    value[last+1:],
	}, nil
}

func (id SeatID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SeatID) UnmarshalText(text []byte) error {
	parsed, err := ParseSeatID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
