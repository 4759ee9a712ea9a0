package niva

import (
	"fmt"
	"math"
	"strconv"

	"niva-gps/internal/geo"
)

type angleNotation int

const (
	notationDecimal angleNotation = iota // signed decimal degrees, e.g. -23.24
	notationDMS                          // 78o36'45''
	notationDDM                          // 78o36.75'
)

func (n angleNotation) String() string {
	switch n {
	case notationDecimal:
		return "decimal"
	case notationDMS:
		return "DMS"
	case notationDDM:
		return "DDM"
	default:
		return fmt.Sprintf("angleNotation(%d)", int(n))
	}
}

type angleState int

const (
	stateDegrees angleState = iota
	stateMinutes
	stateSeconds
	stateSecondsSymbol
	stateDone
)

func (s angleState) String() string {
	switch s {
	case stateDegrees:
		return "degrees"
	case stateMinutes:
		return "minutes"
	case stateSeconds:
		return "seconds"
	case stateSecondsSymbol:
		return "seconds symbol"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("angleState(%d)", int(s))
	}
}

// segment is the index of the numeric text a state collects, or -1 when
// the state only expects its closing marker.
func (s angleState) segment() int {
	switch s {
	case stateDegrees:
		return 0
	case stateMinutes:
		return 1
	case stateSeconds:
		return 2
	default:
		return -1
	}
}

type angleTransition struct {
	marker byte
	next   angleState
}

// angleGrammar maps each state to the marker that leaves it.
// stateDone has no transition: any further character is an error.
type angleGrammar map[angleState]angleTransition

var (
	// 78o36'45'': degrees 'o', minutes '\'', seconds "''".
	dmsGrammar = angleGrammar{
		stateDegrees:       {marker: 'o', next: stateMinutes},
		stateMinutes:       {marker: '\'', next: stateSeconds},
		stateSeconds:       {marker: '\'', next: stateSecondsSymbol},
		stateSecondsSymbol: {marker: '\'', next: stateDone},
	}

	// 78o36.75': degrees 'o', decimal minutes '\''.
	ddmGrammar = angleGrammar{
		stateDegrees: {marker: 'o', next: stateMinutes},
		stateMinutes: {marker: '\'', next: stateDone},
	}
)

// split runs the state machine over text and returns the raw degree,
// minute and second segments. Unused segments stay empty.
func (g angleGrammar) split(text string) ([3]string, error) {
	var segs [3]string
	state := stateDegrees
	segStart := 0

	for i := 0; i < len(text); i++ {
		tr, ok := g[state]
		if !ok {
			return segs, fmt.Errorf("%w: extra characters after the final symbol in %q", ErrMalformedAngle, text)
		}
		if text[i] == tr.marker {
			if seg := state.segment(); seg >= 0 {
				segs[seg] = text[segStart:i]
			}
			state = tr.next
			segStart = i + 1
			continue
		}
		if state.segment() < 0 {
			return segs, fmt.Errorf("%w: malformed %s in %q", ErrMalformedAngle, state, text)
		}
	}
	if state != stateDone {
		return segs, fmt.Errorf("%w: missing symbol after %s in %q", ErrMalformedAngle, state, text)
	}
	return segs, nil
}

// Only the degrees may carry a sign, and only so a negative angle can be
// reported as such.
func hasSign(s string) bool {
	return s != "" && (s[0] == '+' || s[0] == '-')
}

// decodeAngle turns a DMS or DDM field into a non-negative angle. The sign
// is carried by the separate bearing field.
func decodeAngle(n angleNotation, text string) (geo.Degrees, error) {
	var (
		segs [3]string
		deg  geo.Degrees
		err  error
	)
	switch n {
	case notationDMS:
		if segs, err = dmsGrammar.split(text); err != nil {
			return 0, err
		}
		whole, err := strconv.Atoi(segs[0])
		if err != nil {
			return 0, fmt.Errorf("%w: non-numeric degrees %q in %q", ErrMalformedAngle, segs[0], text)
		}
		mins, err := strconv.ParseUint(segs[1], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: non-numeric minutes %q in %q", ErrMalformedAngle, segs[1], text)
		}
		secs, err := strconv.ParseUint(segs[2], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: non-numeric seconds %q in %q", ErrMalformedAngle, segs[2], text)
		}
		deg = geo.FromDMS(float64(whole), float64(mins), float64(secs))
	case notationDDM:
		if segs, err = ddmGrammar.split(text); err != nil {
			return 0, err
		}
		whole, err := strconv.Atoi(segs[0])
		if err != nil {
			return 0, fmt.Errorf("%w: non-numeric degrees %q in %q", ErrMalformedAngle, segs[0], text)
		}
		mins, err := strconv.ParseFloat(segs[1], 64)
		if err != nil || hasSign(segs[1]) || math.IsInf(mins, 0) || math.IsNaN(mins) {
			return 0, fmt.Errorf("%w: non-numeric minutes %q in %q", ErrMalformedAngle, segs[1], text)
		}
		deg = geo.FromDMS(float64(whole), mins, 0)
	default:
		return 0, fmt.Errorf("%w: %s is not a sexagesimal notation", ErrMalformedAngle, n)
	}

	if deg < 0 {
		return 0, fmt.Errorf("%w: %q is negative; direction belongs in the bearing field", ErrMalformedAngle, text)
	}
	return deg, nil
}
