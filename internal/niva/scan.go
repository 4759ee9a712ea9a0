package niva

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"niva-gps/internal/geo"
	"niva-gps/internal/observability"
)

// Outcome is what the pipeline made of one log fragment.
type Outcome string

const (
	OutcomeAccepted         Outcome = "accepted"
	OutcomeMalformed        Outcome = "malformed"
	OutcomeChecksumMismatch Outcome = "checksum_mismatch"
	OutcomeUnknownFormat    Outcome = "unknown_format"
	OutcomeFieldCount       Outcome = "field_count"
	OutcomeDecodeFailed     Outcome = "decode_failed"
)

// Outcomes lists every Outcome in pipeline order.
var Outcomes = []Outcome{
	OutcomeAccepted,
	OutcomeMalformed,
	OutcomeChecksumMismatch,
	OutcomeUnknownFormat,
	OutcomeFieldCount,
	OutcomeDecodeFailed,
}

// DefaultMaxFragmentBytes bounds how much unterminated text the scanner
// buffers while looking for the next ';'.
const DefaultMaxFragmentBytes = 64 * 1024

const minFragmentBytes = 16

type Stats struct {
	Fragments map[Outcome]int
	// Formats counts accepted waypoints per format code.
	Formats map[string]int
}

func (s Stats) Total() int {
	n := 0
	for _, c := range s.Fragments {
		n += c
	}
	return n
}

type Result struct {
	Waypoints []geo.Waypoint
	Stats     Stats
}

type ScannerConfig struct {
	// Logger receives one Debug record per rejected fragment. Nil discards.
	Logger *slog.Logger
	// Metrics is optional.
	Metrics *observability.Metrics
	// MaxFragmentBytes defaults to DefaultMaxFragmentBytes.
	MaxFragmentBytes int
}

// Scanner extracts waypoints from NIVA logs. A Scanner holds no per-scan
// state and may be reused.
type Scanner struct {
	logger   *slog.Logger
	metrics  *observability.Metrics
	maxBytes int
}

func NewScanner(cfg ScannerConfig) *Scanner {
	s := &Scanner{logger: cfg.Logger, metrics: cfg.Metrics, maxBytes: cfg.MaxFragmentBytes}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxFragmentBytes
	}
	if s.maxBytes < minFragmentBytes {
		s.maxBytes = minFragmentBytes
	}
	return s
}

// ExtractWaypointsFromLog returns the waypoints of every valid reading in r,
// in the order they appear. Malformed text, bad checksums, unknown formats,
// wrong field counts and undecodable fields are skipped. Only a failure to
// read r is returned as an error.
func ExtractWaypointsFromLog(r io.Reader) ([]geo.Waypoint, error) {
	res, err := NewScanner(ScannerConfig{}).Scan(r)
	return res.Waypoints, err
}

// Scan reads r to EOF and runs every fragment through the pipeline.
// On a read error the waypoints decoded so far are returned with the error.
func (s *Scanner) Scan(r io.Reader) (Result, error) {
	start := time.Now()
	res := Result{
		Waypoints: []geo.Waypoint{},
		Stats:     Stats{Fragments: map[Outcome]int{}, Formats: map[string]int{}},
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(4096, s.maxBytes)), s.maxBytes)
	sc.Split(s.splitFragments)

	for sc.Scan() {
		frag := sc.Text()
		w, format, outcome, err := decodeFragment(frag)
		res.Stats.Fragments[outcome]++
		if s.metrics != nil {
			s.metrics.Fragments.WithLabelValues(string(outcome)).Inc()
		}
		if outcome != OutcomeAccepted {
			s.logger.Debug("niva fragment skipped", "reason", string(outcome), "fragment", frag, "err", err)
			continue
		}
		res.Waypoints = append(res.Waypoints, w)
		res.Stats.Formats[format]++
		if s.metrics != nil {
			s.metrics.Waypoints.WithLabelValues(format).Inc()
		}
	}
	if err := sc.Err(); err != nil {
		s.logger.Error("niva log read failed", "err", err, "waypoints", len(res.Waypoints))
		return res, fmt.Errorf("niva: reading log: %w", err)
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ScansTotal.Inc()
		s.metrics.ScanDuration.Observe(elapsed.Seconds())
	}
	s.logger.Info("niva log scanned",
		"fragments", res.Stats.Total(),
		"waypoints", len(res.Waypoints),
		"elapsed", elapsed,
	)
	return res, nil
}

// decodeFragment runs one candidate through every stage in order and
// reports the first stage that rejected it.
func decodeFragment(frag string) (geo.Waypoint, string, Outcome, error) {
	if !IsWellformedDataReading(frag) {
		return geo.Waypoint{}, "", OutcomeMalformed, nil
	}
	if !HasMatchingChecksum(frag) {
		return geo.Waypoint{}, "", OutcomeChecksumMismatch, nil
	}
	r, err := ParseDataReading(frag)
	if err != nil {
		return geo.Waypoint{}, "", OutcomeMalformed, err
	}
	if !IsKnownFormat(r.Format) {
		return geo.Waypoint{}, r.Format, OutcomeUnknownFormat, nil
	}
	if !HasCorrectNumberOfFields(r) {
		return geo.Waypoint{}, r.Format, OutcomeFieldCount, nil
	}
	w, err := ExtractWaypointFromReading(r)
	if err != nil {
		return geo.Waypoint{}, r.Format, OutcomeDecodeFailed, err
	}
	return w, r.Format, OutcomeAccepted, nil
}

// splitFragments is a bufio.SplitFunc yielding one candidate reading per
// ';'. Leading whitespace is dropped. A reading cannot contain '#', so a
// candidate is cut back to its last '#' and anything before it is garbage.
// Text still unterminated at EOF becomes a final (malformed) candidate.
func (s *Scanner) splitFragments(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}
	if start == len(data) {
		return start, nil, nil
	}

	if i := bytes.IndexByte(data[start:], Terminator); i >= 0 {
		end := start + i + 1
		return end, resync(data[start:end]), nil
	}
	if atEOF {
		return len(data), resync(data[start:]), nil
	}

	// Buffer full with no terminator: keep only what could still start a
	// reading so the buffer never exceeds maxBytes.
	if len(data) >= s.maxBytes {
		if j := bytes.LastIndexByte(data, Marker); j > start {
			return j, nil, nil
		}
		return len(data), nil, nil
	}
	return start, nil, nil
}

func resync(candidate []byte) []byte {
	if j := bytes.LastIndexByte(candidate, Marker); j > 0 {
		return candidate[j:]
	}
	return candidate
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
