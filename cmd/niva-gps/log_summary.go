package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"niva-gps/internal/geo"
	"niva-gps/internal/niva"
)

type scanSummary struct {
	Fragments      map[niva.Outcome]int
	Formats        map[string]int
	Waypoints      int
	TrackLength    geo.Metres
	VerticalTravel geo.Metres
}

func summarizeScan(res niva.Result) scanSummary {
	s := scanSummary{
		Fragments: map[niva.Outcome]int{},
		Formats:   map[string]int{},
		Waypoints: len(res.Waypoints),
	}
	for k, v := range res.Stats.Fragments {
		s.Fragments[k] = v
	}
	for k, v := range res.Stats.Formats {
		s.Formats[k] = v
	}

	for i := 1; i < len(res.Waypoints); i++ {
		prev, cur := res.Waypoints[i-1], res.Waypoints[i]
		s.TrackLength += geo.HorizontalDistanceBetween(prev, cur)
		s.VerticalTravel += geo.VerticalDistanceBetween(prev, cur)
	}
	return s
}

func (s scanSummary) fragments() int {
	n := 0
	for _, c := range s.Fragments {
		n += c
	}
	return n
}

func formatMetres(m geo.Metres) string {
	return humanize.SIWithDigits(float64(m), 2, "m")
}

func printScanSummary(w io.Writer, source string, s scanSummary) {
	fmt.Fprintf(w, "path: %s\n", source)
	fmt.Fprintf(w, "fragments: %s\n", humanize.Comma(int64(s.fragments())))
	for _, o := range niva.Outcomes {
		fmt.Fprintf(w, "  %s: %s\n", o, humanize.Comma(int64(s.Fragments[o])))
	}
	fmt.Fprintf(w, "waypoints: %s\n", humanize.Comma(int64(s.Waypoints)))

	codes := make([]string, 0, len(s.Formats))
	for code := range s.Formats {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	fmt.Fprintf(w, "formats:\n")
	for _, code := range codes {
		fmt.Fprintf(w, "  %s: %s\n", code, humanize.Comma(int64(s.Formats[code])))
	}

	fmt.Fprintf(w, "track_length: %s\n", formatMetres(s.TrackLength))
	fmt.Fprintf(w, "vertical_travel: %s\n", formatMetres(s.VerticalTravel))
}

type waypointJSON struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt"`
}

func printWaypoints(w io.Writer, waypoints []geo.Waypoint, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, wp := range waypoints {
			if err := enc.Encode(waypointJSON{
				Lat: float64(wp.Latitude()),
				Lon: float64(wp.Longitude()),
				Alt: float64(wp.Altitude()),
			}); err != nil {
				return err
			}
		}
		return nil
	}
	for _, wp := range waypoints {
		if _, err := fmt.Fprintf(w, "%.6f %.6f %.2f\n", float64(wp.Latitude()), float64(wp.Longitude()), float64(wp.Altitude())); err != nil {
			return err
		}
	}
	return nil
}
