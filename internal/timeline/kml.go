package timeline

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jgoulah/timelinescraper/pkg/models"
)

type kmlPlacemark struct {
	Name     string    `xml:"name"`
	Point    *struct{} `xml:"Point"`
	TimeSpan struct {
		Begin string `xml:"begin"`
		End   string `xml:"end"`
	} `xml:"TimeSpan"`
}

// ParsePlacemarks extracts place visits from a timeline KML document.
// Placemarks without a Point (travel segments) are skipped.
func ParsePlacemarks(r io.Reader) ([]models.Visit, error) {
	dec := xml.NewDecoder(r)

	var visits []models.Visit
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading KML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}

		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &start); err != nil {
			return nil, fmt.Errorf("decoding placemark: %w", err)
		}
		if pm.Point == nil {
			continue
		}

		begin, err := parseTimestamp(pm.TimeSpan.Begin)
		if err != nil {
			return nil, fmt.Errorf("placemark %q begin: %w", pm.Name, err)
		}
		end, err := parseTimestamp(pm.TimeSpan.End)
		if err != nil {
			return nil, fmt.Errorf("placemark %q end: %w", pm.Name, err)
		}

		visits = append(visits, models.Visit{
			Name:  strings.TrimSpace(pm.Name),
			Start: begin,
			End:   end,
		})
	}

	return visits, nil
}

// parseTimestamp parses times like 2019-11-26T01:35:36.088Z
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
