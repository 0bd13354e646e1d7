package timeline

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jgoulah/timelinescraper/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>Location history from 2019-11-26 to 2019-11-26</name>
    <Placemark>
      <name>Home</name>
      <address>1 Main St</address>
      <TimeSpan><begin>2019-11-26T01:35:36.088Z</begin><end>2019-11-26T13:02:00Z</end></TimeSpan>
      <Point><coordinates>-73.9,40.7,0</coordinates></Point>
    </Placemark>
    <Placemark>
      <name>Driving</name>
      <TimeSpan><begin>2019-11-26T13:02:00Z</begin><end>2019-11-26T13:30:00Z</end></TimeSpan>
      <LineString><coordinates>-73.9,40.7,0 -73.8,40.8,0</coordinates></LineString>
    </Placemark>
    <Placemark>
      <name> Work </name>
      <TimeSpan><begin>2019-11-26T13:30:00.000Z</begin><end>2019-11-26T21:45:00.000Z</end></TimeSpan>
      <Point><coordinates>-73.8,40.8,0</coordinates></Point>
    </Placemark>
  </Document>
</kml>`

func TestParsePlacemarks(t *testing.T) {
	visits, err := ParsePlacemarks(strings.NewReader(sampleKML))
	require.NoError(t, err)

	want := []models.Visit{
		{
			Name:  "Home",
			Start: time.Date(2019, time.November, 26, 1, 35, 36, 88000000, time.UTC),
			End:   time.Date(2019, time.November, 26, 13, 2, 0, 0, time.UTC),
		},
		{
			Name:  "Work",
			Start: time.Date(2019, time.November, 26, 13, 30, 0, 0, time.UTC),
			End:   time.Date(2019, time.November, 26, 21, 45, 0, 0, time.UTC),
		},
	}
	if diff := cmp.Diff(want, visits); diff != "" {
		t.Errorf("ParsePlacemarks mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8*time.Hour+15*time.Minute, visits[1].Duration())
}

func TestParsePlacemarksEmptyDocument(t *testing.T) {
	visits, err := ParsePlacemarks(strings.NewReader(`<kml><Document></Document></kml>`))
	require.NoError(t, err)
	assert.Empty(t, visits)
}

func TestParsePlacemarksBadTimestamp(t *testing.T) {
	doc := `<kml><Placemark><name>Work</name><TimeSpan><begin>yesterday</begin><end>2019-11-26T21:45:00Z</end></TimeSpan><Point/></Placemark></kml>`
	_, err := ParsePlacemarks(strings.NewReader(doc))
	assert.ErrorContains(t, err, `placemark "Work" begin`)
}

func TestParsePlacemarksMalformedXML(t *testing.T) {
	_, err := ParsePlacemarks(strings.NewReader(`<kml><Placemark><name>Work</name>`))
	assert.Error(t, err)
}
