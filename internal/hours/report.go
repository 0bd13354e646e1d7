package hours

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	headerDateFormat = "Mon, 01/02/06"
	dayDateFormat    = "01/02/06"
	clockFormat      = "03:04PM"
)

func (h Hours) String() string {
	return fmt.Sprintf("%s (%.2f)", h.Rounded.StringFixed(2), h.Exact)
}

// Write prints the week report, rendering visit times in loc
func (w *Week) Write(out io.Writer, loc *time.Location) error {
	var b strings.Builder

	if len(w.Days) > 0 {
		first, last := w.Days[0].Date, w.Days[len(w.Days)-1].Date
		fmt.Fprintf(&b, "%s - %s\n\n", first.Format(headerDateFormat), last.Format(headerDateFormat))
	}

	for _, day := range w.Days {
		fmt.Fprintln(&b, day.Date.Format(dayDateFormat))
		for _, v := range day.Visits {
			fmt.Fprintf(&b, "%s - %s\n", v.Start.In(loc).Format(clockFormat), v.End.In(loc).Format(clockFormat))
			fmt.Fprintln(&b, RoundDown(v.Duration().Hours(), w.settings.RoundFraction))
		}
		fmt.Fprintf(&b, "total: %s\n\n", day.Total)
	}

	fmt.Fprintf(&b, "CUMULATIVE: %s\n", w.Cumulative)

	_, err := io.WriteString(out, b.String())
	return err
}
