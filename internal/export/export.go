// Package export renders search history as downloadable text. All formatters
// are pure transforms over the record list; none touch the store.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/Akash17891234/weather-app-assessment/internal/storage"
)

const timestampLayout = time.RFC3339

// JSON renders the full records, snapshots included, indented for readability.
func JSON(searches []storage.WeatherSearch) ([]byte, error) {
	b, err := json.MarshalIndent(searches, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling searches: %w", err)
	}
	return b, nil
}

// CSV renders one row per search with the summary columns; the snapshot blob
// is omitted since it does not flatten into cells.
func CSV(searches []storage.WeatherSearch) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "Location", "Location Type", "Start Date", "End Date", "Created At"}); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, s := range searches {
		row := []string{
			s.ID.String(),
			s.Location,
			s.LocationType,
			s.StartDate,
			s.EndDate,
			s.CreatedAt.Format(timestampLayout),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// XML renders a <weather_searches> document with one <search> per record.
func XML(searches []storage.WeatherSearch) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<weather_searches>\n")

	for _, s := range searches {
		buf.WriteString("  <search>\n")
		writeXMLField(&buf, "id", s.ID.String())
		writeXMLField(&buf, "location", s.Location)
		writeXMLField(&buf, "location_type", s.LocationType)
		writeXMLField(&buf, "start_date", s.StartDate)
		writeXMLField(&buf, "end_date", s.EndDate)
		writeXMLField(&buf, "created_at", s.CreatedAt.Format(timestampLayout))
		buf.WriteString("  </search>\n")
	}

	buf.WriteString("</weather_searches>\n")
	return buf.Bytes(), nil
}

func writeXMLField(buf *bytes.Buffer, name, value string) {
	buf.WriteString("    <" + name + ">")
	_ = xml.EscapeText(buf, []byte(value))
	buf.WriteString("</" + name + ">\n")
}

// Markdown renders the history as a table.
func Markdown(searches []storage.WeatherSearch) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# Weather Searches\n\n")
	buf.WriteString("| ID | Location | Type | Start Date | End Date | Created At |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")

	for _, s := range searches {
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s | %s |\n",
			s.ID, s.Location, s.LocationType, s.StartDate, s.EndDate, s.CreatedAt.Format(timestampLayout))
	}

	return buf.Bytes(), nil
}
