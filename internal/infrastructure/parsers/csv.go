package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// CSVParser parses events from CSV format.
type CSVParser struct{}

// timeLayouts are the accepted timestamp formats, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Parse reads CSV from the reader and returns parsed events.
// Expected columns: id, entity_id, event_type, timestamp, channel, outcome,
// impact_score, tags (semicolon separated), amount, description.
func (p *CSVParser) Parse(r io.Reader) ([]entities.Event, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}

	requiredCols := []string{"event_type", "timestamp", "outcome"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to events.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]entities.Event, error) {
	var events []entities.Event
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		ev, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, nil
}

// parseRecord converts a CSV record to an event. An empty timestamp or
// outcome is kept empty; the engine treats such events as malformed.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (entities.Event, error) {
	ev := entities.Event{
		ID:       getColumn(record, colIndex, "id"),
		EntityID: getColumn(record, colIndex, "entity_id"),
		Type:     entities.EventType(strings.ToLower(getColumn(record, colIndex, "event_type"))),
		Channel:  entities.Channel(strings.ToLower(getColumn(record, colIndex, "channel"))),
		Outcome:  entities.Outcome(strings.ToLower(getColumn(record, colIndex, "outcome"))),
	}
	if ev.ID == "" {
		ev.ID = fmt.Sprintf("line-%d", lineNum)
	}

	if ts := getColumn(record, colIndex, "timestamp"); ts != "" {
		parsed, err := parseTime(ts)
		if err != nil {
			return entities.Event{}, fmt.Errorf("line %d: invalid timestamp %q: %w", lineNum, ts, err)
		}
		ev.Timestamp = parsed
	}

	if impact := getColumn(record, colIndex, "impact_score"); impact != "" {
		v, err := strconv.ParseFloat(impact, 64)
		if err != nil {
			return entities.Event{}, fmt.Errorf("line %d: invalid impact_score %q: %w", lineNum, impact, err)
		}
		ev.ImpactScore = v
	}

	if tags := getColumn(record, colIndex, "tags"); tags != "" {
		for _, tag := range strings.Split(tags, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				ev.Tags = append(ev.Tags, tag)
			}
		}
	}

	metadata := make(map[string]any)
	if amount := getColumn(record, colIndex, "amount"); amount != "" {
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return entities.Event{}, fmt.Errorf("line %d: invalid amount %q: %w", lineNum, amount, err)
		}
		metadata["amount"] = v
	}
	if desc := getColumn(record, colIndex, "description"); desc != "" {
		metadata["description"] = desc
	}
	if len(metadata) > 0 {
		ev.Metadata = metadata
	}

	return ev, nil
}

func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// getColumn safely retrieves a trimmed column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
