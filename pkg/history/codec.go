package history

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
)

// timestampLayouts are tried in order when reading a persisted timestamp.
// Layouts without a zone are what the legacy tool wrote (naive local time).
// Fractional seconds are accepted by all of them.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// record is the persisted shape of an Entry.
type record struct {
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
}

// Codec converts between the persisted history document and a Sequence.
// Decoding never fails: absent, corrupt or foreign documents decode to an
// empty Sequence, and individual bad entries are dropped.
type Codec struct {
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithRetentionDays sets how many days an entry survives a load.
// Non-positive values fall back to DefaultRetentionDays.
func WithRetentionDays(days int) CodecOption {
	return func(c *Codec) {
		if days <= 0 {
			days = DefaultRetentionDays
		}
		c.retention = time.Duration(days) * 24 * time.Hour
	}
}

// WithCodecClock overrides the time source used for the retention cutoff
// and for stamping migrated legacy entries.
func WithCodecClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// WithCodecLogger sets the logger used to report dropped entries.
func WithCodecLogger(logger *slog.Logger) CodecOption {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCodec creates a Codec with the default retention window.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{
		retention: DefaultRetentionDays * 24 * time.Hour,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Retention returns the configured retention window.
func (c *Codec) Retention() time.Duration {
	return c.retention
}

// Decode parses a persisted history document into a retention-filtered Sequence.
func (c *Codec) Decode(data []byte) Sequence {
	seq, _ := c.DecodeFormat(data)
	return seq
}

// DecodeFormat is Decode that also reports which schema the document used.
func (c *Codec) DecodeFormat(data []byte) (Sequence, Format) {
	now := c.now()

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Sequence{}, FormatEmpty
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("ignoring unreadable search history", "error", err)
		return Sequence{}, FormatEmpty
	}

	format := DetectFormat(items)
	switch format {
	case FormatLegacy:
		return c.Retain(c.decodeLegacy(items, now), now), format
	case FormatRecords:
		return c.fromRecords(c.decodeRecords(items), now), format
	default:
		return Sequence{}, FormatEmpty
	}
}

// DetectFormat classifies a top-level array by the shape of its first element.
// A bare string marks the legacy list-of-queries schema.
func DetectFormat(items []json.RawMessage) Format {
	if len(items) == 0 {
		return FormatEmpty
	}
	first := bytes.TrimSpace(items[0])
	if len(first) > 0 && first[0] == '"' {
		return FormatLegacy
	}
	return FormatRecords
}

// decodeLegacy converts a list of bare queries, stamping each one with now.
func (c *Codec) decodeLegacy(items []json.RawMessage, now time.Time) Sequence {
	seq := make(Sequence, 0, len(items))
	for i, item := range items {
		var query string
		if err := json.Unmarshal(item, &query); err != nil || query == "" {
			c.logger.Debug("dropping legacy history item", "index", i)
			continue
		}
		seq = append(seq, Entry{Query: query, Timestamp: now})
	}
	return seq
}

func (c *Codec) decodeRecords(items []json.RawMessage) []record {
	recs := make([]record, 0, len(items))
	for i, item := range items {
		var rec record
		if err := json.Unmarshal(item, &rec); err != nil {
			c.logger.Debug("dropping malformed history record", "index", i, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}

// fromRecords parses timestamps and applies retention. Records with an empty
// query or a missing/unparsable timestamp are dropped.
func (c *Codec) fromRecords(recs []record, now time.Time) Sequence {
	seq := make(Sequence, 0, len(recs))
	for _, rec := range recs {
		if rec.Query == "" {
			continue
		}
		ts, err := parseTimestamp(rec.Timestamp)
		if err != nil {
			c.logger.Debug("dropping history entry with bad timestamp", "query", rec.Query, "timestamp", rec.Timestamp)
			continue
		}
		seq = append(seq, Entry{Query: rec.Query, Timestamp: ts})
	}
	return c.Retain(seq, now)
}

// Retain drops entries older than the retention window measured from now.
// Order is preserved.
func (c *Codec) Retain(seq Sequence, now time.Time) Sequence {
	cutoff := now.Add(-c.retention)
	kept := make(Sequence, 0, len(seq))
	for _, e := range seq {
		if e.Timestamp.Before(cutoff) {
			c.logger.Debug("expiring history entry", "query", e.Query, "timestamp", e.Timestamp)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// Encode serializes seq as an indented JSON array of {query, timestamp} records.
func (c *Codec) Encode(seq Sequence) ([]byte, error) {
	recs := toRecords(seq)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(recs); err != nil {
		return nil, errors.Wrap(err, "failed to encode search history")
	}
	return buf.Bytes(), nil
}

func toRecords(seq Sequence) []record {
	recs := make([]record, 0, len(seq))
	for _, e := range seq {
		recs = append(recs, record{Query: e.Query, Timestamp: formatTimestamp(e.Timestamp)})
	}
	return recs
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	for i, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("unrecognized timestamp %q", s)
}
