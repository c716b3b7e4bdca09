// Package feeds decodes the JSON files scrapers leave in the data directory
// into the records a reconciliation run consumes. Scrapers disagree on key
// names and value types; decoding maps each record onto canonical keys first
// and drops only the records whose identity cannot be read. Other unreadable
// values are removed from the record, which is kept.
package feeds

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
	"github.com/agentstation/rostermap/pkg/leagues"
	"github.com/agentstation/rostermap/pkg/players"
)

// Feed is one decoded feed file.
type Feed[T any] struct {
	Path    string
	Records []T
	// Skipped are records that could not be decoded, by index in the file.
	Skipped []*errors.MalformedInputError
	// Dropped are values removed from records that were kept.
	Dropped []DroppedValue
}

// DroppedValue is an unreadable value removed from a decoded record.
type DroppedValue struct {
	Index  int
	Field  string
	Reason string
}

func (d DroppedValue) String() string {
	return fmt.Sprintf("record #%d %s: %s", d.Index, d.Field, d.Reason)
}

// Len returns the number of decoded records.
func (f *Feed[T]) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Records)
}

// LoadStats reads a stat feed file.
func LoadStats(path string, aliases leagues.FieldAliases) (*Feed[players.StatRecord], error) {
	return load[players.StatRecord](path, constants.FeedStats, aliases)
}

// LoadDirectory reads a directory feed file.
func LoadDirectory(path string, aliases leagues.FieldAliases) (*Feed[players.DirectoryRecord], error) {
	return load[players.DirectoryRecord](path, constants.FeedDirectory, aliases)
}

// LoadEnrichment reads an enrichment feed file.
func LoadEnrichment(path string, aliases leagues.FieldAliases) (*Feed[players.EnrichmentRecord], error) {
	return load[players.EnrichmentRecord](path, constants.FeedEnrichment, aliases)
}

func load[T any](path, feed string, aliases leagues.FieldAliases) (*Feed[T], error) {
	data, err := os.ReadFile(path) //nolint:gosec // feed paths come from league configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(feed+" feed", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	f, err := Decode[T](data, feed, aliases)
	if err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	f.Path = path
	return f, nil
}

var errShape = stderrors.New(`expected an array of records or an object with a "players" array`)

// Decode decodes feed data holding either a top-level array of records or an
// object with a "players" array.
func Decode[T any](data []byte, feed string, aliases leagues.FieldAliases) (*Feed[T], error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}

	var items []any
	switch t := root.(type) {
	case []any:
		items = t
	case map[string]any:
		list, ok := t["players"].([]any)
		if !ok {
			return nil, errShape
		}
		items = list
	default:
		return nil, errShape
	}

	out := &Feed[T]{Records: make([]T, 0, len(items))}
	for i, item := range items {
		rec, dropped, err := decodeRecord[T](item, feed, aliases)
		if err != nil {
			out.Skipped = append(out.Skipped, malformed(feed, i, err))
			continue
		}
		for _, d := range dropped {
			out.Dropped = append(out.Dropped, DroppedValue{Index: i, Field: d.field, Reason: d.reason})
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func decodeRecord[T any](item any, feed string, aliases leagues.FieldAliases) (T, []*fieldError, error) {
	var zero T
	rec, ok := item.(map[string]any)
	if !ok {
		return zero, nil, stderrors.New("not an object")
	}
	applyAliases(rec, feed, aliases)
	dropped, err := coerce(rec, feed)
	if err != nil {
		return zero, nil, err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return zero, nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, nil, err
	}
	return out, dropped, nil
}

// logDropped warns once per value removed from a kept record.
func (f *Feed[T]) logDropped(logger *zerolog.Logger, feed string) {
	if f == nil {
		return
	}
	for _, d := range f.Dropped {
		logger.Warn().
			Str("feed", feed).
			Str("path", f.Path).
			Int("record", d.Index).
			Str("field", d.Field).
			Str("reason", d.Reason).
			Msg("Dropped unreadable value, keeping record")
	}
}

func malformed(feed string, index int, err error) *errors.MalformedInputError {
	m := errors.NewMalformedInputError(feed, index, "", err.Error())
	var fe *fieldError
	if stderrors.As(err, &fe) {
		m.Field, m.Reason = fe.field, fe.reason
	}
	m.Err = err
	return m
}
