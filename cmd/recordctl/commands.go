package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	record "github.com/benjamonnguyen/record-go"
)

type command func(cfg record.Config, args []string, in io.Reader, out io.Writer) error

var commands = map[string]command{
	"new":  newRecord,
	"save": saveRecord,
	"show": showRecord,
}

var errBadAttr = errors.New("attribute must be key=value")

func newRecord(cfg record.Config, args []string, _ io.Reader, out io.Writer) error {
	r := record.New(record.WithKind(cfg.Kind))
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("%w: %q", errBadAttr, arg)
		}
		if err := r.Set(key, val); err != nil {
			return err
		}
	}
	log.Debug("created record", "id", r.ID(), "kind", r.Kind())
	return writeRecord(out, r)
}

func saveRecord(cfg record.Config, _ []string, in io.Reader, out io.Writer) error {
	r, err := readRecord(cfg, in)
	if err != nil {
		return err
	}
	before := r.UpdatedAt()
	r.Save()
	log.Debug("saved record", "id", r.ID(), "before", before, "after", r.UpdatedAt())
	return writeRecord(out, r)
}

func showRecord(cfg record.Config, _ []string, in io.Reader, out io.Writer) error {
	r, err := readRecord(cfg, in)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, r.String())
	return err
}

// readRecord decodes the JSON mapping on in. The configured kind is used
// unless the mapping carries its own type tag.
func readRecord(cfg record.Config, in io.Reader) (*record.Record, error) {
	var m record.Mapping
	if err := json.NewDecoder(in).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	kind := cfg.Kind
	if tag, ok := m[record.KeyKind].(string); ok && tag != "" {
		kind = tag
	}
	return record.FromMapping(m, record.WithKind(kind))
}

func writeRecord(out io.Writer, r *record.Record) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
