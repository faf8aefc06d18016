package lexicon

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Entry file formats accepted by ReadEntries.
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath guesses an entry file format from its extension; unknown
// extensions read as CSV.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatCSV
}

// ReadEntries decodes a list of entries. Delimited formats have no header
// and up to four columns: word, tag, particle class, gloss. Missing columns
// are empty and rows with neither word nor tag are skipped. JSON and YAML
// hold a list of Entry objects.
func ReadEntries(r io.Reader, format string) ([]Entry, error) {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return readDelimited(r, ',')
	case FormatTSV:
		return readDelimited(r, '\t')
	case FormatJSON:
		var entries []Entry
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, errors.Wrap(err, "decode json entries")
		}
		return entries, nil
	case FormatYAML, "yml":
		var entries []Entry
		if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "decode yaml entries")
		}
		return entries, nil
	}
	return nil, errors.Errorf("unknown entry format %q", format)
}

func readDelimited(r io.Reader, comma rune) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var entries []Entry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "read entries")
		}
		for len(row) < 4 {
			row = append(row, "")
		}
		e := Entry{
			Word:     strings.TrimSpace(row[0]),
			Tag:      strings.TrimSpace(row[1]),
			Particle: strings.TrimSpace(row[2]),
			Gloss:    strings.TrimSpace(row[3]),
		}
		if e.Word == "" && e.Tag == "" {
			continue
		}
		entries = append(entries, e)
	}
}
