package history

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/integralcalc/symbolic"
)

// Codec converts records to and from a history file.
type Codec interface {
	Name() string
	Encode(w io.Writer, records []Record) error
	// Decode returns the records it recovered and the number of blocks it
	// had to skip.
	Decode(r io.Reader) ([]Record, int, error)
}

// CodecFor maps the history.format setting to a codec.
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return TextCodec{}, nil
	case "strict", "yaml":
		return YAMLCodec{}, nil
	}
	return nil, fmt.Errorf("unknown history format %q", format)
}

// ============================================================
// Delimiter-block text format
// ============================================================

const (
	labelFunction   = "Función: "
	labelLimits     = "Límites: "
	labelIndefinite = "Integral Indefinida: "
	labelDefinite   = "Resultado Definido: "
	limitSeparator  = " a "
)

// Delimiter ends every block of the text format.
var Delimiter = strings.Repeat("-", 40)

// TextCodec is the human-readable format: four labelled lines per record
// followed by the delimiter line. Typed values are not stored.
type TextCodec struct{}

func (TextCodec) Name() string { return "text" }

func (TextCodec) Encode(w io.Writer, records []Record) error {
	var b bytes.Buffer
	for _, r := range records {
		b.WriteString(labelFunction + r.Function + "\n")
		b.WriteString(labelLimits + r.Lower + limitSeparator + r.Upper + "\n")
		b.WriteString(labelIndefinite + r.Indefinite + "\n")
		b.WriteString(labelDefinite + r.Definite + "\n")
		b.WriteString(Delimiter + "\n")
	}
	_, err := w.Write(b.Bytes())
	return err
}

// Decode splits on the delimiter line. A block with fewer than four lines,
// whose limits line has no separator, or with an empty field is skipped
// and counted.
func (TextCodec) Decode(r io.Reader) ([]Record, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	var records []Record
	skipped := 0
	for _, block := range strings.Split(content, Delimiter+"\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		rec, ok := decodeBlock(block)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func decodeBlock(block string) (Record, bool) {
	parts := strings.Split(block, "\n")
	if len(parts) < 4 {
		return Record{}, false
	}
	lower, upper, ok := strings.Cut(field(parts[1], labelLimits), limitSeparator)
	if !ok {
		return Record{}, false
	}
	rec := Record{
		Function:   field(parts[0], labelFunction),
		Lower:      lower,
		Upper:      upper,
		Indefinite: field(parts[2], labelIndefinite),
		Definite:   field(parts[3], labelDefinite),
	}
	if rec.Validate() != nil {
		return Record{}, false
	}
	if v, ok := rec.Number(); ok {
		rec.Value = v
	}
	return rec, true
}

// field strips label from line. A field left empty may have lost the
// label's trailing space to trimming.
func field(line, label string) string {
	return strings.TrimPrefix(strings.TrimPrefix(line, label), strings.TrimSpace(label))
}

// ============================================================
// Strict YAML format
// ============================================================

// YAMLCodec keeps typed values: the float result and the expression trees
// of the antiderivative and the exact result. Any malformed entry fails the
// whole decode.
type YAMLCodec struct{}

type yamlRecord struct {
	ID             string                 `yaml:"id,omitempty"`
	Function       string                 `yaml:"function"`
	Lower          string                 `yaml:"lower"`
	Upper          string                 `yaml:"upper"`
	Indefinite     string                 `yaml:"indefinite"`
	Definite       string                 `yaml:"definite"`
	Value          float64                `yaml:"value"`
	Antiderivative map[string]interface{} `yaml:"antiderivative,omitempty"`
	Exact          map[string]interface{} `yaml:"exact,omitempty"`
}

func (YAMLCodec) Name() string { return "strict" }

func (YAMLCodec) Encode(w io.Writer, records []Record) error {
	out := make([]yamlRecord, len(records))
	for i, r := range records {
		yr := yamlRecord{
			ID:         r.ID,
			Function:   r.Function,
			Lower:      r.Lower,
			Upper:      r.Upper,
			Indefinite: r.Indefinite,
			Definite:   r.Definite,
			Value:      r.Value,
		}
		if r.Antiderivative != nil {
			yr.Antiderivative = symbolic.ToMap(r.Antiderivative)
		}
		if r.Exact != nil {
			yr.Exact = symbolic.ToMap(r.Exact)
		}
		out[i] = yr
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func (YAMLCodec) Decode(r io.Reader) ([]Record, int, error) {
	var in []yamlRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("malformed history file: %w", err)
	}
	records := make([]Record, len(in))
	for i, yr := range in {
		rec := Record{
			ID:         yr.ID,
			Function:   yr.Function,
			Lower:      yr.Lower,
			Upper:      yr.Upper,
			Indefinite: yr.Indefinite,
			Definite:   yr.Definite,
			Value:      yr.Value,
		}
		if err := rec.Validate(); err != nil {
			return nil, 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
		var err error
		if yr.Antiderivative != nil {
			if rec.Antiderivative, err = symbolic.FromMap(yr.Antiderivative); err != nil {
				return nil, 0, fmt.Errorf("entry %d: antiderivative: %w", i+1, err)
			}
		}
		if yr.Exact != nil {
			if rec.Exact, err = symbolic.FromMap(yr.Exact); err != nil {
				return nil, 0, fmt.Errorf("entry %d: exact: %w", i+1, err)
			}
		}
		records[i] = rec
	}
	return records, 0, nil
}
