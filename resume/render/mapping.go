package render

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"resume-ocr/resume/model"
)

//go:embed mapping.yaml
var defaultMappingYAML []byte

// ErrInvalidMapping wraps every mapping validation failure.
var ErrInvalidMapping = errors.New("invalid cell mapping")

// Mapping places ExtractedResumeData fields on a worksheet.
type Mapping struct {
	Sheet     string       `yaml:"sheet"`
	TrueText  string       `yaml:"trueText"`
	FalseText string       `yaml:"falseText"`
	Cells     []CellTarget `yaml:"cells"`
	Regions   []Region     `yaml:"regions"`
}

// CellTarget writes one scalar field into one cell.
type CellTarget struct {
	Field model.Field `yaml:"field"`
	Cell  string      `yaml:"cell"`
	Label string      `yaml:"label"`
}

// Region writes a history list one row per entry from StartRow downwards.
// MaxRows caps the rows written; zero means no cap.
type Region struct {
	Field       model.Field `yaml:"field"`
	Title       string      `yaml:"title"`
	StartRow    int         `yaml:"startRow"`
	Year        string      `yaml:"year"`
	Month       string      `yaml:"month"`
	Description string      `yaml:"description"`
	MaxRows     int         `yaml:"maxRows"`
}

// DefaultMapping returns the embedded layout.
func DefaultMapping() Mapping {
	m, err := LoadMapping(bytes.NewReader(defaultMappingYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded mapping: %v", err))
	}
	return m
}

// LoadMapping decodes and validates a YAML mapping.
func LoadMapping(r io.Reader) (Mapping, error) {
	var m Mapping
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Mapping{}, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	if m.TrueText == "" {
		m.TrueText = "あり"
	}
	if m.FalseText == "" {
		m.FalseText = "なし"
	}
	if err := m.Validate(); err != nil {
		return Mapping{}, err
	}
	return m, nil
}

// Validate checks sheet name, field names and cell references.
func (m Mapping) Validate() error {
	if strings.TrimSpace(m.Sheet) == "" {
		return fmt.Errorf("%w: sheet is required", ErrInvalidMapping)
	}
	scalars := fieldSet(model.ScalarFields)
	lists := fieldSet(model.ListFields)
	for i, c := range m.Cells {
		if _, ok := scalars[c.Field]; !ok {
			return fmt.Errorf("%w: cells[%d]: unknown field %q", ErrInvalidMapping, i, c.Field)
		}
		if _, _, err := excelize.CellNameToCoordinates(c.Cell); err != nil {
			return fmt.Errorf("%w: cells[%d]: %v", ErrInvalidMapping, i, err)
		}
	}
	for i, r := range m.Regions {
		if _, ok := lists[r.Field]; !ok {
			return fmt.Errorf("%w: regions[%d]: unknown field %q", ErrInvalidMapping, i, r.Field)
		}
		if r.StartRow < 1 {
			return fmt.Errorf("%w: regions[%d]: startRow must be positive", ErrInvalidMapping, i)
		}
		if r.MaxRows < 0 {
			return fmt.Errorf("%w: regions[%d]: maxRows must not be negative", ErrInvalidMapping, i)
		}
		for _, col := range []string{r.Year, r.Month, r.Description} {
			if _, err := excelize.ColumnNameToNumber(col); err != nil {
				return fmt.Errorf("%w: regions[%d]: %v", ErrInvalidMapping, i, err)
			}
		}
	}
	return nil
}

func fieldSet(fields []model.Field) map[model.Field]struct{} {
	out := make(map[model.Field]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}
