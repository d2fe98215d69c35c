package render

import "github.com/xuri/excelize/v2"

const (
	HeadingColor = "1F2937"
	LabelColor   = "4B5563"
	TitleSize    = 18
	HeadingSize  = 12
	BodySize     = 10.5
	BodyFont     = "Yu Gothic"
)

// styleSpec is the formatting applied to one role of cell in the blank template.
type styleSpec struct {
	Bold  bool
	Size  float64
	Color string
	Fill  string
}

// StyleMap centralizes the formatting of the generated template.
var StyleMap = map[string]styleSpec{
	"title":   {Bold: true, Size: TitleSize, Color: HeadingColor},
	"heading": {Bold: true, Size: HeadingSize, Color: HeadingColor, Fill: "E5E7EB"},
	"label":   {Size: BodySize, Color: LabelColor},
	"value":   {Size: BodySize},
}

func (s styleSpec) toStyle() *excelize.Style {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:   s.Bold,
			Size:   s.Size,
			Color:  s.Color,
			Family: BodyFont,
		},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	}
	if s.Fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}
	return style
}

func registerStyles(f *excelize.File) (map[string]int, error) {
	ids := make(map[string]int, len(StyleMap))
	for name, spec := range StyleMap {
		id, err := f.NewStyle(spec.toStyle())
		if err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, nil
}
