package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"resume-ocr/resume/model"
)

// separator sits between a label and its value: an optional colon wrapped in
// whitespace (including the ideographic space), markdown emphasis or table pipes.
const separator = `[\s\x{3000}|*]*[:：]?[\s\x{3000}|*]*`

// rule describes how one scalar field is found. Either pattern is set, or the
// pattern is built from label and value.
type rule struct {
	field model.Field
	// label is a regexp alternation matched immediately before the value.
	label string
	// value is the capture for the value; empty means the rest of the cell,
	// stopping at a newline, a table pipe or any rune in stop.
	value string
	stop  string
	// occurrence selects the nth match (1-based); zero means the first.
	occurrence int
	// within searches the captured text of another field instead of the document.
	within  model.Field
	pattern string
}

var scalarRules = []rule{
	{field: model.FieldName, label: `氏[ \x{3000}]*名`},
	{field: model.FieldNameKana, label: `ふりがな|フリガナ`, occurrence: 1},
	{field: model.FieldAddressKana, label: `ふりがな|フリガナ`, occurrence: 2},
	{field: model.FieldBirthDate, label: `生年月日`, stop: `(（`},
	{field: model.FieldAge, pattern: `生年月日[^\n]*?[(（][\s\x{3000}]*満[\s\x{3000}]*(\d+)[\s\x{3000}]*歳`},
	{field: model.FieldGender, label: `性[ \x{3000}]*別`, value: `男|女`},
	{field: model.FieldAddress, label: `現住所`, stop: `(（`},
	{field: model.FieldPostalCode, within: model.FieldAddress, pattern: `〒\s*(\d{3}-\d{4})`},
	{field: model.FieldPhoneNumber, label: `電話番号`},
	{field: model.FieldEmail, label: `(?i:e-?mail)`},
	{field: model.FieldHealthCondition, label: `健康状態`},
	{field: model.FieldHobbies, label: `趣味(?:・特技)?`},
	{field: model.FieldNearestStation, label: `最寄り?駅`},
	{field: model.FieldDependents, label: `扶養家族数[\s\x{3000}|*]*[(（]配偶者を除く[)）]`, value: `\d+`},
	{field: model.FieldHasSpouse, label: `配偶者`, value: `あり|なし`},
	{field: model.FieldSupportingSpouse, label: `配偶者の扶養義務`, value: `あり|なし`},
	{field: model.FieldWrittenDate, pattern: `((?:令和|平成)?[0-9０-９元]+[ \x{3000}]*年[ \x{3000}]*[0-9０-９]+[ \x{3000}]*月[ \x{3000}]*[0-9０-９]+[ \x{3000}]*日)[ \x{3000}]*現在`},
	{field: model.FieldMobilePhone, label: `携帯(?:電話)?(?:番号)?`},
	{field: model.FieldContactAddressKana, label: `ふりがな|フリガナ`, occurrence: 3},
	// the form's own hint "連絡先（現住所以外に…）" and the 連絡先電話/E-mail rows are not addresses
	{field: model.FieldContactAddress, pattern: `連絡先(?:住所)?` + separator + `([^\s|(（電EeＥ][^\n|(（]*)`},
	{field: model.FieldContactPostalCode, within: model.FieldContactAddress, pattern: `〒\s*(\d{3}-\d{4})`},
	{field: model.FieldContactPhone, label: `連絡先電話(?:番号)?`},
	{field: model.FieldContactEmail, label: `(?i:e-?mail)`, occurrence: 2},
	{field: model.FieldMotivation, label: `志望(?:の)?動機`},
	{field: model.FieldRequests, label: `本人希望(?:記入)?欄?`},
}

// section describes a repeated-entry block: a header on its own line, then a
// body running to the nearest other section header, one of sectionEnds, or
// the end of the text.
type section struct {
	field  model.Field
	header string
}

var sectionRules = []section{
	{field: model.FieldEducationHistory, header: `学歴`},
	{field: model.FieldWorkHistory, header: `職歴`},
	{field: model.FieldLicenses, header: `免許・資格`},
}

// sectionEnds close any section without starting one.
var sectionEnds = []string{`健康状態`, `趣味`}

var (
	// entryPattern is the lenient scan for dated rows.
	entryPattern = regexp.MustCompile(`[0-9０-９]+[ \t\x{3000}]*年[ \t\x{3000}]*[0-9０-９]+[ \t\x{3000}]*月[^\n]*`)
	// entryParts is the strict year/month/description decomposition.
	entryParts = regexp.MustCompile(`^([0-9]+)年([0-9]+)月\s*(.*)$`)
)

type compiledRule struct {
	rule
	re *regexp.Regexp
}

type compiledSection struct {
	section
	re  *regexp.Regexp
	set func(*model.ExtractedResumeData, []model.Entry)
}

var (
	compiledScalars  = compileScalars(scalarRules)
	compiledSections = compileSections(sectionRules)
)

func compileScalars(rules []rule) []compiledRule {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, compiledRule{rule: r, re: regexp.MustCompile(r.expr())})
	}
	return out
}

func (r rule) expr() string {
	if r.pattern != "" {
		return r.pattern
	}
	value := r.value
	if value == "" {
		value = `[^\n|` + r.stop + `]+`
	}
	return `(?:` + r.label + `)` + separator + `(` + value + `)`
}

func compileSections(sections []section) []compiledSection {
	out := make([]compiledSection, 0, len(sections))
	for _, s := range sections {
		set, ok := model.ListSetter(s.field)
		if !ok {
			panic(fmt.Sprintf("extractor: section %s targets non-list field %q", s.header, s.field))
		}
		expr := `(?m)^[ \t\x{3000}|#*]*` + s.header + `[ \t\x{3000}|*]*\n([\s\S]*?)(?:` + terminators(sections, s) + `|\z)`
		out = append(out, compiledSection{section: s, re: regexp.MustCompile(expr), set: set})
	}
	return out
}

// terminators excludes the section's own header so a section never ends on
// itself; any other header closes it whatever the document order.
func terminators(sections []section, own section) string {
	alts := make([]string, 0, len(sections)+len(sectionEnds))
	for _, s := range sections {
		if s.header != own.header {
			alts = append(alts, s.header)
		}
	}
	alts = append(alts, sectionEnds...)
	return strings.Join(alts, "|")
}
