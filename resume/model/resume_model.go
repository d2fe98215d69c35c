package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names a scalar or list of ExtractedResumeData. The names match the JSON keys.
type Field string

const (
	FieldName             Field = "name"
	FieldNameKana         Field = "nameKana"
	FieldBirthDate        Field = "birthDate"
	FieldGender           Field = "gender"
	FieldAge              Field = "age"
	FieldAddress          Field = "address"
	FieldAddressKana      Field = "addressKana"
	FieldPostalCode       Field = "postalCode"
	FieldPhoneNumber      Field = "phoneNumber"
	FieldEmail            Field = "email"
	FieldHealthCondition  Field = "healthCondition"
	FieldHobbies          Field = "hobbies"
	FieldNearestStation   Field = "nearestStation"
	FieldDependents       Field = "dependents"
	FieldHasSpouse        Field = "hasSpouse"
	FieldSupportingSpouse Field = "supportingSpouse"

	FieldWrittenDate        Field = "writtenDate"
	FieldMobilePhone        Field = "mobilePhone"
	FieldContactAddress     Field = "contactAddress"
	FieldContactAddressKana Field = "contactAddressKana"
	FieldContactPostalCode  Field = "contactPostalCode"
	FieldContactPhone       Field = "contactPhone"
	FieldContactEmail       Field = "contactEmail"
	FieldMotivation         Field = "motivation"
	FieldRequests           Field = "requests"

	FieldEducationHistory Field = "educationHistory"
	FieldWorkHistory      Field = "workHistory"
	FieldLicenses         Field = "licenses"
)

// ScalarFields lists every single-valued field in declaration order.
var ScalarFields = []Field{
	FieldName, FieldNameKana, FieldBirthDate, FieldGender, FieldAge,
	FieldAddress, FieldAddressKana, FieldPostalCode, FieldPhoneNumber, FieldEmail,
	FieldHealthCondition, FieldHobbies, FieldNearestStation, FieldDependents,
	FieldHasSpouse, FieldSupportingSpouse,
	FieldWrittenDate, FieldMobilePhone, FieldContactAddress, FieldContactAddressKana,
	FieldContactPostalCode, FieldContactPhone, FieldContactEmail, FieldMotivation, FieldRequests,
}

// ListFields lists the repeated-entry sections.
var ListFields = []Field{FieldEducationHistory, FieldWorkHistory, FieldLicenses}

// Entry is one dated row of a history section.
type Entry struct {
	Year        string `json:"year"`
	Month       string `json:"month"`
	Description string `json:"description"`
}

// ExtractedResumeData is the structured view of a 履歴書. A nil field means the
// value was not found, which is different from an empty match.
type ExtractedResumeData struct {
	Name             *string `json:"name,omitempty"`
	NameKana         *string `json:"nameKana,omitempty"`
	BirthDate        *string `json:"birthDate,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	Age              *int    `json:"age,omitempty"`
	Address          *string `json:"address,omitempty"`
	AddressKana      *string `json:"addressKana,omitempty"`
	PostalCode       *string `json:"postalCode,omitempty"`
	PhoneNumber      *string `json:"phoneNumber,omitempty"`
	Email            *string `json:"email,omitempty"`
	HealthCondition  *string `json:"healthCondition,omitempty"`
	Hobbies          *string `json:"hobbies,omitempty"`
	NearestStation   *string `json:"nearestStation,omitempty"`
	Dependents       *int    `json:"dependents,omitempty"`
	HasSpouse        *bool   `json:"hasSpouse,omitempty"`
	SupportingSpouse *bool   `json:"supportingSpouse,omitempty"`

	// The 連絡先 block is only filled when it differs from the current address.
	WrittenDate        *string `json:"writtenDate,omitempty"`
	MobilePhone        *string `json:"mobilePhone,omitempty"`
	ContactAddress     *string `json:"contactAddress,omitempty"`
	ContactAddressKana *string `json:"contactAddressKana,omitempty"`
	ContactPostalCode  *string `json:"contactPostalCode,omitempty"`
	ContactPhone       *string `json:"contactPhone,omitempty"`
	ContactEmail       *string `json:"contactEmail,omitempty"`
	Motivation         *string `json:"motivation,omitempty"`
	Requests           *string `json:"requests,omitempty"`

	EducationHistory []Entry `json:"educationHistory,omitempty"`
	WorkHistory      []Entry `json:"workHistory,omitempty"`
	Licenses         []Entry `json:"licenses,omitempty"`
}

// Scalar returns the value of a single-valued field and whether it is set.
// The value is a string, int or bool depending on the field.
func (d ExtractedResumeData) Scalar(f Field) (any, bool) {
	switch f {
	case FieldName:
		return str(d.Name)
	case FieldNameKana:
		return str(d.NameKana)
	case FieldBirthDate:
		return str(d.BirthDate)
	case FieldGender:
		return str(d.Gender)
	case FieldAge:
		return num(d.Age)
	case FieldAddress:
		return str(d.Address)
	case FieldAddressKana:
		return str(d.AddressKana)
	case FieldPostalCode:
		return str(d.PostalCode)
	case FieldPhoneNumber:
		return str(d.PhoneNumber)
	case FieldEmail:
		return str(d.Email)
	case FieldHealthCondition:
		return str(d.HealthCondition)
	case FieldHobbies:
		return str(d.Hobbies)
	case FieldNearestStation:
		return str(d.NearestStation)
	case FieldDependents:
		return num(d.Dependents)
	case FieldHasSpouse:
		return flag(d.HasSpouse)
	case FieldSupportingSpouse:
		return flag(d.SupportingSpouse)
	case FieldWrittenDate:
		return str(d.WrittenDate)
	case FieldMobilePhone:
		return str(d.MobilePhone)
	case FieldContactAddress:
		return str(d.ContactAddress)
	case FieldContactAddressKana:
		return str(d.ContactAddressKana)
	case FieldContactPostalCode:
		return str(d.ContactPostalCode)
	case FieldContactPhone:
		return str(d.ContactPhone)
	case FieldContactEmail:
		return str(d.ContactEmail)
	case FieldMotivation:
		return str(d.Motivation)
	case FieldRequests:
		return str(d.Requests)
	}
	return nil, false
}

// List returns the entries of a repeated-entry section.
func (d ExtractedResumeData) List(f Field) []Entry {
	switch f {
	case FieldEducationHistory:
		return d.EducationHistory
	case FieldWorkHistory:
		return d.WorkHistory
	case FieldLicenses:
		return d.Licenses
	}
	return nil
}

// Set assigns a scalar from its raw text form. Integer fields parse base 10;
// boolean fields are true when the text contains "あり".
func (d *ExtractedResumeData) Set(f Field, raw string) error {
	switch f {
	case FieldName:
		d.Name = &raw
	case FieldNameKana:
		d.NameKana = &raw
	case FieldBirthDate:
		d.BirthDate = &raw
	case FieldGender:
		d.Gender = &raw
	case FieldAge, FieldDependents:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		if f == FieldAge {
			d.Age = &n
		} else {
			d.Dependents = &n
		}
	case FieldAddress:
		d.Address = &raw
	case FieldAddressKana:
		d.AddressKana = &raw
	case FieldPostalCode:
		d.PostalCode = &raw
	case FieldPhoneNumber:
		d.PhoneNumber = &raw
	case FieldEmail:
		d.Email = &raw
	case FieldHealthCondition:
		d.HealthCondition = &raw
	case FieldHobbies:
		d.Hobbies = &raw
	case FieldNearestStation:
		d.NearestStation = &raw
	case FieldWrittenDate:
		d.WrittenDate = &raw
	case FieldMobilePhone:
		d.MobilePhone = &raw
	case FieldContactAddress:
		d.ContactAddress = &raw
	case FieldContactAddressKana:
		d.ContactAddressKana = &raw
	case FieldContactPostalCode:
		d.ContactPostalCode = &raw
	case FieldContactPhone:
		d.ContactPhone = &raw
	case FieldContactEmail:
		d.ContactEmail = &raw
	case FieldMotivation:
		d.Motivation = &raw
	case FieldRequests:
		d.Requests = &raw
	case FieldHasSpouse, FieldSupportingSpouse:
		v := ContainsPresent(raw)
		if f == FieldHasSpouse {
			d.HasSpouse = &v
		} else {
			d.SupportingSpouse = &v
		}
	default:
		return fmt.Errorf("unknown scalar field %q", f)
	}
	return nil
}

// SetList assigns the entries of a repeated-entry section.
func (d *ExtractedResumeData) SetList(f Field, entries []Entry) error {
	set, ok := ListSetter(f)
	if !ok {
		return fmt.Errorf("unknown list field %q", f)
	}
	set(d, entries)
	return nil
}

// ListSetter returns the assignment for a repeated-entry section, or false
// when f is not one.
func ListSetter(f Field) (func(*ExtractedResumeData, []Entry), bool) {
	switch f {
	case FieldEducationHistory:
		return func(d *ExtractedResumeData, e []Entry) { d.EducationHistory = e }, true
	case FieldWorkHistory:
		return func(d *ExtractedResumeData, e []Entry) { d.WorkHistory = e }, true
	case FieldLicenses:
		return func(d *ExtractedResumeData, e []Entry) { d.Licenses = e }, true
	}
	return nil, false
}

// ContainsPresent reports whether a yes/no token means "present".
func ContainsPresent(token string) bool {
	return strings.Contains(token, "あり")
}

func str(p *string) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

func num(p *int) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

func flag(p *bool) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}
