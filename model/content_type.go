// model/content_type.go
package model

// ContentType classifies every rule and report entry exchanged with the
// data provider.
type ContentType string

const (
	ContentTypeFund ContentType = "FUND"
	ContentTypeDoc  ContentType = "DOC"
	ContentTypeReg  ContentType = "REG"
)

// ParseContentType maps the wire text onto the enumeration. Unknown text is
// returned as-is so that defensive report parsing can keep the raw value.
func ParseContentType(s string) ContentType {
	switch s {
	case string(ContentTypeFund):
		return ContentTypeFund
	case string(ContentTypeDoc):
		return ContentTypeDoc
	case string(ContentTypeReg):
		return ContentTypeReg
	default:
		return ContentType(s)
	}
}

// Frequency is the delivery schedule of an access rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyMonthly Frequency = "monthly"
)
