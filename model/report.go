// model/report.go
package model

import (
	"fmt"
	"strings"
	"time"
)

// ReportFamily names one of the three report ingestion pipelines.
type ReportFamily string

const (
	ReportJournal        ReportFamily = "Journal"
	ReportNewInformation ReportFamily = "NewInformation"
	ReportDownloadedInfo ReportFamily = "DownloadedInformation"
)

// DocDetail carries the DOC-specific payload of a report entry.
type DocDetail struct {
	Type     string
	Language string
	Format   string
}

// RegDetail carries the REG-specific payload of a report entry.
type RegDetail struct {
	ReportingType string
}

// ReportEntry is one parsed row of a Journal, NewInformation or
// DownloadedInformation response. Entries are value objects: created by
// the parser, never mutated, discarded on refresh.
//
// At most one of Doc/Reg is populated, keyed by ContentType; which one is
// authoritative is decided by DetailString.
type ReportEntry struct {
	ContentType ContentType

	ContentDate time.Time
	ActionTime  time.Time

	Suppliers []string
	User      string

	LEI      string
	OenbID   string
	ISINs    []string
	Profiles []string

	Doc *DocDetail
	Reg *RegDetail
}

const contentDateLayout = "2006-01-02"
const actionTimeLayout = "2006-01-02T15:04:05"

// DetailString renders the type-specific payload. The switch over the
// content types is total: an unrecognized value is a logic error and
// panics, unlike the tolerant field-level parsing that produced the entry.
func (e *ReportEntry) DetailString() string {
	switch e.ContentType {
	case ContentTypeFund:
		return ""
	case ContentTypeDoc:
		if e.Doc == nil {
			return ""
		}
		return fmt.Sprintf("%s (%s)", e.Doc.Type, e.Doc.Language)
	case ContentTypeReg:
		if e.Reg == nil {
			return ""
		}
		return e.Reg.ReportingType
	default:
		panic(fmt.Sprintf("unhandled content type %q", e.ContentType))
	}
}

// IdentifierSummary joins the identifier payload for display and filtering.
func (e *ReportEntry) IdentifierSummary() string {
	parts := make([]string, 0, 2+len(e.ISINs))
	if e.LEI != "" {
		parts = append(parts, e.LEI)
	}
	if e.OenbID != "" {
		parts = append(parts, e.OenbID)
	}
	parts = append(parts, e.ISINs...)
	return strings.Join(parts, ", ")
}

// FormattedContentDate renders the content date, empty when unparsed.
func (e *ReportEntry) FormattedContentDate() string {
	if e.ContentDate.IsZero() {
		return ""
	}
	return e.ContentDate.Format(contentDateLayout)
}

// FormattedActionTime renders the action timestamp, empty when unparsed.
func (e *ReportEntry) FormattedActionTime() string {
	if e.ActionTime.IsZero() {
		return ""
	}
	return e.ActionTime.Format(actionTimeLayout)
}
