// wire/reports.go
package wire

import (
	"strings"
	"time"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/fundwire/logging"
	"github.com/dev-mohitbeniwal/fundwire/model"
	"github.com/dev-mohitbeniwal/fundwire/xmlutil"
)

const (
	tagContentDate   = "ContentDate"
	tagUser          = "User"
	tagIsin          = "Isin"
	tagDocumentType  = "DocumentType"
	tagListedType    = "ListedType"
	tagUnlistedType  = "UnlistedType"
	tagLanguage      = "Language"
	tagFormat        = "Format"
	tagReportingType = "ReportingType"

	contentDateLayout = "2006-01-02"
	actionTimeLayout  = "2006-01-02T15:04:05"
)

// ReportSpec parameterizes the shared ingestion decode for one report
// family: which element is one entry, which tag carries the action
// timestamp, and whether entries name an acting user (Journal only).
type ReportSpec struct {
	Family       model.ReportFamily
	EntryTag     string
	ActionTag    string
	DownloadMode string
	HasUser      bool
}

var (
	JournalSpec = ReportSpec{
		Family:       model.ReportJournal,
		EntryTag:     "JournalEntry",
		ActionTag:    "ActionTime",
		DownloadMode: "journal",
		HasUser:      true,
	}
	NewInformationSpec = ReportSpec{
		Family:       model.ReportNewInformation,
		EntryTag:     "AvailableData",
		ActionTag:    "UploadTime",
		DownloadMode: "newinformation",
	}
	DownloadedInformationSpec = ReportSpec{
		Family:       model.ReportDownloadedInfo,
		EntryTag:     "DownloadedData",
		ActionTag:    "DownloadTime",
		DownloadMode: "downloadedinformation",
	}
)

// ParseReportEntries decodes one report response into entries. Empty or
// malformed input yields an empty list with a warning. Field extraction is
// defensive: a single missing or unparsable field is logged and left at
// its zero value, it never drops the entry or aborts the batch.
func ParseReportEntries(spec ReportSpec, raw string) []*model.ReportEntry {
	entries := []*model.ReportEntry{}

	doc, err := xmlutil.Parse(raw)
	if err != nil {
		logger.Warn("Report response is empty or not XML",
			zap.String("family", string(spec.Family)), zap.Error(err))
		return entries
	}

	for _, el := range xmlutil.FindAll(&doc.Element, spec.EntryTag) {
		entry := &model.ReportEntry{
			ContentType: model.ParseContentType(xmlutil.TextOf(el, tagContentType)),
			LEI:         xmlutil.TextOf(el, tagLEI),
			OenbID:      xmlutil.TextOf(el, tagOenbID),
		}

		entry.ContentDate = parseEntryTime(spec, tagContentDate, contentDateLayout, xmlutil.TextOf(el, tagContentDate))
		entry.ActionTime = parseEntryTime(spec, spec.ActionTag, actionTimeLayout, xmlutil.TextOf(el, spec.ActionTag))

		for _, sup := range xmlutil.FindAll(el, tagDataSupplier) {
			if short := xmlutil.TextOf(sup, tagShort); short != "" {
				entry.Suppliers = append(entry.Suppliers, short)
			}
		}
		for _, isin := range xmlutil.FindAll(el, tagIsin) {
			if text := strings.TrimSpace(isin.Text()); text != "" {
				entry.ISINs = append(entry.ISINs, text)
			}
		}
		for _, profile := range xmlutil.FindAll(el, tagProfile) {
			if text := strings.TrimSpace(profile.Text()); text != "" {
				entry.Profiles = append(entry.Profiles, text)
			}
		}
		if spec.HasUser {
			entry.User = xmlutil.TextOf(el, tagUser)
		}

		switch entry.ContentType {
		case model.ContentTypeDoc:
			docType := xmlutil.NestedTextOf(el, tagDocumentType, tagListedType)
			if docType == "" {
				docType = xmlutil.NestedTextOf(el, tagDocumentType, tagUnlistedType)
			}
			entry.Doc = &model.DocDetail{
				Type:     docType,
				Language: xmlutil.TextOf(el, tagLanguage),
				Format:   xmlutil.TextOf(el, tagFormat),
			}
		case model.ContentTypeReg:
			entry.Reg = &model.RegDetail{
				ReportingType: xmlutil.TextOf(el, tagReportingType),
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

func parseEntryTime(spec ReportSpec, tag, layout, text string) time.Time {
	if text == "" {
		return time.Time{}
	}
	t, err := time.Parse(layout, text)
	if err != nil {
		logger.Warn("Unparsable timestamp in report entry, leaving empty",
			zap.String("family", string(spec.Family)),
			zap.String("tag", tag),
			zap.String("value", text))
		return time.Time{}
	}
	return t
}
