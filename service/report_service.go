// service/report_service.go
package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/fundwire/logging"
	"github.com/dev-mohitbeniwal/fundwire/model"
	"github.com/dev-mohitbeniwal/fundwire/transport"
	"github.com/dev-mohitbeniwal/fundwire/wire"
)

// ReportFilter carries the caller's fetch parameters for the live call.
// Offline mode ignores it: the most recent backup snapshot is served
// unfiltered.
type ReportFilter struct {
	From        time.Time
	To          time.Time
	Action      string
	ContentType model.ContentType
	Identifiers []string
}

// Values renders the filter as transport query parameters.
func (f ReportFilter) Values() url.Values {
	params := url.Values{}
	if !f.From.IsZero() {
		params.Set("from", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		params.Set("to", f.To.Format("2006-01-02"))
	}
	if f.Action != "" {
		params.Set("action", f.Action)
	}
	if f.ContentType != "" {
		params.Set("contentType", string(f.ContentType))
	}
	for _, id := range f.Identifiers {
		params.Add("identifier", id)
	}
	return params
}

// ReportService runs the shared ingestion pipeline for the three report
// families. Each fetch produces its own independent entry list; nothing is
// cached or shared between ingestions.
type ReportService struct {
	client  transport.Client
	archive *transport.Archive
}

// NewReportService creates a new instance of ReportService
func NewReportService(client transport.Client, archive *transport.Archive) *ReportService {
	return &ReportService{client: client, archive: archive}
}

// Journal ingests the upload/download audit log.
func (s *ReportService) Journal(ctx context.Context, filter ReportFilter, offline bool) []*model.ReportEntry {
	return s.fetch(ctx, wire.JournalSpec, filter, offline)
}

// NewInformation ingests the "newly available data" notifications.
func (s *ReportService) NewInformation(ctx context.Context, filter ReportFilter, offline bool) []*model.ReportEntry {
	return s.fetch(ctx, wire.NewInformationSpec, filter, offline)
}

// DownloadedInformation ingests the "data downloaded by others" statistics.
func (s *ReportService) DownloadedInformation(ctx context.Context, filter ReportFilter, offline bool) []*model.ReportEntry {
	return s.fetch(ctx, wire.DownloadedInformationSpec, filter, offline)
}

// fetch selects the data source and parses it. Every failure on the read
// path degrades to an empty list with a warning; the UI shows a generic
// troubleshooting hint instead of a parser error.
func (s *ReportService) fetch(ctx context.Context, spec wire.ReportSpec, filter ReportFilter, offline bool) []*model.ReportEntry {
	var raw string
	if offline {
		content, err := s.archive.LatestBackup(transport.BackupTag(spec.DownloadMode))
		if err != nil {
			logger.Warn("No backup available for report",
				zap.String("family", string(spec.Family)), zap.Error(err))
			return []*model.ReportEntry{}
		}
		raw = content
	} else {
		content, err := s.client.Download(ctx, spec.DownloadMode, filter.Values())
		if err != nil {
			logger.Warn("Report download failed",
				zap.String("family", string(spec.Family)), zap.Error(err))
			return []*model.ReportEntry{}
		}
		if transport.IsErrorResponse(content) {
			logger.Warn("Report download rejected by remote service",
				zap.String("family", string(spec.Family)), zap.String("response", content))
			return []*model.ReportEntry{}
		}
		raw = content
	}

	return wire.ParseReportEntries(spec, raw)
}

// FilterEntries applies the free-text filter over the fixed ordered set of
// stringified fields: content type name, formatted dates, joined supplier
// list, identifier summary, type-specific detail, joined profile list.
// Matching is case-insensitive; empty text returns the input unchanged.
func FilterEntries(entries []*model.ReportEntry, text string) []*model.ReportEntry {
	if strings.TrimSpace(text) == "" {
		return entries
	}
	needle := strings.ToLower(text)

	matched := []*model.ReportEntry{}
	for _, entry := range entries {
		fields := []string{
			string(entry.ContentType),
			entry.FormattedContentDate(),
			entry.FormattedActionTime(),
			strings.Join(entry.Suppliers, ", "),
			entry.IdentifierSummary(),
			entry.DetailString(),
			strings.Join(entry.Profiles, ", "),
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), needle) {
				matched = append(matched, entry)
				break
			}
		}
	}
	return matched
}
