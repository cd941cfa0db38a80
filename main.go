package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/fundwire/audit"
	"github.com/dev-mohitbeniwal/fundwire/config"
	logger "github.com/dev-mohitbeniwal/fundwire/logging"
	"github.com/dev-mohitbeniwal/fundwire/model"
	"github.com/dev-mohitbeniwal/fundwire/service"
	"github.com/dev-mohitbeniwal/fundwire/transport"
	"github.com/dev-mohitbeniwal/fundwire/util"
	"github.com/dev-mohitbeniwal/fundwire/wire"
)

const usage = `usage: fundwire <command> [flags]

commands:
  rules       list access rules (received or granted)
  save        validate and save one access rule (delete + reimport)
  journal     ingest the journal report
  newinfo     ingest the newly-available-data report
  downloaded  ingest the downloaded-by-others report
  auditlog    show recorded offline saves
`

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	cfg := config.GetConfig()

	archive := transport.NewArchive(cfg.Backup.Dir, cfg.Connection.Environment, cfg.Supplier.Short)
	client, err := transport.NewHTTPClient(cfg.Connection.ServerURL, cfg.Connection.ProxyURL, archive)
	if err != nil {
		logger.Fatal("Failed to initialize transport", zap.Error(err))
	}

	auditRepository, err := audit.NewFileRepository(cfg.Backup.Dir)
	if err != nil {
		logger.Fatal("Failed to initialize save log", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	validationUtil := util.NewValidationUtil()
	services := service.InitializeServices(client, archive, auditService, validationUtil)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "rules":
		runRules(ctx, services)
	case "save":
		runSave(ctx, services)
	case "journal":
		runReport(ctx, services, "journal")
	case "newinfo":
		runReport(ctx, services, "newinfo")
	case "downloaded":
		runReport(ctx, services, "downloaded")
	case "auditlog":
		runAuditLog(ctx, auditService)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// saveSettings snapshots the settings store for one operation. The store
// has no change notification, so every command re-reads it.
func saveSettings() service.SaveSettings {
	cfg := config.GetConfig()
	return service.SaveSettings{
		Supplier: model.DataSupplier{Short: cfg.Supplier.Short, Name: cfg.Supplier.Name},
		Contact: wire.Contact{
			Name:  cfg.Contact.Name,
			Phone: cfg.Contact.Phone,
			Email: cfg.Contact.Email,
		},
		Offline: cfg.Offline(),
	}
}

func runRules(ctx context.Context, services *service.Services) {
	flags := flag.NewFlagSet("rules", flag.ExitOnError)
	granted := flags.Bool("granted", false, "list rules granted by this supplier instead of received ones")
	flags.Parse(os.Args[2:])

	settings := saveSettings()
	var rules []*model.AccessRule
	if *granted {
		rules = services.Rules.ListGranted(ctx, settings)
	} else {
		rules = services.Rules.ListReceived(ctx, settings)
	}

	for _, r := range rules {
		fmt.Printf("%s\t%s\t%s\t%s..%s\t%s\tobjects=%d\n",
			r.ID, r.ContentType, strings.Join(r.Profiles, ","),
			r.DateFrom, r.DateTo, r.Frequency, r.ScopeObjectCount())
	}
}

func runSave(ctx context.Context, services *service.Services) {
	flags := flag.NewFlagSet("save", flag.ExitOnError)
	id := flags.String("id", "", "rule id; empty creates a draft with a temporary id")
	contentType := flags.String("content-type", "", "FUND, DOC or REG")
	receivers := flags.StringSlice("receiver", nil, "receiver short code (repeatable)")
	profiles := flags.StringSlice("profile", nil, "profile name (repeatable)")
	leis := flags.StringSlice("lei", nil, "LEI scope object (repeatable)")
	oenbIDs := flags.StringSlice("oenb-id", nil, "OeNB-ID scope object (repeatable)")
	isinsSegment := flags.StringSlice("isin-segment", nil, "segment ISIN scope object (repeatable)")
	isinsShareClass := flags.StringSlice("isin-share-class", nil, "share-class ISIN scope object (repeatable)")
	dateFrom := flags.String("date-from", "", "access start date (YYYY-MM-DD)")
	dateTo := flags.String("date-to", "", "access end date (YYYY-MM-DD)")
	frequency := flags.String("frequency", "monthly", "daily or monthly")
	delay := flags.Int("delay", 0, "access delay in days (0-365)")
	costs := flags.String("costs", "false", "costs carried by the data supplier")
	flags.Parse(os.Args[2:])

	rule := model.NewDraftRule()
	if *id != "" {
		rule.ID = *id
	}
	rule.ContentType = model.ParseContentType(*contentType)
	rule.Receivers = *receivers
	rule.Profiles = *profiles
	rule.LEIs = *leis
	rule.OenbIDs = *oenbIDs
	rule.IsinsSegment = *isinsSegment
	rule.IsinsShareClass = *isinsShareClass
	rule.DateFrom = *dateFrom
	rule.DateTo = *dateTo
	rule.Frequency = model.Frequency(*frequency)
	rule.AccessDelayDays = *delay
	rule.CostsByDataSupplier = *costs

	if err := services.Rules.Save(ctx, rule, saveSettings()); err != nil {
		fmt.Fprintf(os.Stderr, "save failed:\n%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("rule %s saved\n", rule.ID)
}

func runReport(ctx context.Context, services *service.Services, family string) {
	flags := flag.NewFlagSet(family, flag.ExitOnError)
	from := flags.String("from", "", "start date (YYYY-MM-DD)")
	to := flags.String("to", "", "end date (YYYY-MM-DD)")
	action := flags.String("action", "", "action filter (journal only)")
	contentType := flags.String("content-type", "", "FUND, DOC or REG")
	identifiers := flags.StringSlice("identifier", nil, "identifier filter (repeatable)")
	filterText := flags.String("filter", "", "free-text filter over the parsed rows")
	flags.Parse(os.Args[2:])

	filter := service.ReportFilter{
		Action:      *action,
		ContentType: model.ParseContentType(*contentType),
		Identifiers: *identifiers,
	}
	if t, err := time.Parse("2006-01-02", *from); err == nil {
		filter.From = t
	}
	if t, err := time.Parse("2006-01-02", *to); err == nil {
		filter.To = t
	}

	offline := saveSettings().Offline
	var entries []*model.ReportEntry
	switch family {
	case "journal":
		entries = services.Reports.Journal(ctx, filter, offline)
	case "newinfo":
		entries = services.Reports.NewInformation(ctx, filter, offline)
	case "downloaded":
		entries = services.Reports.DownloadedInformation(ctx, filter, offline)
	}
	entries = service.FilterEntries(entries, *filterText)

	if len(entries) == 0 {
		fmt.Println("no entries (check credentials, proxy and network settings if data was expected)")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ContentType, e.FormattedContentDate(), e.FormattedActionTime(),
			strings.Join(e.Suppliers, ","), e.IdentifierSummary(),
			e.DetailString(), strings.Join(e.Profiles, ","))
	}
}

func runAuditLog(ctx context.Context, auditService audit.Service) {
	flags := flag.NewFlagSet("auditlog", flag.ExitOnError)
	ruleID := flags.String("rule", "", "filter by rule id")
	flags.Parse(os.Args[2:])

	logs, err := auditService.QueryLogs(ctx, time.Time{}, time.Time{}, *ruleID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query save log: %v\n", err)
		os.Exit(1)
	}
	for _, l := range logs {
		fmt.Printf("%s\t%s\t%s\t%s\n", l.Timestamp.Format(time.RFC3339), l.Task, l.RuleID, l.FileName)
	}
}
