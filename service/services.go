// service/services.go
package service

import (
	"github.com/dev-mohitbeniwal/fundwire/audit"
	"github.com/dev-mohitbeniwal/fundwire/transport"
	"github.com/dev-mohitbeniwal/fundwire/util"
)

type Services struct {
	Rules   *RuleService
	Reports *ReportService
}

func InitializeServices(
	client transport.Client,
	archive *transport.Archive,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
) *Services {
	return &Services{
		Rules:   NewRuleService(client, archive, validationUtil, auditService),
		Reports: NewReportService(client, archive),
	}
}
