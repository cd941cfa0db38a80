// service/rule_service.go
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/fundwire/audit"
	fw_errors "github.com/dev-mohitbeniwal/fundwire/errors"
	logger "github.com/dev-mohitbeniwal/fundwire/logging"
	"github.com/dev-mohitbeniwal/fundwire/model"
	"github.com/dev-mohitbeniwal/fundwire/transport"
	"github.com/dev-mohitbeniwal/fundwire/util"
	"github.com/dev-mohitbeniwal/fundwire/wire"
)

// Save workflow states, used for logging the progression. A save either
// reaches StateDone or stops in StateFailed; there is no resumable
// intermediate state today (see the consistency note on Save).
const (
	StateValidated     = "VALIDATED"
	StateOfflineLogged = "OFFLINE_LOGGED"
	StateDeleteSent    = "ONLINE_DELETE_SENT"
	StateImportSent    = "IMPORT_SENT"
	StateDone          = "DONE"
	StateFailed        = "FAILED"
)

// SaveSettings is the per-operation snapshot of the settings store.
// Callers build a fresh one for every save; the engine never reads global
// state mid-operation.
type SaveSettings struct {
	Supplier model.DataSupplier
	Contact  wire.Contact
	Offline  bool
}

// RuleService runs the modify/save workflow for access rules.
type RuleService struct {
	client         transport.Client
	archive        *transport.Archive
	validationUtil *util.ValidationUtil
	auditService   audit.Service
}

// NewRuleService creates a new instance of RuleService
func NewRuleService(client transport.Client, archive *transport.Archive, validationUtil *util.ValidationUtil, auditService audit.Service) *RuleService {
	return &RuleService{
		client:         client,
		archive:        archive,
		validationUtil: validationUtil,
		auditService:   auditService,
	}
}

// ListReceived fetches and decodes the rules granted to this installation.
func (s *RuleService) ListReceived(ctx context.Context, settings SaveSettings) []*model.AccessRule {
	raw := s.listingSource(ctx, settings, "accessrules-received")
	return wire.ParseReceivedRules(raw)
}

// ListGranted fetches and decodes the rules this supplier granted.
func (s *RuleService) ListGranted(ctx context.Context, settings SaveSettings) []*model.AccessRule {
	raw := s.listingSource(ctx, settings, "accessrules-granted")
	return wire.ParseGrantedRules(raw)
}

// listingSource resolves the raw listing body: the newest archived
// snapshot in offline mode, a live download otherwise. The offline lookup
// uses the same tag derivation the transport layer archives under.
func (s *RuleService) listingSource(ctx context.Context, settings SaveSettings, mode string) string {
	if settings.Offline {
		tag := transport.BackupTag(mode)
		raw, err := s.archive.LatestBackup(tag)
		if err != nil {
			logger.Warn("No backup available for rule listing", zap.String("tag", tag), zap.Error(err))
			return ""
		}
		return raw
	}
	raw, err := s.client.Download(ctx, mode, nil)
	if err != nil {
		logger.Warn("Rule listing download failed", zap.String("mode", mode), zap.Error(err))
		return ""
	}
	return raw
}

// Save runs the two-phase modify workflow for one rule: validate, then
// delete the existing remote version and re-import the edited one.
//
// The delete and import uploads are independent requests with no
// transactional guarantee. If the delete succeeds and the import fails (or
// the process dies between them), the remote side holds no rule for this
// id until a retry succeeds. That window is reported, not hidden.
func (s *RuleService) Save(ctx context.Context, rule *model.AccessRule, settings SaveSettings) error {
	if err := s.validationUtil.ValidateAccessRule(rule); err != nil {
		return fmt.Errorf("%w:\n%v", fw_errors.ErrRuleInvalid, err)
	}
	logger.Info("Rule validated", zap.String("ruleID", rule.ID), zap.String("state", StateValidated))

	// A draft has never been imported, so there is nothing to delete
	// remotely. Detection is purely textual, by the temporary id prefix.
	isDraft := rule.IsDraft()

	deleteXML, err := wire.BuildDeleteDocument(rule, settings.Supplier, settings.Contact)
	if err != nil {
		return fmt.Errorf("%w: %v", fw_errors.ErrRuleBuildFailed, err)
	}
	importXML, err := wire.ConvertToImport(deleteXML)
	if err != nil {
		return fmt.Errorf("%w: %v", fw_errors.ErrRuleBuildFailed, err)
	}

	if settings.Offline {
		return s.saveOffline(ctx, rule, isDraft, deleteXML, importXML)
	}
	return s.saveOnline(ctx, rule, isDraft, deleteXML, importXML)
}

// saveOffline never touches the network: the documents that would have
// been uploaded are recorded as save-log entries instead.
func (s *RuleService) saveOffline(ctx context.Context, rule *model.AccessRule, isDraft bool, deleteXML, importXML string) error {
	now := time.Now()
	if !isDraft {
		entry := audit.SaveLog{
			Timestamp: now,
			Task:      wire.TaskDelete,
			RuleID:    rule.ID,
			FileName:  uploadFileName(wire.TaskDelete, rule.ID),
			Payload:   deleteXML,
		}
		if err := s.auditService.LogSave(ctx, entry); err != nil {
			return fmt.Errorf("record offline delete: %w", err)
		}
	}
	entry := audit.SaveLog{
		Timestamp: now,
		Task:      wire.TaskImport,
		RuleID:    rule.ID,
		FileName:  uploadFileName(wire.TaskImport, rule.ID),
		Payload:   importXML,
	}
	if err := s.auditService.LogSave(ctx, entry); err != nil {
		return fmt.Errorf("record offline import: %w", err)
	}

	logger.Info("Rule save recorded offline",
		zap.String("ruleID", rule.ID),
		zap.Bool("draft", isDraft),
		zap.String("state", StateOfflineLogged))
	return nil
}

func (s *RuleService) saveOnline(ctx context.Context, rule *model.AccessRule, isDraft bool, deleteXML, importXML string) error {
	if !isDraft {
		resp, err := s.uploadDocument(ctx, deleteXML, uploadFileName(wire.TaskDelete, rule.ID))
		if err != nil {
			logger.Error("Delete upload failed, import not attempted",
				zap.String("ruleID", rule.ID), zap.String("state", StateFailed), zap.Error(err))
			return fmt.Errorf("%w: %v", fw_errors.ErrDeleteRejected, err)
		}
		if transport.IsErrorResponse(resp) {
			logger.Error("Delete upload rejected, import not attempted",
				zap.String("ruleID", rule.ID), zap.String("state", StateFailed), zap.String("response", resp))
			return fmt.Errorf("%w: %w", fw_errors.ErrDeleteRejected, transport.RemoteError(resp))
		}
		logger.Info("Delete upload accepted", zap.String("ruleID", rule.ID), zap.String("state", StateDeleteSent))
	}

	resp, err := s.uploadDocument(ctx, importXML, uploadFileName(wire.TaskImport, rule.ID))
	if err != nil {
		return s.importFailure(rule, isDraft, fmt.Errorf("%v", err))
	}
	if transport.IsErrorResponse(resp) {
		return s.importFailure(rule, isDraft, transport.RemoteError(resp))
	}
	logger.Info("Import upload accepted", zap.String("ruleID", rule.ID), zap.String("state", StateImportSent))

	logger.Info("Rule saved", zap.String("ruleID", rule.ID), zap.String("state", StateDone))
	return nil
}

// importFailure distinguishes a plain rejection (draft: nothing was
// deleted) from the partial-completion case where the delete already went
// through.
func (s *RuleService) importFailure(rule *model.AccessRule, isDraft bool, cause error) error {
	logger.Error("Import upload failed",
		zap.String("ruleID", rule.ID),
		zap.Bool("draft", isDraft),
		zap.String("state", StateFailed),
		zap.Error(cause))
	if isDraft {
		return fmt.Errorf("%w: %w", fw_errors.ErrImportRejected, cause)
	}
	return fmt.Errorf("%w: %w", fw_errors.ErrPartialSave, cause)
}

// uploadDocument writes the payload to a scratch file for the transport
// layer and removes it afterward, success or failure.
func (s *RuleService) uploadDocument(ctx context.Context, xmlText, fileName string) (string, error) {
	tmp, err := os.CreateTemp("", "fundwire-upload-*.xml")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(xmlText); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	content, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	return s.client.Upload(ctx, content, fileName)
}

func uploadFileName(task, ruleID string) string {
	return fmt.Sprintf("accessrules_%s_%s.xml", task, ruleID)
}
