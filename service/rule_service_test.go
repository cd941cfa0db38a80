package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/fundwire/audit"
	fw_errors "github.com/dev-mohitbeniwal/fundwire/errors"
	logger "github.com/dev-mohitbeniwal/fundwire/logging"
	"github.com/dev-mohitbeniwal/fundwire/model"
	"github.com/dev-mohitbeniwal/fundwire/transport"
	"github.com/dev-mohitbeniwal/fundwire/util"
	"github.com/dev-mohitbeniwal/fundwire/wire"
)

func TestMain(m *testing.M) {
	logger.InitTestLogger()
	m.Run()
}

type recordedUpload struct {
	FileName string
	Content  string
}

// fakeClient implements transport.Client; responses and errors are served
// per upload call in order.
type fakeClient struct {
	Uploads         []recordedUpload
	UploadResponses []string
	UploadErrs      []error

	DownloadResponse string
	DownloadErr      error
	DownloadModes    []string
}

func (f *fakeClient) Download(_ context.Context, mode string, _ url.Values) (string, error) {
	f.DownloadModes = append(f.DownloadModes, mode)
	return f.DownloadResponse, f.DownloadErr
}

func (f *fakeClient) Upload(_ context.Context, content []byte, fileName string) (string, error) {
	call := len(f.Uploads)
	f.Uploads = append(f.Uploads, recordedUpload{FileName: fileName, Content: string(content)})
	var err error
	if call < len(f.UploadErrs) {
		err = f.UploadErrs[call]
	}
	resp := ""
	if call < len(f.UploadResponses) {
		resp = f.UploadResponses[call]
	}
	return resp, err
}

func newRuleServiceForTest(t *testing.T, client *fakeClient) (*RuleService, audit.Repository) {
	t.Helper()
	repo, err := audit.NewFileRepository(t.TempDir())
	require.NoError(t, err)
	archive := transport.NewArchive(t.TempDir(), "P", "ABC")
	return NewRuleService(client, archive, util.NewValidationUtil(), audit.NewService(repo)), repo
}

func existingRule() *model.AccessRule {
	return &model.AccessRule{
		ID:                  "R1",
		ContentType:         model.ContentTypeFund,
		Receivers:           []string{"RCV1"},
		Profiles:            []string{"all"},
		LEIs:                []string{"529900T8BM49AURSDO55"},
		DateFrom:            "2024-01-01",
		DateTo:              "2024-12-31",
		Frequency:           model.FrequencyMonthly,
		CostsByDataSupplier: "true",
	}
}

func onlineSettings() SaveSettings {
	return SaveSettings{
		Supplier: model.DataSupplier{Short: "ABC", Name: "Alpha Bank"},
		Contact:  wire.Contact{Name: "Operations Desk"},
	}
}

func offlineSettings() SaveSettings {
	s := onlineSettings()
	s.Offline = true
	return s
}

func TestSave_ValidationFailureBlocksEverything(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newRuleServiceForTest(t, client)

	err := svc.Save(context.Background(), &model.AccessRule{}, onlineSettings())
	require.ErrorIs(t, err, fw_errors.ErrRuleInvalid)
	require.Empty(t, client.Uploads)
}

func TestSave_OnlineExisting_DeleteThenImport(t *testing.T) {
	client := &fakeClient{UploadResponses: []string{"OK", "OK"}}
	svc, _ := newRuleServiceForTest(t, client)

	require.NoError(t, svc.Save(context.Background(), existingRule(), onlineSettings()))
	require.Len(t, client.Uploads, 2)

	deleteBody := client.Uploads[0].Content
	importBody := client.Uploads[1].Content
	require.Contains(t, deleteBody, "<Task>delete</Task>")
	require.Contains(t, importBody, "<Task>import</Task>")
	// Identical bodies except for the Task value.
	require.Equal(t,
		strings.Replace(deleteBody, "<Task>delete</Task>", "<Task>import</Task>", 1),
		importBody)
}

func TestSave_OnlineDraft_SkipsDelete(t *testing.T) {
	client := &fakeClient{UploadResponses: []string{"OK"}}
	svc, _ := newRuleServiceForTest(t, client)

	rule := existingRule()
	rule.ID = model.TempIDPrefix + "abc"
	require.NoError(t, svc.Save(context.Background(), rule, onlineSettings()))

	require.Len(t, client.Uploads, 1)
	require.Contains(t, client.Uploads[0].Content, "<Task>import</Task>")
}

func TestSave_DeleteRejected_ImportNeverAttempted(t *testing.T) {
	client := &fakeClient{UploadResponses: []string{"ERROR: rule locked"}}
	svc, _ := newRuleServiceForTest(t, client)

	err := svc.Save(context.Background(), existingRule(), onlineSettings())
	require.ErrorIs(t, err, fw_errors.ErrDeleteRejected)
	require.ErrorIs(t, err, fw_errors.ErrRemoteError)
	require.Len(t, client.Uploads, 1)
}

func TestSave_DeleteTransportError_ImportNeverAttempted(t *testing.T) {
	client := &fakeClient{UploadErrs: []error{errors.New("host unreachable")}}
	svc, _ := newRuleServiceForTest(t, client)

	err := svc.Save(context.Background(), existingRule(), onlineSettings())
	require.ErrorIs(t, err, fw_errors.ErrDeleteRejected)
	require.NotErrorIs(t, err, fw_errors.ErrRemoteError)
	require.Len(t, client.Uploads, 1)
}

func TestSave_ImportFailsAfterDelete_ReportsPartialSave(t *testing.T) {
	client := &fakeClient{UploadResponses: []string{"OK", "ERROR: schema violation"}}
	svc, _ := newRuleServiceForTest(t, client)

	err := svc.Save(context.Background(), existingRule(), onlineSettings())
	// Delete already went through; the caller must see the partial state.
	require.ErrorIs(t, err, fw_errors.ErrPartialSave)
	require.ErrorIs(t, err, fw_errors.ErrRemoteError)
	require.Len(t, client.Uploads, 2)
}

func TestSave_ImportFailsForDraft_PlainRejection(t *testing.T) {
	client := &fakeClient{UploadResponses: []string{"ERROR: schema violation"}}
	svc, _ := newRuleServiceForTest(t, client)

	rule := existingRule()
	rule.ID = model.TempIDPrefix + "abc"
	err := svc.Save(context.Background(), rule, onlineSettings())
	require.ErrorIs(t, err, fw_errors.ErrImportRejected)
	require.NotErrorIs(t, err, fw_errors.ErrPartialSave)
}

func TestSave_OfflineExisting_RecordsBothDocuments(t *testing.T) {
	client := &fakeClient{}
	svc, repo := newRuleServiceForTest(t, client)

	require.NoError(t, svc.Save(context.Background(), existingRule(), offlineSettings()))
	require.Empty(t, client.Uploads)

	logs, err := repo.QueryLogs(context.Background(), time.Time{}, time.Time{}, "R1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, wire.TaskDelete, logs[0].Task)
	require.Equal(t, wire.TaskImport, logs[1].Task)
	require.Equal(t,
		strings.Replace(logs[0].Payload, "<Task>delete</Task>", "<Task>import</Task>", 1),
		logs[1].Payload)
}

func TestSave_OfflineDraft_RecordsImportOnly(t *testing.T) {
	client := &fakeClient{}
	svc, repo := newRuleServiceForTest(t, client)

	rule := existingRule()
	rule.ID = model.TempIDPrefix + "abc"
	require.NoError(t, svc.Save(context.Background(), rule, offlineSettings()))

	logs, err := repo.QueryLogs(context.Background(), time.Time{}, time.Time{}, rule.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, wire.TaskImport, logs[0].Task)
}

func TestListGranted_Online(t *testing.T) {
	client := &fakeClient{DownloadResponse: `<AccessRulesGranted>
	  <AccessRule id="R1">
	    <ContentType>FUND</ContentType>
	    <AccessReceiver><Short>RCV1</Short></AccessReceiver>
	  </AccessRule>
	</AccessRulesGranted>`}
	svc, _ := newRuleServiceForTest(t, client)

	rules := svc.ListGranted(context.Background(), onlineSettings())
	require.Len(t, rules, 1)
	require.Equal(t, []string{"RCV1"}, rules[0].Receivers)
	require.Equal(t, []string{"accessrules-granted"}, client.DownloadModes)
}

func TestListReceived_OfflineReplaysArchivedDownload(t *testing.T) {
	client := &fakeClient{}
	repo, err := audit.NewFileRepository(t.TempDir())
	require.NoError(t, err)
	archive := transport.NewArchive(t.TempDir(), "P", "ABC")
	svc := NewRuleService(client, archive, util.NewValidationUtil(), audit.NewService(repo))

	// The snapshot is written under the same tag the transport layer
	// derives when it archives a live download of this listing.
	_, err = archive.Write(transport.BackupTag("accessrules-received"), []byte(`<AccessRulesReceived>
	  <AccessRule id="R9"><ContentType>FUND</ContentType></AccessRule>
	</AccessRulesReceived>`))
	require.NoError(t, err)

	rules := svc.ListReceived(context.Background(), offlineSettings())
	require.Len(t, rules, 1)
	require.Equal(t, "R9", rules[0].ID)
	require.Empty(t, client.DownloadModes)
}

func TestListReceived_OfflineWithoutBackupYieldsEmptyList(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newRuleServiceForTest(t, client)

	rules := svc.ListReceived(context.Background(), offlineSettings())
	require.Empty(t, rules)
	require.Empty(t, client.DownloadModes)
}
