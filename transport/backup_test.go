package transport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	fw_errors "github.com/dev-mohitbeniwal/fundwire/errors"
	logger "github.com/dev-mohitbeniwal/fundwire/logging"
)

func TestMain(m *testing.M) {
	logger.InitTestLogger()
	m.Run()
}

func writeBackup(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBackupTag_MatchesArchivedDownloadModes(t *testing.T) {
	require.Equal(t, "ACCESSRULESRECEIVED", BackupTag("accessrules-received"))
	require.Equal(t, "ACCESSRULESGRANTED", BackupTag("accessrules-granted"))
	require.Equal(t, "JOURNAL", BackupTag("journal"))
	require.Equal(t, "NEWINFORMATION", BackupTag("newinformation"))
	require.Equal(t, "DOWNLOADEDINFORMATION", BackupTag("downloadedinformation"))
}

func TestLatestBackup_PicksLexicographicallyGreatest(t *testing.T) {
	dir := t.TempDir()
	archive := NewArchive(dir, "P", "X")

	writeBackup(t, dir, "2024_01_01__X_JOURNAL.xml", "<old/>")
	writeBackup(t, dir, "2024_06_01__X_JOURNAL.xml", "<new/>")

	content, err := archive.LatestBackup("JOURNAL")
	require.NoError(t, err)
	require.Equal(t, "<new/>", content)

	name, err := archive.LatestBackupName("JOURNAL")
	require.NoError(t, err)
	require.Equal(t, "2024_06_01__X_JOURNAL.xml", name)
}

func TestLatestBackup_FiltersByTag(t *testing.T) {
	dir := t.TempDir()
	archive := NewArchive(dir, "P", "X")

	writeBackup(t, dir, "2024_06_01__X_NEWINFORMATION.xml", "<other/>")

	_, err := archive.LatestBackup("JOURNAL")
	require.ErrorIs(t, err, fw_errors.ErrNoBackup)
}

func TestLatestBackup_MissingDir(t *testing.T) {
	archive := NewArchive(filepath.Join(t.TempDir(), "absent"), "P", "X")
	_, err := archive.LatestBackup("JOURNAL")
	require.ErrorIs(t, err, fw_errors.ErrNoBackup)
}

func TestWrite_RoundTripsThroughLatestBackup(t *testing.T) {
	archive := NewArchive(t.TempDir(), "P", "ABC")

	path, err := archive.Write("JOURNAL", []byte("<Journal/>"))
	require.NoError(t, err)
	require.Contains(t, filepath.Base(path), "__P_ABC_JOURNAL.xml")

	content, err := archive.LatestBackup("JOURNAL")
	require.NoError(t, err)
	require.Equal(t, "<Journal/>", content)
}

func TestWrite_IgnoresNonMatchingJunk(t *testing.T) {
	dir := t.TempDir()
	archive := NewArchive(dir, "P", "X")

	writeBackup(t, dir, "notes.txt", "junk")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "9999_sub_JOURNAL.xml"), 0o755))
	writeBackup(t, dir, "2024_03_01__X_JOURNAL.xml", "<ok/>")

	content, err := archive.LatestBackup("JOURNAL")
	require.NoError(t, err)
	require.Equal(t, "<ok/>", content)
}
