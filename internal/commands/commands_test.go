package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headsrooms/PlaywrightING/internal/config"
	"github.com/headsrooms/PlaywrightING/internal/model"
	"github.com/headsrooms/PlaywrightING/internal/snapshot"
	"github.com/headsrooms/PlaywrightING/internal/synclog"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "playwrighting-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "playwrighting")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/playwrighting")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func samplePosition() *model.Position {
	synced := time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC)
	rows := model.Table{
		Columns: []string{"Descripción", "Importe"},
		Rows: []model.Row{
			{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Values: []string{"Bizum Ana", "-12.5"}},
			{Date: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), Values: []string{"Nómina", "2000"}},
		},
	}
	cardRows := model.Table{
		Columns: []string{"Descripción", "Importe"},
		Rows: []model.Row{
			{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Values: []string{"Café Central", "-3.2"}},
		},
	}
	visa := model.NewDebitCard("Visa Gold", true).WithHistory(model.History{Transactions: cardRows, LastUpdate: synced})
	return &model.Position{
		Balance:  decimal.RequireFromString("3234.56"),
		Currency: "€",
		Accounts: []model.Account{
			{
				Name:    "Mi Nómina",
				Type:    model.AccountTypeNormal,
				Balance: decimal.RequireFromString("1234.56"),
				Cards:   []model.Card{visa},
				History: model.History{Transactions: rows, LastUpdate: synced},
			},
			{Name: "Ahorro", Type: model.AccountTypeSavings, Balance: decimal.RequireFromString("2000")},
		},
		LastUpdate: synced,
	}
}

// homeWithSnapshot returns a home directory holding the sample snapshot.
func homeWithSnapshot(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, snapshot.NewFileStore(filepath.Join(home, "position.gob")).Save(samplePosition()))
	return home
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestInit_RefusesExistingSnapshot(t *testing.T) {
	home := homeWithSnapshot(t)

	out, err := run(t, "", "--home", home, "init")
	require.Error(t, err)
	assert.Contains(t, out, "snapshot already exists")
	assert.Contains(t, out, "--force")

	_, err = os.Stat(config.Path(home))
	assert.ErrorIs(t, err, os.ErrNotExist, "no config prompt before the conflict check")
}

func TestUpdate_InvalidConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, config.Save(config.Path(home), config.Default(home)))

	out, err := run(t, "", "--home", home, "update")
	require.Error(t, err)
	assert.Contains(t, out, "credentials.id_number is required")
}

func TestShow_Position(t *testing.T) {
	home := homeWithSnapshot(t)

	out, err := run(t, "", "--home", home, "show", "--option", "position")
	require.NoError(t, err)
	assert.Contains(t, out, "Position: 3234.56 €")
	assert.Contains(t, out, "Accounts: 2")
}

func TestShow_Accounts(t *testing.T) {
	home := homeWithSnapshot(t)

	out, err := run(t, "", "--home", home, "show", "--option", "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "Mi Nómina")
	assert.Contains(t, out, "Visa Gold")
	assert.Contains(t, out, "Ahorro")
}

func TestShow_TransactionsOfCard(t *testing.T) {
	home := homeWithSnapshot(t)

	out, err := run(t, "", "--home", home, "show", "--option", "transactions", "--entity", "1.a")
	require.NoError(t, err)
	assert.Contains(t, out, "Café Central")
	assert.NotContains(t, out, "Bizum Ana")
}

func TestShow_PromptsForEverything(t *testing.T) {
	home := homeWithSnapshot(t)

	out, err := run(t, "transactions\n1\n", "--home", home, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "What do you want to show?")
	assert.Contains(t, out, "1.a) Visa Gold")
	assert.Contains(t, out, "Bizum Ana")
	assert.Contains(t, out, "05/03/2024")
}

func TestShow_InvalidOption(t *testing.T) {
	home := homeWithSnapshot(t)

	out, err := run(t, "", "--home", home, "show", "--option", "everything")
	require.Error(t, err)
	assert.Contains(t, out, "not a valid choice")
}

func TestShow_InvalidEntity(t *testing.T) {
	home := homeWithSnapshot(t)

	out, err := run(t, "", "--home", home, "show", "--option", "transactions", "--entity", "9")
	require.Error(t, err)
	assert.Contains(t, out, "not a valid choice")
}

func TestShow_NoSnapshot(t *testing.T) {
	out, err := run(t, "", "--home", t.TempDir(), "show", "--option", "position")
	require.Error(t, err)
	assert.Contains(t, out, "no snapshot")
}

func TestShow_History(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, synclog.Append(home, []synclog.Entry{
		{
			Timestamp: time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC),
			RunID:     "run-1",
			Command:   "init",
			Outcome:   "created",
			Balance:   decimal.RequireFromString("3234.56"),
			Currency:  "€",
		},
		{
			Timestamp: time.Date(2024, 3, 11, 9, 15, 0, 0, time.UTC),
			RunID:     "run-2",
			Command:   "update",
			Outcome:   "touched",
			Balance:   decimal.RequireFromString("3234.56"),
			Currency:  "€",
		},
	}))

	out, err := run(t, "", "--home", home, "show", "--option", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "touched")
	assert.Contains(t, out, "3234.56 €")
	assert.Contains(t, out, "run-2")
}

func TestShow_HistoryWithoutRuns(t *testing.T) {
	out, err := run(t, "", "--home", t.TempDir(), "show", "--option", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no sync runs yet")
}

func TestShow_SQLiteBackend(t *testing.T) {
	home := t.TempDir()
	cfg := config.Default(home)
	cfg.Store.Backend = snapshot.BackendSQLite
	require.NoError(t, config.Save(config.Path(home), cfg))
	require.NoError(t, snapshot.NewSQLiteStore(filepath.Join(home, "position.db")).Save(samplePosition()))

	out, err := run(t, "", "--home", home, "show", "--option", "transactions", "--entity", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bizum Ana")
}

func TestDownload(t *testing.T) {
	home := homeWithSnapshot(t)
	dest := filepath.Join(t.TempDir(), "export")

	out, err := run(t, "", "--home", home, "download", "--path", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 files")

	data, err := os.ReadFile(filepath.Join(dest, "Mi_Nomina", "Visa_Gold.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Fecha,Descripción,Importe\n2024-03-02,Café Central,-3.2\n", string(data))
	assert.FileExists(t, filepath.Join(dest, "Mi_Nomina", "Mi_Nomina.csv"))
	assert.FileExists(t, filepath.Join(dest, "Ahorro", "Ahorro.csv"))
}

func TestDownload_MissingParent(t *testing.T) {
	home := homeWithSnapshot(t)
	dest := filepath.Join(t.TempDir(), "a", "b")

	out, err := run(t, "", "--home", home, "download", "--path", dest)
	require.Error(t, err)
	assert.Contains(t, out, "parent directory")

	_, err = run(t, "", "--home", home, "download", "--path", dest, "--create-parents")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "Ahorro", "Ahorro.csv"))
}

func TestDownload_DefaultPath(t *testing.T) {
	home := homeWithSnapshot(t)

	_, err := run(t, "", "--home", home, "download")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, "downloads", "Ahorro", "Ahorro.csv"))
}

func TestBackup(t *testing.T) {
	home := homeWithSnapshot(t)

	out, err := run(t, "", "--home", home, "backup", "--name", "before-move")
	require.NoError(t, err)
	assert.Contains(t, out, "Backed up")

	want, err := os.ReadFile(filepath.Join(home, "position.gob"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(home, "before-move.gob"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBackup_DefaultName(t *testing.T) {
	home := homeWithSnapshot(t)

	_, err := run(t, "", "--home", home, "backup")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(home, "*-*.gob"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestBackup_NoSnapshot(t *testing.T) {
	out, err := run(t, "", "--home", t.TempDir(), "backup")
	require.Error(t, err)
	assert.Contains(t, out, "no snapshot")
}
