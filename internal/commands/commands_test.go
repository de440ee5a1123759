package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicil-dev/cicil/internal/amortization"
	"github.com/cicil-dev/cicil/internal/calculator"
	"github.com/cicil-dev/cicil/internal/commands"
	"github.com/cicil-dev/cicil/internal/config"
	"github.com/cicil-dev/cicil/internal/records"
)

// runCicil executes the root command in-process and returns stdout. Log
// output goes to a separate buffer.
func runCicil(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := commands.NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func initLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runCicil(t, "init", dir, "--name", "Sari")
	require.NoError(t, err)
	return dir
}

func TestVersion(t *testing.T) {
	out, err := runCicil(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}

func TestInit_CreatesLedger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ledger")
	out, err := runCicil(t, "init", dir, "--name", "Sari")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized cicil ledger at")

	for _, name := range []string{config.FileName, records.TransactionsFile, records.DebtsFile, records.AssetsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "%s should exist", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, records.TransactionsFile))
	require.NoError(t, err)
	assert.Equal(t, records.TransactionsHeader+"\n", string(data))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Sari", cfg.Profile.Name)
}

func TestInit_KeepsExistingConfig(t *testing.T) {
	dir := initLedger(t)

	path := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Profile.Dependents = 4
	require.NoError(t, config.Save(path, cfg))

	_, err = runCicil(t, "init", dir, "--name", "Someone Else")
	require.NoError(t, err)

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sari", got.Profile.Name)
	assert.Equal(t, 4, got.Profile.Dependents)
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runCicil(t, "init", t.TempDir())
	require.Error(t, err)
}

func TestAdd_RequiresLedger(t *testing.T) {
	_, err := runCicil(t, "add", "expense", "--amount", "5.000", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cicil init")
}

func TestAdd_Amount(t *testing.T) {
	dir := initLedger(t)

	out, err := runCicil(t, "add", "expense", "--amount", "Rp 25.000", "--category", "food", "--date", "2026-03-14", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Added expense Rp 25.000 (food) on 2026-03-14\n", out)

	txns, err := records.NewStore(dir).Transactions()
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "25000", txns[0].Amount.String())
	assert.NotEmpty(t, txns[0].ID)
}

func TestAdd_Keys(t *testing.T) {
	dir := initLedger(t)

	out, err := runCicil(t, "add", "income", "--keys", "25 000 + 5 000 =", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Added income Rp 30.000")
}

func TestAdd_Errors(t *testing.T) {
	dir := initLedger(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown type", []string{"add", "transfer", "--amount", "5"}},
		{"no amount", []string{"add", "expense"}},
		{"both amount and keys", []string{"add", "expense", "--amount", "5", "--keys", "5"}},
		{"malformed amount", []string{"add", "expense", "--amount", "12a"}},
		{"negative keys", []string{"add", "expense", "--keys", "2 - 5 ="}},
		{"bad date", []string{"add", "expense", "--amount", "5", "--date", "14/03/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCicil(t, append(tt.args, "--dir", dir)...)
			require.Error(t, err)
		})
	}

	_, err := runCicil(t, "add", "expense", "--keys", "5 / 0 =", "--dir", dir)
	assert.ErrorIs(t, err, calculator.ErrDivisionByZero)

	txns, err := records.NewStore(dir).Transactions()
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestDebtAndAssetAdd(t *testing.T) {
	dir := initLedger(t)

	out, err := runCicil(t, "debt", "add", "--name", "motor", "--total", "24", "--paid", "6",
		"--monthly", "1.000.000", "--rate", "9.5", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Added debt motor: 6/24 paid (25%), Rp 1.000.000 per month\n", out)

	out, err = runCicil(t, "asset", "add", "--name", "gold", "--quantity", "2.5", "--price", "1.200.000", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Added asset gold worth Rp 3.000.000\n", out)

	_, err = runCicil(t, "debt", "add", "--name", "bad", "--total", "12", "--paid", "13", "--monthly", "1", "--dir", dir)
	require.Error(t, err)

	ledger, err := records.NewStore(dir).Load()
	require.NoError(t, err)
	require.Len(t, ledger.Debts, 1)
	require.Len(t, ledger.Assets, 1)
	assert.Equal(t, "9.5", ledger.Debts[0].AnnualRatePercent.String())
}

func seedLedger(t *testing.T) string {
	t.Helper()
	dir := initLedger(t)
	steps := [][]string{
		{"add", "income", "--amount", "10.000.000", "--category", "salary", "--date", "2026-03-01"},
		{"add", "expense", "--keys", "2 500 000 + 500 000 =", "--category", "rent", "--date", "2026-03-05"},
		{"add", "expense", "--amount", "1.000.000", "--category", "food", "--date", "2026-02-10"},
		{"debt", "add", "--name", "motor", "--total", "24", "--paid", "6", "--monthly", "1.000.000"},
		{"asset", "add", "--name", "gold", "--quantity", "2", "--price", "1.500.000"},
	}
	for _, args := range steps {
		_, err := runCicil(t, append(args, "--dir", dir)...)
		require.NoError(t, err, "%v", args)
	}
	return dir
}

func TestSummary_JSON(t *testing.T) {
	dir := seedLedger(t)

	out, err := runCicil(t, "summary", "--json", "--dir", dir)
	require.NoError(t, err)

	var report struct {
		Summary         map[string]any   `json:"summary"`
		Categories      []map[string]any `json:"categories"`
		Debts           []map[string]any `json:"debts"`
		TotalAssetValue string           `json:"total_asset_value"`
		RiskInput       map[string]any   `json:"risk_input"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "10000000", report.Summary["total_income"])
	assert.Equal(t, "4000000", report.Summary["total_expense"])
	assert.Equal(t, "6000000", report.Summary["balance"])
	assert.Equal(t, "1000000", report.Summary["total_monthly_debt_service"])
	assert.Equal(t, "18000000", report.Summary["total_remaining_principal_estimate"])
	assert.Equal(t, "40", report.Summary["expense_to_income_ratio_percent"])
	assert.Equal(t, "3000000", report.TotalAssetValue)

	require.Len(t, report.Categories, 3)
	assert.Equal(t, "salary", report.Categories[0]["category"])
	assert.Equal(t, "rent", report.Categories[1]["category"])

	require.Len(t, report.Debts, 1)
	assert.Equal(t, "25", report.Debts[0]["payoff_progress_percent"])

	assert.Equal(t, "18000000", report.RiskInput["remaining_debt"])
	assert.Equal(t, "1000000", report.RiskInput["monthly_loan"])
	assert.Equal(t, false, report.RiskInput["has_default_history"])
}

func TestSummary_Month(t *testing.T) {
	dir := seedLedger(t)

	out, err := runCicil(t, "summary", "--json", "--month", "2026-03", "--dir", dir)
	require.NoError(t, err)

	var report struct {
		Month   string         `json:"month"`
		Summary map[string]any `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "2026-03", report.Month)
	assert.Equal(t, "3000000", report.Summary["total_expense"])
	assert.Equal(t, "30", report.Summary["expense_to_income_ratio_percent"])

	_, err = runCicil(t, "summary", "--month", "March", "--dir", dir)
	require.Error(t, err)
}

func TestSummary_Text(t *testing.T) {
	dir := seedLedger(t)

	out, err := runCicil(t, "summary", "--dir", dir)
	require.NoError(t, err)

	for _, want := range []string{
		"Rp 10.000.000",
		"Rp 4.000.000",
		"Rp 6.000.000",
		"40%",
		"Rp 18.000.000",
		"Rp 3.000.000",
		"motor",
		"salary",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSummary_EmptyLedger(t *testing.T) {
	dir := initLedger(t)

	out, err := runCicil(t, "summary", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Rp 0")
	assert.NotContains(t, out, "CATEGORY")
}

func TestEstimate(t *testing.T) {
	out, err := runCicil(t, "estimate", "--principal", "120.000.000", "--term", "24", "--rate", "12", "--dir", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "Rp 5.648.817")
	assert.Contains(t, out, "Rp 135.571.600")
	assert.Contains(t, out, "Rp 15.571.600")
}

func TestEstimate_Schedule(t *testing.T) {
	out, err := runCicil(t, "estimate", "--principal", "1.200", "--term", "12", "--schedule", "--dir", t.TempDir())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Three totals, a blank line, a header and twelve months.
	assert.Len(t, lines, 17)
	assert.Contains(t, out, "Rp 100")
}

func TestEstimate_Limits(t *testing.T) {
	_, err := runCicil(t, "estimate", "--principal", "1.000", "--term", "601", "--rate", "5", "--dir", t.TempDir())
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanTerms)

	_, err = runCicil(t, "estimate", "--principal", "1.000", "--term", "0", "--dir", t.TempDir())
	assert.ErrorIs(t, err, amortization.ErrInvalidLoanTerms)

	// Caps come from the ledger config.
	dir := initLedger(t)
	path := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Limits.MaxTermMonths = 12
	require.NoError(t, config.Save(path, cfg))

	_, err = runCicil(t, "estimate", "--principal", "1.000", "--term", "24", "--dir", dir)
	var tErr *amortization.InvalidLoanTermsError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "term_months", tErr.Field)

	cfg.Limits.MaxTermMonths = 12
	cfg.Limits.MaxPrincipal = "500"
	require.NoError(t, config.Save(path, cfg))

	_, err = runCicil(t, "estimate", "--principal", "1.000", "--term", "6", "--dir", dir)
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "principal", tErr.Field)
}

func TestEstimate_ScheduleCapWithoutLimits(t *testing.T) {
	dir := initLedger(t)
	path := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Limits.MaxTermMonths = 0
	require.NoError(t, config.Save(path, cfg))

	_, err = runCicil(t, "estimate", "--principal", "1.000", "--term", "2000000000", "--schedule", "--dir", dir)
	var tErr *amortization.InvalidLoanTermsError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "term_months", tErr.Field)
}

func TestCalc(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"5", "+", "3", "x", "2", "="}, "16"},
		{[]string{"5+3x2="}, "16"},
		{[]string{"1", "000", "000"}, "1.000.000"},
		{[]string{"1", ".", "5"}, "1,5"},
		{[]string{"5", "/", "0", "="}, "0"},
		{[]string{"2", "-", "5", "="}, "-3"},
		{[]string{"12", "bs"}, "1"},
	}
	for _, tt := range tests {
		out, err := runCicil(t, append([]string{"calc", "--dir", t.TempDir()}, tt.args...)...)
		require.NoError(t, err, "%v", tt.args)
		assert.Equal(t, tt.want+"\n", out, "%v", tt.args)
	}

	_, err := runCicil(t, "calc", "--dir", t.TempDir(), "5", "%")
	assert.ErrorIs(t, err, calculator.ErrUnknownKey)
}

func TestLogLevel(t *testing.T) {
	_, err := runCicil(t, "calc", "--log-level", "bogus", "1")
	require.Error(t, err)

	_, err = runCicil(t, "calc", "--log-level", "debug", "--dir", t.TempDir(), "1")
	require.NoError(t, err)
}
