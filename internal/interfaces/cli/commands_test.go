package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/application/report/reporttest"
	"github.com/jhoicas/resto-backoffice/internal/domain/inventory"
	"github.com/jhoicas/resto-backoffice/internal/infrastructure/lock"
	"github.com/jhoicas/resto-backoffice/internal/interfaces/cli"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

type cliFixture struct {
	sales    *reporttest.SalesRepo
	reports  *reporttest.ReportRepo
	notifier *reporttest.Notifier
	factory  cli.Factory
	closed   int
}

func newCLI(t *testing.T) *cliFixture {
	t.Helper()
	f := &cliFixture{
		sales:    reporttest.NewSalesRepo(reporttest.SalesRecord("2026-03-01"), reporttest.SalesRecord("2026-03-02")),
		reports:  reporttest.NewReportRepo(),
		notifier: &reporttest.Notifier{},
	}
	gen := &reporttest.Generator{}
	compiler := appreport.NewCompiler(f.sales, reporttest.NewShoppingListRepo(), inventory.DefaultPolicy())
	pipeline := appreport.NewPipelineUseCase(compiler, gen, f.reports, f.notifier, lock.NewMemoryLocker(),
		appreport.PipelineConfig{}, logger.Nop())
	queries := appreport.NewQueryUseCase(f.reports, gen, reporttest.Archiver{})
	f.factory = func(context.Context) (cli.Deps, func(), error) {
		return cli.Deps{Pipeline: pipeline, Queries: queries}, func() { f.closed++ }, nil
	}
	return f
}

func (f *cliFixture) run(args ...string) (string, error) {
	var out bytes.Buffer
	root := cli.NewRootCmd(f.factory)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	f := newCLI(t)

	out, err := f.run("generate", "--date", "2026-03-01", "--send-email")
	require.NoError(t, err)
	assert.Contains(t, out, "guardado para 2026-03-01 (enviado: true)")
	assert.Equal(t, []string{"2026-03-01"}, f.notifier.Sent)
	assert.Equal(t, 1, f.reports.Count())
	assert.Equal(t, 1, f.closed, "las dependencias se cierran")
}

func TestGenerate_Errores(t *testing.T) {
	f := newCLI(t)

	_, err := f.run("generate")
	assert.Error(t, err, "--date es obligatorio")

	_, err = f.run("generate", "--date", "03/01/2026")
	assert.Error(t, err)
	assert.Zero(t, f.closed, "fecha inválida no arma dependencias")

	_, err = f.run("generate", "--date", "2026-04-01")
	require.Error(t, err)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "No sales record for 2026-04-01")
}

func TestExport_EscribeZip(t *testing.T) {
	f := newCLI(t)
	for _, d := range []string{"2026-03-01", "2026-03-02"} {
		_, err := f.run("generate", "--date", d)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "marzo.zip")
	out, err := f.run("export", "--start", "2026-03-01", "--end", "2026-03-31", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Daily-Report-2026-03-01.pdf")
	assert.Contains(t, string(raw), "Daily-Report-2026-03-02.pdf")
}

func TestDiff(t *testing.T) {
	f := newCLI(t)
	_, err := f.run("generate", "--date", "2026-03-01")
	require.NoError(t, err)

	out, err := f.run("diff", "--date", "2026-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "sin diferencias")

	// Corrección posterior en el libro de ventas.
	f.sales.Records["2026-03-01"].Payload["rollsEnd"] = float64(2)

	out, err = f.run("diff", "--date", "2026-03-01")
	require.Error(t, err)
	assert.Equal(t, cli.ExitChanged, cli.ExitCode(err))
	assert.Contains(t, out, "- ")
	assert.Contains(t, out, "+ ")
	assert.Contains(t, out, "ROLLS_VARIANCE")

	_, err = f.run("diff", "--date", "2026-03-02")
	assert.Error(t, err, "sin reporte guardado")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitError, cli.ExitCode(assert.AnError))
}
