// Package cli comandos de reportctl: regenerar, exportar y comparar reportes
// diarios desde la terminal, por el mismo camino que la API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// Pipeline lo que reportctl usa del pipeline.
type Pipeline interface {
	Generate(ctx context.Context, shiftDate time.Time, sendEmail bool) (*appreport.GenerateResult, error)
	Compile(ctx context.Context, shiftDate time.Time) (*entity.CompiledReport, error)
}

// Queries lo que reportctl usa de las consultas.
type Queries interface {
	GetByDate(ctx context.Context, shiftDate time.Time) (*entity.PersistedReport, error)
	ExportRange(ctx context.Context, start, end time.Time) ([]byte, string, error)
}

// Deps casos de uso de un comando.
type Deps struct {
	Pipeline Pipeline
	Queries  Queries
}

// Factory arma las dependencias al ejecutar un comando (no en --help).
type Factory func(ctx context.Context) (Deps, func(), error)

// Códigos de salida.
const (
	ExitError   = 1
	ExitChanged = 2 // diff encontró diferencias
)

// exitErr lleva un código de salida por el camino de errores de cobra.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// ExitCode código de salida para err (0 si err es nil).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}

// NewRootCmd árbol de comandos de reportctl.
func NewRootCmd(factory Factory) *cobra.Command {
	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Operaciones sobre el reporte diario de operaciones",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(generateCmd(factory), exportCmd(factory), diffCmd(factory))
	return root
}

func withDeps(cmd *cobra.Command, factory Factory, fn func(ctx context.Context, d Deps) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, closeFn, err := factory(ctx)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(ctx, d)
}

func generateCmd(factory Factory) *cobra.Command {
	var (
		date      string
		sendEmail bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compila, guarda y opcionalmente envía el reporte de una fecha",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shiftDate, err := appreport.ParseShiftDate(date)
			if err != nil {
				return err
			}
			return withDeps(cmd, factory, func(ctx context.Context, d Deps) error {
				res, err := d.Pipeline.Generate(ctx, shiftDate, sendEmail)
				if res != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "reporte %s guardado para %s (enviado: %t)\n",
						res.ReportID, res.Date, res.Emailed)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Fecha del turno YYYY-MM-DD")
	cmd.Flags().BoolVar(&sendEmail, "send-email", false, "Enviar el PDF por correo")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func exportCmd(factory Factory) *cobra.Command {
	var start, end, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "ZIP con los PDF guardados del rango y summary.xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := appreport.ParseShiftDate(start)
			if err != nil {
				return err
			}
			to, err := appreport.ParseShiftDate(end)
			if err != nil {
				return err
			}
			return withDeps(cmd, factory, func(ctx context.Context, d Deps) error {
				data, filename, err := d.Queries.ExportRange(ctx, from, to)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = filename
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("escribir %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", path, len(data))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", "", "Fecha inicial YYYY-MM-DD")
	f.StringVar(&end, "end", "", "Fecha final YYYY-MM-DD (inclusive)")
	f.StringVar(&out, "out", "", "Archivo de salida (por defecto Daily-Reports-<start>_<end>.zip)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func diffCmd(factory Factory) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compara el reporte guardado con una compilación en vivo de los libros",
		Long:  "Sale con código 2 si el reporte guardado ya no coincide con los datos actuales.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shiftDate, err := appreport.ParseShiftDate(date)
			if err != nil {
				return err
			}
			return withDeps(cmd, factory, func(ctx context.Context, d Deps) error {
				stored, err := d.Queries.GetByDate(ctx, shiftDate)
				if err != nil {
					return err
				}
				live, err := d.Pipeline.Compile(ctx, shiftDate)
				if err != nil {
					return err
				}
				text, changed, err := DiffReports(&stored.Report, live)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if !changed {
					fmt.Fprintf(w, "%s: sin diferencias\n", stored.Report.ShiftDate)
					return nil
				}
				fmt.Fprint(w, text)
				return &exitErr{code: ExitChanged, msg: fmt.Sprintf("%s: el reporte guardado difiere de los libros", stored.Report.ShiftDate)}
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Fecha del turno YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
