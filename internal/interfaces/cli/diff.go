package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// DiffReports compara el reporte guardado contra una compilación en vivo,
// línea a línea sobre el JSON indentado. changed=false si son idénticos.
func DiffReports(stored, live *entity.CompiledReport) (out string, changed bool, err error) {
	a, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("serializar reporte guardado: %w", err)
	}
	b, err := json.MarshalIndent(live, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("serializar reporte en vivo: %w", err)
	}
	if bytes.Equal(a, b) {
		return "", false, nil
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(string(a)+"\n", string(b)+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := ""
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), true, nil
}
