package http_test

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

// Cada ruta de /reports debe tener su anotación @Router (godoc) y viceversa.
func TestRouter_AnotacionesCoincidenConRutas(t *testing.T) {
	api := newReportAPI(t, nil)

	var registered []string
	for _, r := range api.app.GetRoutes(true) {
		if r.Method != "GET" && r.Method != "POST" {
			continue
		}
		if !strings.HasPrefix(r.Path, "/reports/") {
			continue
		}
		path := pathParam.ReplaceAllString(r.Path, "{$1}")
		registered = append(registered, path+" ["+strings.ToLower(r.Method)+"]")
	}

	f, err := os.Open("report_handler.go")
	require.NoError(t, err)
	defer f.Close()

	var annotated []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, "// @Router"); ok {
			annotated = append(annotated, strings.Join(strings.Fields(rest), " "))
		}
	}
	require.NoError(t, sc.Err())

	sort.Strings(registered)
	sort.Strings(annotated)
	assert.Len(t, annotated, 7)
	assert.Equal(t, registered, annotated)
}
