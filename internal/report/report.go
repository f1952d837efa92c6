// Package report формирует текстовый отчёт по всем стажировкам.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
)

const reportTemplate = `INTERNSHIP OPPORTUNITIES REPORT
Generated: {{ .GeneratedAt.Format "2006-01-02 15:04" }}
Total: {{ len .Items }}
{{ range $i, $o := .Items }}
{{ rule }}
{{ inc $i }}. {{ $o.Title }}
   Company:        {{ $o.CompanyName }} ({{ $o.Department }})
   Representative: {{ $o.RepresentativeID }}
   Level:          {{ $o.Level }}
   Major:          {{ $o.PreferredMajor }}
   Window:         {{ $o.Window }}
   Slots:          {{ $o.Slots }} ({{ $o.RemainingSlots }} remaining)
   Status:         {{ $o.Status }}{{ if $o.Visible }}, visible{{ else }}, hidden{{ end }}
   Applications:   {{ len $o.Applications }}
   Description:    {{ orDash $o.Description }}
{{ end }}{{ rule }}
`

var funcs = template.FuncMap{
	"inc":    func(i int) int { return i + 1 },
	"rule":   func() string { return strings.Repeat("-", 60) },
	"orDash": func(s string) string { return orDash(s) },
}

var tmpl = template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate))

type view struct {
	GeneratedAt time.Time
	Items       []*entity.Opportunity
}

// Write выводит отчёт в w в порядке переданного списка.
func Write(w io.Writer, opps []*entity.Opportunity, generatedAt time.Time) error {
	if err := tmpl.Execute(w, view{GeneratedAt: generatedAt, Items: opps}); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// WriteFile сохраняет отчёт в файл, создавая каталог при необходимости.
func WriteFile(path string, opps []*entity.Opportunity, generatedAt time.Time) error {
	var buf bytes.Buffer
	if err := Write(&buf, opps, generatedAt); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
