package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/crm/backend/internal/domain/analytics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const reportHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11pt; color: #222; }
h1 { font-size: 18pt; margin: 0 0 4px 0; }
h2 { font-size: 13pt; margin: 18px 0 6px 0; border-bottom: 1px solid #ccc; }
.meta { color: #666; font-size: 9pt; margin-bottom: 12px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 8px; }
th, td { text-align: left; padding: 4px 6px; border-bottom: 1px solid #eee; }
th { background: #f5f5f5; }
td.num { text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{.Type}} report · generated {{.GeneratedAt}}</div>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{if .Rows}}
<table>
{{range .Rows}}<tr><th>{{.Label}}</th><td class="num">{{.Value}}</td></tr>
{{end}}</table>
{{end}}
{{range .Sections}}
<h2>{{.Title}}</h2>
{{if .Columns}}
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Table}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{else}}
<table>
{{range .Rows}}<tr><th>{{.Label}}</th><td class="num">{{.Value}}</td></tr>
{{end}}</table>
{{end}}
{{end}}
{{if not (or .Rows .Sections)}}<p>No data.</p>{{end}}
</body>
</html>`

type reportRow struct {
	Label string
	Value string
}

type reportSection struct {
	Title   string
	Rows    []reportRow
	Columns []string
	Table   [][]string
}

type reportView struct {
	Title       string
	Type        string
	Description string
	GeneratedAt string
	Rows        []reportRow
	Sections    []reportSection
}

// ReportTemplate renders saved reports as printable HTML
type ReportTemplate struct {
	tmpl  *template.Template
	caser cases.Caser
	now   func() time.Time
}

// NewReportTemplate parses the built-in report layout
func NewReportTemplate() *ReportTemplate {
	return &ReportTemplate{
		tmpl:  template.Must(template.New("report").Parse(reportHTML)),
		caser: cases.Title(language.English),
		now:   time.Now,
	}
}

// Render produces the HTML document for a report. Top-level scalars become
// a summary table, objects and lists of objects become their own sections.
func (t *ReportTemplate) Render(report *analytics.Report) (string, error) {
	if report == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "report is nil", nil)
	}
	view := reportView{
		Title:       report.Name,
		Type:        t.caser.String(strings.ToLower(string(report.Type))),
		Description: report.Description,
		GeneratedAt: t.now().UTC().Format("2006-01-02 15:04 MST"),
	}

	data := report.DataMap()
	for _, key := range sortedKeys(data) {
		switch v := data[key].(type) {
		case map[string]any:
			view.Sections = append(view.Sections, reportSection{Title: t.label(key), Rows: t.rows(v)})
		case []any:
			view.Sections = append(view.Sections, t.tableSection(key, v))
		default:
			view.Rows = append(view.Rows, reportRow{Label: t.label(key), Value: formatValue(v)})
		}
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute report template", err)
	}
	return buf.String(), nil
}

func (t *ReportTemplate) rows(m map[string]any) []reportRow {
	rows := make([]reportRow, 0, len(m))
	for _, k := range sortedKeys(m) {
		rows = append(rows, reportRow{Label: t.label(k), Value: formatValue(m[k])})
	}
	return rows
}

func (t *ReportTemplate) tableSection(key string, items []any) reportSection {
	section := reportSection{Title: t.label(key)}
	colSet := make(map[string]struct{})
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			for k := range m {
				colSet[k] = struct{}{}
			}
		}
	}
	if len(colSet) == 0 {
		for i, item := range items {
			section.Rows = append(section.Rows, reportRow{Label: strconv.Itoa(i + 1), Value: formatValue(item)})
		}
		return section
	}

	keys := make([]string, 0, len(colSet))
	for k := range colSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		section.Columns = append(section.Columns, t.label(k))
	}
	for _, item := range items {
		m, _ := item.(map[string]any)
		row := make([]string, len(keys))
		for i, k := range keys {
			if v, ok := m[k]; ok {
				row[i] = formatValue(v)
			}
		}
		section.Table = append(section.Table, row)
	}
	return section
}

// label turns camelCase or snake_case keys into title-cased words
func (t *ReportTemplate) label(key string) string {
	return t.caser.String(splitWords(key))
}

func splitWords(key string) string {
	var b strings.Builder
	runes := []rune(key)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			continue
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]) && runes[i-1] != '_':
			b.WriteRune(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int, int64, int32:
		return fmt.Sprintf("%d", x)
	case map[string]any:
		parts := make([]string, 0, len(x))
		for _, k := range sortedKeys(x) {
			parts = append(parts, k+": "+formatValue(x[k]))
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
