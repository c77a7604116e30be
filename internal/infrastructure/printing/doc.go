// Package printing turns report snapshots into PDF documents.
//
// ReportTemplate renders a report to HTML and ChromedpRenderer prints that
// HTML to PDF through a headless Chrome, local or remote:
//
//	html, err := printing.NewReportTemplate().Render(doc)
//	result, err := renderer.Render(ctx, &printing.RenderRequest{HTML: html, Title: doc.Title})
package printing
