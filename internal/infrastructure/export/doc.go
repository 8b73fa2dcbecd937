// Package export renders billing documents and reports for download:
// CSV for spreadsheets, HTML print views, and PDF through headless Chrome.
package export
