// Package billing implements the billing document engine: line items and
// totals, invoice and quote lifecycles, and the numbering rules that keep
// document numbers unique.
//
// Invoices and quotes embed a value copy of the client taken when the
// document is created; later client edits never rewrite issued documents.
package billing
