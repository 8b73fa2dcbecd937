package report

import (
	"fmt"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
)

// QuoteFollowUpDays is how far ahead a sent quote's expiry triggers a follow-up
const QuoteFollowUpDays = 7

// ToDoType is the source of a to-do item
type ToDoType string

const (
	ToDoTypeInvoice ToDoType = "invoice"
	ToDoTypeQuote   ToDoType = "quote"
	ToDoTypeTask    ToDoType = "task"
)

// ToDoItem is one entry of the daily feed
type ToDoItem struct {
	ID        string   `json:"id"`
	Type      ToDoType `json:"type"`
	Text      string   `json:"text"`
	RelatedID string   `json:"related_id"`
}

// DailyToDos builds the daily feed: overdue invoices first, then sent quotes
// expiring within a week (already expired ones included), then open tasks due
// exactly today. Each group keeps the order of its source collection.
func DailyToDos(invoices []*billing.Invoice, quotes []*billing.Quote, tasks []*operations.Task, today valueobject.Date) []ToDoItem {
	items := make([]ToDoItem, 0)
	for _, inv := range OverdueInvoices(invoices, today) {
		items = append(items, ToDoItem{
			ID:        "todo-inv-" + inv.ID,
			Type:      ToDoTypeInvoice,
			Text:      fmt.Sprintf("Follow up on overdue invoice %s for %s.", inv.InvoiceNumber, inv.Client.Name),
			RelatedID: inv.ID,
		})
	}

	horizon := today.AddDays(QuoteFollowUpDays)
	for _, q := range quotes {
		if !q.ExpiresBy(horizon) {
			continue
		}
		items = append(items, ToDoItem{
			ID:        "todo-quote-" + q.ID,
			Type:      ToDoTypeQuote,
			Text:      fmt.Sprintf("Follow up on quote %s for %s (expires %s).", q.QuoteNumber, q.Client.Name, q.ExpiryDate),
			RelatedID: q.ID,
		})
	}

	for _, t := range tasks {
		if !t.DueOn(today) {
			continue
		}
		items = append(items, ToDoItem{
			ID:        "todo-task-" + t.ID,
			Type:      ToDoTypeTask,
			Text:      fmt.Sprintf("Task due today: \"%s\".", t.Title),
			RelatedID: t.ID,
		})
	}
	return items
}
