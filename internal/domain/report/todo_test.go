package report

import (
	"testing"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentQuote(t *testing.T, number, expiry string) *billing.Quote {
	t.Helper()
	item, err := billing.NewLineItem("Fleet Management System", decimal.NewFromInt(1), decimal.NewFromInt(45000))
	require.NoError(t, err)
	q, err := billing.NewQuoteDraft(billing.QuoteDraft{
		Client:     client1(),
		IssueDate:  valueobject.MustParseDate("2024-08-01"),
		ExpiryDate: valueobject.MustParseDate(expiry),
		Items:      []billing.LineItem{item},
	})
	require.NoError(t, err)
	require.NoError(t, q.AssignNumber(number))
	require.NoError(t, q.Send())
	return q
}

func task(t *testing.T, id, title, due string, status operations.TaskStatus) *operations.Task {
	t.Helper()
	tk, err := operations.NewTask(id, operations.TaskDetails{Title: title, DueDate: valueobject.MustParseDate(due)})
	require.NoError(t, err)
	require.NoError(t, tk.ChangeStatus(status))
	return tk
}

func TestDailyToDos(t *testing.T) {
	today := valueobject.MustParseDate("2024-08-25")

	overdue := buildInvoice(t, invoiceSpec{number: "INV-0003", issue: "2024-06-01", due: "2024-07-01", status: billing.InvoiceStatusOverdue, desc: "Server Maintenance", qty: 1, rate: 5000})
	paid := buildInvoice(t, invoiceSpec{number: "INV-0001", issue: "2024-06-01", due: "2024-07-01", status: billing.InvoiceStatusPaid, desc: "Web", qty: 1, rate: 5000})

	soon := sentQuote(t, "Q-001", "2024-08-31")
	later := sentQuote(t, "Q-002", "2024-09-30")
	boundary := sentQuote(t, "Q-003", "2024-09-01")

	todo := task(t, "task-2", "Develop user auth", "2024-08-25", operations.TaskStatusToDo)
	done := task(t, "task-3", "Deploy to production", "2024-08-25", operations.TaskStatusDone)
	tomorrow := task(t, "task-4", "Tomorrow", "2024-08-26", operations.TaskStatusInProgress)

	got := DailyToDos(
		[]*billing.Invoice{paid, overdue},
		[]*billing.Quote{soon, later, boundary},
		[]*operations.Task{done, todo, tomorrow},
		today,
	)

	require.Len(t, got, 4)
	assert.Equal(t, ToDoItem{
		ID:        "todo-inv-INV-0003",
		Type:      ToDoTypeInvoice,
		Text:      "Follow up on overdue invoice INV-0003 for Innovate Solutions Pty Ltd.",
		RelatedID: "INV-0003",
	}, got[0])
	assert.Equal(t, "Follow up on quote Q-001 for Innovate Solutions Pty Ltd (expires 2024-08-31).", got[1].Text)
	assert.Equal(t, "todo-quote-Q-003", got[2].ID)
	assert.Equal(t, ToDoItem{
		ID:        "todo-task-task-2",
		Type:      ToDoTypeTask,
		Text:      `Task due today: "Develop user auth".`,
		RelatedID: "task-2",
	}, got[3])
}

func TestDailyToDos_TaskAppearsOnce(t *testing.T) {
	today := valueobject.MustParseDate("2024-08-25")
	tk := task(t, "task-1", "Call client", "2024-08-25", operations.TaskStatusToDo)

	got := DailyToDos(nil, nil, []*operations.Task{tk}, today)
	require.Len(t, got, 1)
	assert.Equal(t, ToDoTypeTask, got[0].Type)
}
