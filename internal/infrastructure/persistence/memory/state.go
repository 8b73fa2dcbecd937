package memory

import "github.com/outvoice/backend/internal/domain/company"

// State is the whole application state. It is built once at start-up and
// handed to the services that need it; nothing here is global.
type State struct {
	Profile        *ProfileStore
	Clients        *ClientStore
	Invoices       *InvoiceStore
	Quotes         *QuoteStore
	Products       *ProductStore
	PurchaseOrders *PurchaseOrderStore
	Tasks          *TaskStore
	Appointments   *AppointmentStore
	Staff          *StaffStore
	TimeEntries    *TimeEntryStore
	Expenses       *ExpenseStore
	Files          *FileStore
	Forms          *FormStore
	Submissions    *SubmissionStore
}

// NewState creates an empty state with the default company profile
func NewState() *State {
	return &State{
		Profile:        NewProfileStore(company.DefaultProfile()),
		Clients:        NewClientStore(),
		Invoices:       NewInvoiceStore(),
		Quotes:         NewQuoteStore(),
		Products:       NewProductStore(),
		PurchaseOrders: NewPurchaseOrderStore(),
		Tasks:          NewTaskStore(),
		Appointments:   NewAppointmentStore(),
		Staff:          NewStaffStore(),
		TimeEntries:    NewTimeEntryStore(),
		Expenses:       NewExpenseStore(),
		Files:          NewFileStore(),
		Forms:          NewFormStore(),
		Submissions:    NewSubmissionStore(),
	}
}
