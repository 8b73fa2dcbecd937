package memory

import (
	"context"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/document"
	"github.com/outvoice/backend/internal/domain/finance"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/trade"
)

// InvoiceStore implements billing.InvoiceRepository
type InvoiceStore struct{ *Store[*billing.Invoice] }

// NewInvoiceStore creates an empty invoice store
func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{NewStore(func(i *billing.Invoice) string { return i.ID }, (*billing.Invoice).Clone)}
}

func (s *InvoiceStore) FindByID(ctx context.Context, id string) (*billing.Invoice, error) {
	return s.find(ctx, id)
}

func (s *InvoiceStore) FindAll(ctx context.Context) ([]*billing.Invoice, error) {
	return s.List(), ctx.Err()
}

func (s *InvoiceStore) FindByClient(ctx context.Context, clientID string) ([]*billing.Invoice, error) {
	return s.Filter(func(i *billing.Invoice) bool { return i.Client.ID == clientID }), ctx.Err()
}

func (s *InvoiceStore) Save(ctx context.Context, invoice *billing.Invoice) error {
	return s.save(ctx, invoice)
}

// QuoteStore implements billing.QuoteRepository
type QuoteStore struct{ *Store[*billing.Quote] }

// NewQuoteStore creates an empty quote store
func NewQuoteStore() *QuoteStore {
	return &QuoteStore{NewStore(func(q *billing.Quote) string { return q.ID }, (*billing.Quote).Clone)}
}

func (s *QuoteStore) FindByID(ctx context.Context, id string) (*billing.Quote, error) {
	return s.find(ctx, id)
}

func (s *QuoteStore) FindAll(ctx context.Context) ([]*billing.Quote, error) {
	return s.List(), ctx.Err()
}

func (s *QuoteStore) FindByClient(ctx context.Context, clientID string) ([]*billing.Quote, error) {
	return s.Filter(func(q *billing.Quote) bool { return q.Client.ID == clientID }), ctx.Err()
}

func (s *QuoteStore) Save(ctx context.Context, quote *billing.Quote) error {
	return s.save(ctx, quote)
}

// ClientStore implements partner.ClientRepository
type ClientStore struct{ *Store[*partner.Client] }

// NewClientStore creates an empty client store
func NewClientStore() *ClientStore {
	return &ClientStore{NewStore(func(c *partner.Client) string { return c.ID }, (*partner.Client).Clone)}
}

func (s *ClientStore) FindByID(ctx context.Context, id string) (*partner.Client, error) {
	return s.find(ctx, id)
}

func (s *ClientStore) FindAll(ctx context.Context) ([]*partner.Client, error) {
	return s.List(), ctx.Err()
}

func (s *ClientStore) Save(ctx context.Context, client *partner.Client) error {
	return s.save(ctx, client)
}

// ProductStore implements inventory.ProductRepository
type ProductStore struct{ *Store[*inventory.Product] }

// NewProductStore creates an empty product store
func NewProductStore() *ProductStore {
	return &ProductStore{NewStore(func(p *inventory.Product) string { return p.ID }, (*inventory.Product).Clone)}
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (*inventory.Product, error) {
	return s.find(ctx, id)
}

func (s *ProductStore) FindAll(ctx context.Context) ([]*inventory.Product, error) {
	return s.List(), ctx.Err()
}

func (s *ProductStore) Save(ctx context.Context, product *inventory.Product) error {
	return s.save(ctx, product)
}

// PurchaseOrderStore implements trade.PurchaseOrderRepository
type PurchaseOrderStore struct{ *Store[*trade.PurchaseOrder] }

// NewPurchaseOrderStore creates an empty purchase order store
func NewPurchaseOrderStore() *PurchaseOrderStore {
	return &PurchaseOrderStore{NewStore(func(p *trade.PurchaseOrder) string { return p.ID }, (*trade.PurchaseOrder).Clone)}
}

func (s *PurchaseOrderStore) FindByID(ctx context.Context, id string) (*trade.PurchaseOrder, error) {
	return s.find(ctx, id)
}

func (s *PurchaseOrderStore) FindAll(ctx context.Context) ([]*trade.PurchaseOrder, error) {
	return s.List(), ctx.Err()
}

func (s *PurchaseOrderStore) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return s.save(ctx, order)
}

// TaskStore implements operations.TaskRepository
type TaskStore struct{ *Store[*operations.Task] }

// NewTaskStore creates an empty task store
func NewTaskStore() *TaskStore {
	return &TaskStore{NewStore(func(t *operations.Task) string { return t.ID }, (*operations.Task).Clone)}
}

func (s *TaskStore) FindByID(ctx context.Context, id string) (*operations.Task, error) {
	return s.find(ctx, id)
}

func (s *TaskStore) FindAll(ctx context.Context) ([]*operations.Task, error) {
	return s.List(), ctx.Err()
}

func (s *TaskStore) Save(ctx context.Context, task *operations.Task) error {
	return s.save(ctx, task)
}

func (s *TaskStore) Delete(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Store.Delete(ids...)
	return nil
}

// AppointmentStore implements operations.AppointmentRepository
type AppointmentStore struct{ *Store[*operations.Appointment] }

// NewAppointmentStore creates an empty appointment store
func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{NewStore(func(a *operations.Appointment) string { return a.ID }, (*operations.Appointment).Clone)}
}

func (s *AppointmentStore) FindByID(ctx context.Context, id string) (*operations.Appointment, error) {
	return s.find(ctx, id)
}

func (s *AppointmentStore) FindAll(ctx context.Context) ([]*operations.Appointment, error) {
	return s.List(), ctx.Err()
}

func (s *AppointmentStore) Save(ctx context.Context, appointment *operations.Appointment) error {
	return s.save(ctx, appointment)
}

// StaffStore implements operations.StaffRepository
type StaffStore struct{ *Store[*operations.StaffMember] }

// NewStaffStore creates an empty staff store
func NewStaffStore() *StaffStore {
	return &StaffStore{NewStore(func(m *operations.StaffMember) string { return m.ID }, (*operations.StaffMember).Clone)}
}

func (s *StaffStore) FindByID(ctx context.Context, id string) (*operations.StaffMember, error) {
	return s.find(ctx, id)
}

func (s *StaffStore) FindAll(ctx context.Context) ([]*operations.StaffMember, error) {
	return s.List(), ctx.Err()
}

func (s *StaffStore) Save(ctx context.Context, member *operations.StaffMember) error {
	return s.save(ctx, member)
}

// TimeEntryStore implements operations.TimeEntryRepository
type TimeEntryStore struct{ *Store[*operations.TimeEntry] }

// NewTimeEntryStore creates an empty time entry store
func NewTimeEntryStore() *TimeEntryStore {
	return &TimeEntryStore{NewStore(func(e *operations.TimeEntry) string { return e.ID }, (*operations.TimeEntry).Clone)}
}

func (s *TimeEntryStore) FindByID(ctx context.Context, id string) (*operations.TimeEntry, error) {
	return s.find(ctx, id)
}

func (s *TimeEntryStore) FindAll(ctx context.Context) ([]*operations.TimeEntry, error) {
	return s.List(), ctx.Err()
}

func (s *TimeEntryStore) Save(ctx context.Context, entry *operations.TimeEntry) error {
	return s.save(ctx, entry)
}

func (s *TimeEntryStore) Delete(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Store.Delete(ids...)
	return nil
}

// ExpenseStore implements finance.ExpenseRepository
type ExpenseStore struct{ *Store[*finance.Expense] }

// NewExpenseStore creates an empty expense store
func NewExpenseStore() *ExpenseStore {
	return &ExpenseStore{NewStore(func(e *finance.Expense) string { return e.ID }, (*finance.Expense).Clone)}
}

func (s *ExpenseStore) FindByID(ctx context.Context, id string) (*finance.Expense, error) {
	return s.find(ctx, id)
}

func (s *ExpenseStore) FindAll(ctx context.Context) ([]*finance.Expense, error) {
	return s.List(), ctx.Err()
}

func (s *ExpenseStore) Save(ctx context.Context, expense *finance.Expense) error {
	return s.save(ctx, expense)
}

// FileStore implements document.FileRepository
type FileStore struct{ *Store[*document.ManagedFile] }

// NewFileStore creates an empty file metadata store
func NewFileStore() *FileStore {
	return &FileStore{NewStore(func(f *document.ManagedFile) string { return f.ID }, (*document.ManagedFile).Clone)}
}

func (s *FileStore) FindByID(ctx context.Context, id string) (*document.ManagedFile, error) {
	return s.find(ctx, id)
}

func (s *FileStore) FindAll(ctx context.Context) ([]*document.ManagedFile, error) {
	return s.List(), ctx.Err()
}

func (s *FileStore) FindByClient(ctx context.Context, clientID string) ([]*document.ManagedFile, error) {
	return s.Filter(func(f *document.ManagedFile) bool { return f.ClientID == clientID }), ctx.Err()
}

func (s *FileStore) Save(ctx context.Context, file *document.ManagedFile) error {
	return s.save(ctx, file)
}

// FormStore implements document.FormRepository
type FormStore struct{ *Store[*document.CustomForm] }

// NewFormStore creates an empty form store
func NewFormStore() *FormStore {
	return &FormStore{NewStore(func(f *document.CustomForm) string { return f.ID }, (*document.CustomForm).Clone)}
}

func (s *FormStore) FindByID(ctx context.Context, id string) (*document.CustomForm, error) {
	return s.find(ctx, id)
}

func (s *FormStore) FindAll(ctx context.Context) ([]*document.CustomForm, error) {
	return s.List(), ctx.Err()
}

func (s *FormStore) Save(ctx context.Context, form *document.CustomForm) error {
	return s.save(ctx, form)
}

// SubmissionStore implements document.SubmissionRepository
type SubmissionStore struct{ *Store[*document.FormSubmission] }

// NewSubmissionStore creates an empty submission store
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{NewStore(func(s *document.FormSubmission) string { return s.ID }, (*document.FormSubmission).Clone)}
}

func (s *SubmissionStore) FindByForm(ctx context.Context, formID string) ([]*document.FormSubmission, error) {
	return s.Filter(func(sub *document.FormSubmission) bool { return sub.FormID == formID }), ctx.Err()
}

func (s *SubmissionStore) Save(ctx context.Context, submission *document.FormSubmission) error {
	return s.save(ctx, submission)
}

var (
	_ billing.InvoiceRepository        = (*InvoiceStore)(nil)
	_ billing.QuoteRepository          = (*QuoteStore)(nil)
	_ partner.ClientRepository         = (*ClientStore)(nil)
	_ inventory.ProductRepository      = (*ProductStore)(nil)
	_ trade.PurchaseOrderRepository    = (*PurchaseOrderStore)(nil)
	_ operations.TaskRepository        = (*TaskStore)(nil)
	_ operations.AppointmentRepository = (*AppointmentStore)(nil)
	_ operations.StaffRepository       = (*StaffStore)(nil)
	_ operations.TimeEntryRepository   = (*TimeEntryStore)(nil)
	_ finance.ExpenseRepository        = (*ExpenseStore)(nil)
	_ document.FileRepository          = (*FileStore)(nil)
	_ document.FormRepository          = (*FormStore)(nil)
	_ document.SubmissionRepository    = (*SubmissionStore)(nil)
)
