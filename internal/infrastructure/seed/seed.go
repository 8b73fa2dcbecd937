// Package seed loads the demo data set into a fresh in-memory state.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/document"
	"github.com/outvoice/backend/internal/domain/finance"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultData []byte

// todayToken in a date field resolves to the day the data is loaded
const todayToken = "today"

// Data is the YAML layout of a seed file
type Data struct {
	Company      companyData       `yaml:"company"`
	Clients      []clientData      `yaml:"clients"`
	Products     []productData     `yaml:"products"`
	Staff        []staffData       `yaml:"staff"`
	Invoices     []invoiceData     `yaml:"invoices"`
	Quotes       []quoteData       `yaml:"quotes"`
	TimeEntries  []timeEntryData   `yaml:"time_entries"`
	Expenses     []expenseData     `yaml:"expenses"`
	Files        []fileData        `yaml:"files"`
	Tasks        []taskData        `yaml:"tasks"`
	Appointments []appointmentData `yaml:"appointments"`
	Forms        []formData        `yaml:"forms"`
}

type companyData struct {
	Name               string `yaml:"name"`
	Address            string `yaml:"address"`
	Logo               string `yaml:"logo"`
	RegistrationNumber string `yaml:"registration_number"`
	VatNumber          string `yaml:"vat_number"`
	InvoicePrefix      string `yaml:"invoice_prefix"`
	InvoiceCounter     int    `yaml:"invoice_counter"`
	DefaultTerms       string `yaml:"default_terms"`
	BankDetails        string `yaml:"bank_details"`
	TaxRate            string `yaml:"tax_rate"`
	PreferredGateway   string `yaml:"preferred_gateway"`
	PayfastMerchantID  string `yaml:"payfast_merchant_id"`
	PayfastMerchantKey string `yaml:"payfast_merchant_key"`
	YocoPublicKey      string `yaml:"yoco_public_key"`
	YocoSecretKey      string `yaml:"yoco_secret_key"`
}

type clientData struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Email        string   `yaml:"email"`
	Address      string   `yaml:"address"`
	HourlyRate   string   `yaml:"hourly_rate"`
	KycStatus    string   `yaml:"kyc_status"`
	RequiredDocs []string `yaml:"required_docs"`
}

type productData struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	SKU          string `yaml:"sku"`
	CurrentStock string `yaml:"current_stock"`
	Price        string `yaml:"price"`
	Cost         string `yaml:"cost"`
	ReorderPoint string `yaml:"reorder_point"`
}

type staffData struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

type itemData struct {
	Description string `yaml:"description"`
	ProductID   string `yaml:"product_id"`
	Quantity    string `yaml:"quantity"`
	Rate        string `yaml:"rate"`
	Cost        string `yaml:"cost"`
}

type invoiceData struct {
	Number        string     `yaml:"number"`
	ClientID      string     `yaml:"client_id"`
	IssueDate     string     `yaml:"issue_date"`
	DueDate       string     `yaml:"due_date"`
	Status        string     `yaml:"status"`
	PaymentMethod string     `yaml:"payment_method"`
	Notes         string     `yaml:"notes"`
	TaxRate       string     `yaml:"tax_rate"`
	Items         []itemData `yaml:"items"`
}

type quoteData struct {
	Number     string     `yaml:"number"`
	ClientID   string     `yaml:"client_id"`
	IssueDate  string     `yaml:"issue_date"`
	ExpiryDate string     `yaml:"expiry_date"`
	Status     string     `yaml:"status"`
	Notes      string     `yaml:"notes"`
	Items      []itemData `yaml:"items"`
}

type timeEntryData struct {
	ID          string `yaml:"id"`
	ClientID    string `yaml:"client_id"`
	Date        string `yaml:"date"`
	Hours       string `yaml:"hours"`
	Description string `yaml:"description"`
}

type expenseData struct {
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	Vendor      string `yaml:"vendor"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	ClientID    string `yaml:"client_id"`
}

type fileData struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Size       int64  `yaml:"size"`
	ClientID   string `yaml:"client_id"`
	UploadDate string `yaml:"upload_date"`
	Tag        string `yaml:"tag"`
}

type taskData struct {
	ID               string `yaml:"id"`
	Title            string `yaml:"title"`
	DueDate          string `yaml:"due_date"`
	RelatedInvoiceID string `yaml:"related_invoice_id"`
	Status           string `yaml:"status"`
	AssigneeID       string `yaml:"assignee_id"`
}

type appointmentData struct {
	ID       string `yaml:"id"`
	ClientID string `yaml:"client_id"`
	Date     string `yaml:"date"`
	Time     string `yaml:"time"`
	Notes    string `yaml:"notes"`
	Status   string `yaml:"status"`
}

type formData struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Fields      []fieldData `yaml:"fields"`
}

type fieldData struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
}

// Parse decodes a seed file
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &d, nil
}

// Default returns the embedded demo data set
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Loader writes seed data into a state
type Loader struct {
	state  *memory.State
	logger *zap.Logger
	today  valueobject.Date
}

// NewLoader creates a loader. today resolves the "today" token.
func NewLoader(state *memory.State, logger *zap.Logger, today valueobject.Date) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{state: state, logger: logger, today: today}
}

// LoadDefault loads the embedded demo data set
func (l *Loader) LoadDefault(ctx context.Context) error {
	d, err := Default()
	if err != nil {
		return err
	}
	return l.Load(ctx, d)
}

// Load writes every record in d. Clients and products go first so that
// invoices and quotes can snapshot them.
func (l *Loader) Load(ctx context.Context, d *Data) error {
	steps := []struct {
		name string
		run  func(context.Context, *Data) error
	}{
		{"company", l.loadCompany},
		{"clients", l.loadClients},
		{"products", l.loadProducts},
		{"staff", l.loadStaff},
		{"invoices", l.loadInvoices},
		{"quotes", l.loadQuotes},
		{"time entries", l.loadTimeEntries},
		{"expenses", l.loadExpenses},
		{"files", l.loadFiles},
		{"tasks", l.loadTasks},
		{"appointments", l.loadAppointments},
		{"forms", l.loadForms},
	}
	for _, step := range steps {
		if err := step.run(ctx, d); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	l.logger.Info("Seed data loaded",
		zap.Int("clients", len(d.Clients)),
		zap.Int("invoices", len(d.Invoices)),
		zap.Int("quotes", len(d.Quotes)),
		zap.Int("products", len(d.Products)),
		zap.Int("tasks", len(d.Tasks)),
	)
	return nil
}

func (l *Loader) loadCompany(ctx context.Context, d *Data) error {
	c := d.Company
	taxRate, err := parseDecimal(c.TaxRate, "tax_rate")
	if err != nil {
		return err
	}
	profile := company.Profile{
		Name:               c.Name,
		Address:            c.Address,
		Logo:               c.Logo,
		RegistrationNumber: c.RegistrationNumber,
		VatNumber:          c.VatNumber,
		InvoicePrefix:      c.InvoicePrefix,
		InvoiceCounter:     c.InvoiceCounter,
		DefaultTerms:       c.DefaultTerms,
		BankDetails:        c.BankDetails,
		TaxRate:            taxRate,
		PreferredGateway:   company.PaymentGateway(c.PreferredGateway),
		PayfastMerchantID:  c.PayfastMerchantID,
		PayfastMerchantKey: c.PayfastMerchantKey,
		YocoPublicKey:      c.YocoPublicKey,
		YocoSecretKey:      c.YocoSecretKey,
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	return l.state.Profile.Save(ctx, profile)
}

func (l *Loader) loadClients(ctx context.Context, d *Data) error {
	for _, c := range d.Clients {
		rate, err := parseDecimal(c.HourlyRate, "hourly_rate")
		if err != nil {
			return err
		}
		client, err := partner.NewClient(c.ID, c.Name, c.Email, c.Address, rate)
		if err != nil {
			return fmt.Errorf("client %s: %w", c.ID, err)
		}
		status := partner.KycStatus(c.KycStatus)
		if !status.IsValid() {
			return fmt.Errorf("client %s: invalid kyc status %q", c.ID, c.KycStatus)
		}
		client.KycStatus = status
		client.RequiredDocs = make([]partner.RequiredDoc, 0, len(c.RequiredDocs))
		for _, doc := range c.RequiredDocs {
			client.RequiredDocs = append(client.RequiredDocs, partner.RequiredDoc(doc))
		}
		if err := l.state.Clients.Save(ctx, client); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadProducts(ctx context.Context, d *Data) error {
	for _, p := range d.Products {
		details := inventory.ProductDetails{Name: p.Name, SKU: p.SKU}
		var err error
		if details.CurrentStock, err = parseDecimal(p.CurrentStock, "current_stock"); err != nil {
			return err
		}
		if details.Price, err = parseDecimal(p.Price, "price"); err != nil {
			return err
		}
		if details.Cost, err = parseDecimal(p.Cost, "cost"); err != nil {
			return err
		}
		if p.ReorderPoint != "" {
			rp, err := parseDecimal(p.ReorderPoint, "reorder_point")
			if err != nil {
				return err
			}
			details.ReorderPoint = &rp
		}
		product, err := inventory.NewProduct(p.ID, details)
		if err != nil {
			return fmt.Errorf("product %s: %w", p.ID, err)
		}
		if err := l.state.Products.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadStaff(ctx context.Context, d *Data) error {
	for _, s := range d.Staff {
		member, err := operations.NewStaffMember(s.ID, s.Name, s.Email, s.Role)
		if err != nil {
			return fmt.Errorf("staff %s: %w", s.ID, err)
		}
		if err := l.state.Staff.Save(ctx, member); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadInvoices(ctx context.Context, d *Data) error {
	profile, err := l.state.Profile.Get(ctx)
	if err != nil {
		return err
	}
	for _, in := range d.Invoices {
		client, err := l.state.Clients.FindByID(ctx, in.ClientID)
		if err != nil {
			return fmt.Errorf("invoice %s: %w", in.Number, err)
		}
		items, err := l.items(ctx, in.Items)
		if err != nil {
			return fmt.Errorf("invoice %s: %w", in.Number, err)
		}
		draft := billing.InvoiceDraft{Client: client.Snapshot(), Items: items, Notes: in.Notes}
		if draft.IssueDate, err = l.date(in.IssueDate); err != nil {
			return err
		}
		if draft.DueDate, err = l.date(in.DueDate); err != nil {
			return err
		}
		inv, err := billing.NewInvoiceDraft(draft)
		if err != nil {
			return fmt.Errorf("invoice %s: %w", in.Number, err)
		}
		if err := inv.AssignNumber(in.Number); err != nil {
			return err
		}
		rate := profile.TaxRate
		if in.TaxRate != "" {
			if rate, err = parseDecimal(in.TaxRate, "tax_rate"); err != nil {
				return err
			}
		}
		inv.ApplyTotals(rate)
		status := billing.InvoiceStatus(in.Status)
		if !status.IsValid() {
			return fmt.Errorf("invoice %s: invalid status %q", in.Number, in.Status)
		}
		inv.Status = status
		inv.PaymentMethod = in.PaymentMethod
		if status == billing.InvoiceStatusPaid {
			inv.AmountPaid = inv.Total
		}
		inv.ClearDomainEvents()
		if err := l.state.Invoices.Save(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadQuotes(ctx context.Context, d *Data) error {
	profile, err := l.state.Profile.Get(ctx)
	if err != nil {
		return err
	}
	for _, qd := range d.Quotes {
		client, err := l.state.Clients.FindByID(ctx, qd.ClientID)
		if err != nil {
			return fmt.Errorf("quote %s: %w", qd.Number, err)
		}
		items, err := l.items(ctx, qd.Items)
		if err != nil {
			return fmt.Errorf("quote %s: %w", qd.Number, err)
		}
		draft := billing.QuoteDraft{Client: client.Snapshot(), Items: items, Notes: qd.Notes}
		if draft.IssueDate, err = l.date(qd.IssueDate); err != nil {
			return err
		}
		if draft.ExpiryDate, err = l.date(qd.ExpiryDate); err != nil {
			return err
		}
		q, err := billing.NewQuoteDraft(draft)
		if err != nil {
			return fmt.Errorf("quote %s: %w", qd.Number, err)
		}
		if err := q.AssignNumber(qd.Number); err != nil {
			return err
		}
		q.ApplyTotals(profile.TaxRate)
		status := billing.QuoteStatus(qd.Status)
		if !status.IsValid() {
			return fmt.Errorf("quote %s: invalid status %q", qd.Number, qd.Status)
		}
		q.Status = status
		q.ClearDomainEvents()
		if err := l.state.Quotes.Save(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadTimeEntries(ctx context.Context, d *Data) error {
	for _, te := range d.TimeEntries {
		date, err := l.date(te.Date)
		if err != nil {
			return err
		}
		hours, err := parseDecimal(te.Hours, "hours")
		if err != nil {
			return err
		}
		entry, err := operations.NewTimeEntry(te.ID, te.ClientID, date, hours, te.Description)
		if err != nil {
			return fmt.Errorf("time entry %s: %w", te.ID, err)
		}
		if err := l.state.TimeEntries.Save(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadExpenses(ctx context.Context, d *Data) error {
	for _, e := range d.Expenses {
		details := finance.ExpenseDetails{Vendor: e.Vendor, Description: e.Description, ClientID: e.ClientID}
		var err error
		if details.Date, err = l.date(e.Date); err != nil {
			return err
		}
		if details.Amount, err = parseDecimal(e.Amount, "amount"); err != nil {
			return err
		}
		expense, err := finance.NewExpense(e.ID, details, l.today)
		if err != nil {
			return fmt.Errorf("expense %s: %w", e.ID, err)
		}
		if err := l.state.Expenses.Save(ctx, expense); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadFiles(ctx context.Context, d *Data) error {
	for _, f := range d.Files {
		uploaded, err := l.date(f.UploadDate)
		if err != nil {
			return err
		}
		file, err := document.NewManagedFile(f.ID, f.Name, f.Type, f.Size, f.ClientID, document.FileTag(f.Tag), uploaded)
		if err != nil {
			return fmt.Errorf("file %s: %w", f.ID, err)
		}
		if err := l.state.Files.Save(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadTasks(ctx context.Context, d *Data) error {
	for _, t := range d.Tasks {
		due, err := l.date(t.DueDate)
		if err != nil {
			return err
		}
		task, err := operations.NewTask(t.ID, operations.TaskDetails{
			Title:            t.Title,
			DueDate:          due,
			RelatedInvoiceID: t.RelatedInvoiceID,
			AssigneeID:       t.AssigneeID,
		})
		if err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
		if t.Status != "" {
			if err := task.ChangeStatus(operations.TaskStatus(t.Status)); err != nil {
				return fmt.Errorf("task %s: %w", t.ID, err)
			}
		}
		if err := l.state.Tasks.Save(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadAppointments(ctx context.Context, d *Data) error {
	for _, a := range d.Appointments {
		date, err := l.date(a.Date)
		if err != nil {
			return err
		}
		client, err := l.state.Clients.FindByID(ctx, a.ClientID)
		if err != nil {
			return fmt.Errorf("appointment %s: %w", a.ID, err)
		}
		appt, err := operations.NewAppointment(a.ID, client.ID, client.Name, date, a.Time, a.Notes)
		if err != nil {
			return fmt.Errorf("appointment %s: %w", a.ID, err)
		}
		switch operations.AppointmentStatus(a.Status) {
		case operations.AppointmentStatusConfirmed:
			err = appt.Confirm()
		case operations.AppointmentStatusCancelled:
			err = appt.Cancel()
		}
		if err != nil {
			return fmt.Errorf("appointment %s: %w", a.ID, err)
		}
		if err := l.state.Appointments.Save(ctx, appt); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadForms(ctx context.Context, d *Data) error {
	for _, f := range d.Forms {
		fields := make([]document.FormField, 0, len(f.Fields))
		for _, fd := range f.Fields {
			fields = append(fields, document.FormField{
				ID:       fd.ID,
				Label:    fd.Label,
				Type:     document.FieldType(fd.Type),
				Required: fd.Required,
			})
		}
		form, err := document.NewCustomForm(f.ID, f.Title, f.Description, fields)
		if err != nil {
			return fmt.Errorf("form %s: %w", f.ID, err)
		}
		if err := l.state.Forms.Save(ctx, form); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) items(ctx context.Context, in []itemData) ([]billing.LineItem, error) {
	items := make([]billing.LineItem, 0, len(in))
	for _, it := range in {
		qty, err := parseDecimal(it.Quantity, "quantity")
		if err != nil {
			return nil, err
		}
		rate, err := parseDecimal(it.Rate, "rate")
		if err != nil {
			return nil, err
		}
		item, err := billing.NewLineItem(it.Description, qty, rate)
		if err != nil {
			return nil, err
		}
		if it.Cost != "" {
			cost, err := parseDecimal(it.Cost, "cost")
			if err != nil {
				return nil, err
			}
			item.SetCost(cost)
		}
		if it.ProductID != "" {
			product, err := l.state.Products.FindByID(ctx, it.ProductID)
			if err != nil {
				return nil, fmt.Errorf("line item product %s: %w", it.ProductID, err)
			}
			item = item.WithProduct(product.ID)
		}
		items = append(items, item)
	}
	return items, nil
}

func (l *Loader) date(s string) (valueobject.Date, error) {
	if s == "" {
		return valueobject.Date{}, nil
	}
	if s == todayToken {
		return l.today, nil
	}
	d, err := valueobject.ParseDate(s)
	if err != nil {
		return valueobject.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func parseDecimal(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return v, nil
}
