// Package assistant drafts text with the hosted language model: summaries,
// answers, emails, documents, schedules, forecasts and document extraction.
// Every call belongs to a surface; callers that pass a surface key get
// request-generation tracking, so a superseded call reports STALE_REQUEST.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/ai"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const askFallback = "Please ask a question."

var vatNumberPattern = regexp.MustCompile(`^4\d{9}$`)

// AIMetrics records AI call outcomes
type AIMetrics interface {
	RecordAIRequest(ctx context.Context, surface string, err error, elapsed time.Duration)
}

// Service drafts content from the business data
type Service struct {
	generator   ai.TextGenerator
	generations *ai.Generations
	invoiceRepo billing.InvoiceRepository
	quoteRepo   billing.QuoteRepository
	clientRepo  partner.ClientRepository
	productRepo inventory.ProductRepository
	profileRepo company.ProfileRepository
	metrics     AIMetrics
	now         func() time.Time
}

// NewService creates a new assistant Service
func NewService(
	generator ai.TextGenerator,
	invoiceRepo billing.InvoiceRepository,
	quoteRepo billing.QuoteRepository,
	clientRepo partner.ClientRepository,
	productRepo inventory.ProductRepository,
	profileRepo company.ProfileRepository,
) *Service {
	if generator == nil {
		generator = ai.Disabled{}
	}
	return &Service{
		generator:   generator,
		generations: ai.NewGenerations(),
		invoiceRepo: invoiceRepo,
		quoteRepo:   quoteRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// SetMetrics sets the recorder for AI call outcomes
func (s *Service) SetMetrics(metrics AIMetrics) {
	s.metrics = metrics
}

func (s *Service) today() valueobject.Date {
	return valueobject.DateOf(s.now())
}

// generate runs one model call on surface. A non-empty key is tracked per
// surface, so a newer call with the same key cancels this one.
func (s *Service) generate(ctx context.Context, surface, key string, p ai.Prompt) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "assistant", surface,
		telemetry.SpanAttrAISurface, surface,
		telemetry.SpanAttrAISurfaceKey, key)
	defer span.End()

	trackKey := ""
	if key != "" {
		trackKey = surface + ":" + key
	}

	started := time.Now()
	out, err := ai.Track(ctx, s.generations, trackKey, func(ctx context.Context) (string, error) {
		return s.generator.Generate(ctx, p)
	})
	err = ai.RequestFailed(err)
	if s.metrics != nil {
		s.metrics.RecordAIRequest(ctx, surface, err, time.Since(started))
	}
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Warn("AI request failed",
			zap.String("surface", surface),
			zap.String("surface_key", key),
			zap.Error(err))
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *Service) generateText(ctx context.Context, surface, key string, p ai.Prompt) (*TextResponse, error) {
	text, err := s.generate(ctx, surface, key, p)
	if err != nil {
		return nil, err
	}
	return &TextResponse{Text: text}, nil
}

// InvoiceSummary writes a one-sentence description of the line items.
// Items without descriptions produce an empty summary without calling the model.
func (s *Service) InvoiceSummary(ctx context.Context, req SummaryRequest) (*TextResponse, error) {
	lines := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s x %s @ %s", item.Quantity.String(), desc, item.Rate.StringFixed(2)))
	}
	if len(lines) == 0 {
		return &TextResponse{}, nil
	}
	return s.generateText(ctx, SurfaceSummary, req.SurfaceKey, ai.Prompt{
		User: "Based on the following line items for an invoice, generate a single, concise, professional " +
			"summary sentence to be used as the overall invoice description. Line items: " + strings.Join(lines, "; "),
	})
}

// Ask answers a question over the current invoices and clients
func (s *Service) Ask(ctx context.Context, req AskRequest) (*TextResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return &TextResponse{Text: askFallback}, nil
	}
	invoices, err := s.invoiceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()

	invoiceData, err := marshalFacts(invoiceFacts(invoices, today))
	if err != nil {
		return nil, err
	}
	clientData, err := marshalFacts(clientFacts(clients))
	if err != nil {
		return nil, err
	}

	return s.generateText(ctx, SurfaceAssistant, req.SurfaceKey, ai.Prompt{
		System: "You are TollieB AI, an expert financial assistant for South African small businesses using the " +
			"Outvoicing app. Your tone is helpful, professional, and encouraging. Based on the provided JSON data " +
			"of invoices and clients, answer the user's question accurately. Format your answers clearly using " +
			"markdown for lists, bolding, etc. if it improves readability. All monetary values are in the " +
			"invoice's currency, South African Rand (ZAR) unless stated. Do not mention that you are an AI or that " +
			"you were given JSON data. Just answer the question as a helpful assistant with access to the user's " +
			"business data.",
		User: fmt.Sprintf("Here is the current data for the business. Today is %s.\nInvoices: %s\nClients: %s\n\nUser's question: %q",
			today, invoiceData, clientData, question),
	})
}

type draftReply struct {
	Client struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"client"`
	Items []DraftItem `json:"items"`
	Notes string      `json:"notes"`
}

// DraftInvoice extracts a client and line items from free text. The client
// is matched against the stored clients, by id first and then by name.
func (s *Service) DraftInvoice(ctx context.Context, req DraftInvoiceRequest) (*DraftInvoiceResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Input text cannot be empty")
	}
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	type clientRef struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	refs := make([]clientRef, len(clients))
	for i, c := range clients {
		refs[i] = clientRef{ID: c.ID, Name: c.Name}
	}
	clientList, err := marshalFacts(refs)
	if err != nil {
		return nil, err
	}

	out, err := s.generate(ctx, SurfaceAutomation, req.SurfaceKey, ai.Prompt{
		System: "You are an intelligent assistant for an invoicing app. You extract invoice details from messages.",
		User: "Analyze the following text, which could be from an email or a WhatsApp message, and extract details " +
			"to create a draft invoice.\n\nHere is the list of existing clients you can match against:\n" + clientList +
			"\n\nAnalyze this text:\n---\n" + text + "\n---\n\n" +
			"Extract the client's name and match it to one from the provided list. Also, extract all line items with " +
			"their description, quantity, and rate if possible. If quantity or rate is not mentioned, make a " +
			"reasonable assumption (e.g., quantity 1). Return a JSON object of the form " +
			`{"client": {"id": "...", "name": "..."}, "items": [{"description": "...", "quantity": 1, "rate": 0}], "notes": "..."}` +
			". The client object must contain the ID of the matched client.",
		JSON: true,
	})
	if err != nil {
		return nil, err
	}
	var reply draftReply
	if err := ai.DecodeJSON(out, &reply); err != nil {
		return nil, err
	}

	resp := &DraftInvoiceResponse{Notes: strings.TrimSpace(reply.Notes), Items: make([]DraftItem, 0, len(reply.Items))}
	if match := matchClient(clients, reply.Client.ID, reply.Client.Name); match != nil {
		resp.ClientID = match.ID
		resp.ClientName = match.Name
	}
	for _, item := range reply.Items {
		item.Description = strings.TrimSpace(item.Description)
		if item.Description == "" {
			continue
		}
		if !item.Quantity.IsPositive() {
			item.Quantity = decimal.NewFromInt(1)
		}
		if item.Rate.IsNegative() {
			item.Rate = decimal.Zero
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

func matchClient(clients []*partner.Client, id, name string) *partner.Client {
	for _, c := range clients {
		if id != "" && c.ID == id {
			return c
		}
	}
	name = strings.TrimSpace(name)
	for _, c := range clients {
		if name != "" && strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// DraftMessage writes a payment reminder, quote follow-up or thank-you email
func (s *Service) DraftMessage(ctx context.Context, req MessageRequest) (*TextResponse, error) {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("Draft an email body based on the following request. Keep it concise.\n\n")

	switch req.Type {
	case MessageReminder, MessageThankYou:
		inv, err := s.requireInvoice(ctx, req.InvoiceID)
		if err != nil {
			return nil, err
		}
		if req.Type == MessageReminder {
			fmt.Fprintf(&b, "Request: Draft a payment reminder for invoice %s which was due on %s. The amount due is %s %s. The client's name is %s.",
				inv.InvoiceNumber, inv.DueDate, inv.Currency, inv.Balance().StringFixed(2), inv.Client.Name)
		} else {
			fmt.Fprintf(&b, "Request: Draft a thank you message to %s for their payment of invoice %s.",
				inv.Client.Name, inv.InvoiceNumber)
		}
	case MessageQuoteFollowUp:
		if req.QuoteID == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "A quote is required for a follow-up")
		}
		q, err := s.quoteRepo.FindByID(ctx, req.QuoteID)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "Request: Draft a follow-up message regarding quote %s sent to %s. The quote total is %s %s and it expires on %s. Ask if they have any questions.",
			q.QuoteNumber, q.Client.Name, q.Currency, q.Total.StringFixed(2), q.ExpiryDate)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown message type: "+req.Type)
	}

	return s.generateText(ctx, SurfaceEmail, req.SurfaceKey, ai.Prompt{
		System: fmt.Sprintf("You are an admin assistant for a South African small business called %q. "+
			"Your tone is polite, professional, and friendly.", profile.Name),
		User: b.String(),
	})
}

func (s *Service) requireInvoice(ctx context.Context, id string) (*billing.Invoice, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "An invoice is required for this message")
	}
	return s.invoiceRepo.FindByID(ctx, id)
}

// DraftDocument writes a simple contract, terms, delivery note or letter
func (s *Service) DraftDocument(ctx context.Context, req DocumentRequest) (*TextResponse, error) {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	var inv *billing.Invoice
	if req.InvoiceID != "" {
		if inv, err = s.invoiceRepo.FindByID(ctx, req.InvoiceID); err != nil {
			return nil, err
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Business Name: %s\nClient Name: %s\n\n", profile.Name, client.Name)
	switch req.Type {
	case DocumentContract:
		services, value := "[List of Services]", "[Total Value]"
		if inv != nil {
			services = joinDescriptions(inv.Items, ", ")
			value = inv.Currency.String() + " " + inv.Total.StringFixed(2)
		}
		fmt.Fprintf(&b, "Generate a simple one-page Service Level Agreement (SLA) for the following services: %s. The total value is %s. Include standard clauses for services, payment, and confidentiality.",
			services, value)
	case DocumentTermsAndConditions:
		b.WriteString("Generate a standard set of Terms and Conditions for a service-based business in South Africa. Include clauses on payment terms (e.g., 30 days), scope of work, liability, and termination.")
	case DocumentDeliveryNote:
		number, items := "[Invoice Number]", "[List of Items]"
		if inv != nil {
			number = inv.InvoiceNumber
			lines := make([]string, len(inv.Items))
			for i, item := range inv.Items {
				lines[i] = fmt.Sprintf("- %s x %s", item.Quantity.String(), item.Description)
			}
			items = strings.Join(lines, "\n")
		}
		fmt.Fprintf(&b, "Generate a simple Delivery Note for invoice %s.\n\nDelivery Address: %s\n\nItems:\n%s\n\nInclude fields for \"Received by (Name & Signature)\" and \"Date\".",
			number, client.Address, items)
	case DocumentPublicOfficerLetter:
		registration := profile.RegistrationNumber
		if registration == "" {
			registration = "[Registration Number]"
		}
		fmt.Fprintf(&b, "Generate a formal letter for a bank or official body, confirming that the Public Officer of %s is [Public Officer Name]. The company's registration number is %s and its registered address is %s. The letter should be on a company letterhead (indicate where the logo goes). Include a signature line for a director.",
			profile.Name, registration, profile.Address)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown document type: "+req.Type)
	}

	return s.generateText(ctx, SurfaceDocument, req.SurfaceKey, ai.Prompt{
		System: "You are a legal assistant for a South African small business. Generate a simple business document " +
			"based on the following details. This is for illustrative purposes and not legally binding legal advice.",
		User: b.String(),
	})
}

func joinDescriptions(items []billing.LineItem, sep string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if d := strings.TrimSpace(item.Description); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, sep)
}

// StockForecast narrates which products need reordering soon
func (s *Service) StockForecast(ctx context.Context, surfaceKey string) (*TextResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	paid := make([]*billing.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Status == billing.InvoiceStatusPaid {
			paid = append(paid, inv)
		}
	}
	today := s.today()

	productData, err := marshalFacts(productFacts(products))
	if err != nil {
		return nil, err
	}
	invoiceData, err := marshalFacts(invoiceFacts(paid, today))
	if err != nil {
		return nil, err
	}

	return s.generateText(ctx, SurfaceForecast, surfaceKey, ai.Prompt{
		System: "You are a stock management AI.",
		User: "Analyze the sales data from the provided paid invoices and the current stock levels for the products.\n" +
			"- A product needs reordering if its \"currentStock\" is at or below its \"reorderPoint\".\n" +
			"- Calculate the average monthly sales for each product over the last 3 months.\n" +
			"- Based on current stock, reorder points, and sales velocity, predict which products need reordering soon.\n" +
			"- Provide a brief summary and a list of products with high reorder urgency, explicitly stating why " +
			"(e.g., \"below reorder point\", \"high sales velocity\").\n\n" +
			"Today's date is " + today.String() + ".\n\n" +
			"Products Data (with reorder points): " + productData + "\n" +
			"Paid Invoices Data: " + invoiceData + "\n\n" +
			"Return a single text string with your analysis. Use markdown for formatting.",
	})
}

type companyInfoReply struct {
	CompanyName        string `json:"companyName"`
	RegistrationNumber string `json:"registrationNumber"`
	VatNumber          string `json:"vatNumber"`
	Address            string `json:"address"`
}

// CompanyInfo reads the company details off a registration document image.
// A VAT number that is not 10 digits starting with 4 is dropped.
func (s *Service) CompanyInfo(ctx context.Context, surfaceKey string, doc ai.Image) (*CompanyInfoResponse, error) {
	if len(doc.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A document image is required")
	}
	out, err := s.generate(ctx, SurfaceCompanyDoc, surfaceKey, ai.Prompt{
		User: "Analyze this document, which is a South African company registration document (CIPC). Extract the " +
			"following details: Company Name, Registration Number, VAT Number (if present), and the main Physical " +
			"Address. The VAT number should be a 10-digit number starting with 4; if not found, return an empty " +
			`string. Provide the result as a JSON object with the keys "companyName", "registrationNumber", ` +
			`"vatNumber" and "address".`,
		Images: []ai.Image{doc},
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	var reply companyInfoReply
	if err := ai.DecodeJSON(out, &reply); err != nil {
		return nil, err
	}
	vat := strings.ReplaceAll(strings.TrimSpace(reply.VatNumber), " ", "")
	if !vatNumberPattern.MatchString(vat) {
		vat = ""
	}
	return &CompanyInfoResponse{
		CompanyName:        strings.TrimSpace(reply.CompanyName),
		RegistrationNumber: strings.TrimSpace(reply.RegistrationNumber),
		VatNumber:          vat,
		Address:            strings.TrimSpace(reply.Address),
	}, nil
}

// KycRequestEmail asks a client to upload the documents still missing
func (s *Service) KycRequestEmail(ctx context.Context, clientID, surfaceKey string) (*TextResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	missing := client.MissingDocs()
	if len(missing) == 0 {
		return nil, shared.NewDomainError("INVALID_STATE", "The client has no outstanding KYC documents")
	}
	docs := make([]string, len(missing))
	for i, d := range missing {
		docs[i] = string(d)
	}

	return s.generateText(ctx, SurfaceKycEmail, surfaceKey, ai.Prompt{
		System: "You are an admin assistant for a South African small business. Your tone is polite, professional, and friendly.",
		User: fmt.Sprintf("Draft a concise email to a client named %q requesting them to upload their FICA/KYC documents for compliance purposes.\n"+
			"The following documents are required: %s.\n"+
			"Explain that they can upload these securely through their client portal.",
			client.Name, strings.Join(docs, ", ")),
	})
}

type scheduleReply struct {
	Title   string `json:"title"`
	DueDate string `json:"dueDate"`
}

// ScheduleTasks proposes project tasks for an invoice's line items.
// Suggestions without a title or a valid date are skipped.
func (s *Service) ScheduleTasks(ctx context.Context, invoiceID, surfaceKey string) ([]ScheduledTask, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(inv.Items))
	for i, item := range inv.Items {
		lines[i] = fmt.Sprintf("%s x %s", item.Quantity.String(), item.Description)
	}

	out, err := s.generate(ctx, SurfaceSchedule, surfaceKey, ai.Prompt{
		User: fmt.Sprintf("Based on the line items of this invoice for %q, generate a simple project schedule with key tasks and estimated due dates. The invoice was issued on %s.\n"+
			"Line Items: %s.\n"+
			`Return a JSON array of tasks. Each task object should have a "title" and a "dueDate" in YYYY-MM-DD format.`,
			inv.Client.Name, inv.IssueDate, strings.Join(lines, ", ")),
		JSON: true,
	})
	if err != nil {
		return nil, err
	}
	var reply []scheduleReply
	if err := ai.DecodeJSON(out, &reply); err != nil {
		return nil, err
	}

	tasks := make([]ScheduledTask, 0, len(reply))
	for _, r := range reply {
		title := strings.TrimSpace(r.Title)
		due, err := valueobject.ParseDate(strings.TrimSpace(r.DueDate))
		if title == "" || err != nil || due.IsZero() {
			logger.L(ctx).Debug("Skipping scheduled task", zap.String("title", r.Title), zap.String("due_date", r.DueDate))
			continue
		}
		tasks = append(tasks, ScheduledTask{Title: title, DueDate: due})
	}
	return tasks, nil
}

type receiptReply struct {
	Vendor string          `json:"vendor"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// ExtractReceipt reads vendor, date and total off a receipt image
func (s *Service) ExtractReceipt(ctx context.Context, surfaceKey string, receipt ai.Image) (*ReceiptData, error) {
	if len(receipt.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A receipt image is required")
	}
	out, err := s.generate(ctx, SurfaceReceipt, surfaceKey, ai.Prompt{
		User: "Analyze this image of a receipt. Extract the vendor or store name, the transaction date, and the final " +
			"total amount. The date should be in YYYY-MM-DD format. The amount should be a number. Provide the result " +
			`as a JSON object with the keys "vendor", "date" and "amount".`,
		Images: []ai.Image{receipt},
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}
	var reply receiptReply
	if err := ai.DecodeJSON(out, &reply); err != nil {
		return nil, err
	}
	data := &ReceiptData{Vendor: strings.TrimSpace(reply.Vendor), Amount: reply.Amount}
	if d, err := valueobject.ParseDate(strings.TrimSpace(reply.Date)); err == nil {
		data.Date = d
	}
	return data, nil
}

func marshalFacts(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode AI context: %w", err)
	}
	return string(data), nil
}
