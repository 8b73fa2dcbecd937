package finance

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/outvoice/backend/internal/application/assistant"
	"github.com/outvoice/backend/internal/domain/document"
	"github.com/outvoice/backend/internal/domain/finance"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/ai"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptReader reads expense details off a receipt image
type ReceiptReader interface {
	ExtractReceipt(ctx context.Context, surfaceKey string, receipt ai.Image) (*assistant.ReceiptData, error)
}

// ExpenseService provides application-level expense operations
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
	clientRepo  partner.ClientRepository
	storage     storage.ObjectStorage
	reader      ReceiptReader
	newID       func() string
	now         func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo finance.ExpenseRepository,
	clientRepo partner.ClientRepository,
	objectStorage storage.ObjectStorage,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		clientRepo:  clientRepo,
		storage:     objectStorage,
		newID:       func() string { return shared.NewID("exp") },
		now:         time.Now,
	}
}

// SetReceiptReader sets the AI receipt reader used by ScanReceipt
func (s *ExpenseService) SetReceiptReader(reader ReceiptReader) {
	s.reader = reader
}

// ===================== Request / Response =====================

// CreateExpenseRequest represents a manually entered expense
type CreateExpenseRequest struct {
	Date        valueobject.Date `json:"date"`
	Vendor      string           `json:"vendor" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=500"`
	Amount      decimal.Decimal  `json:"amount"`
	ClientID    string           `json:"client_id"`
}

// ScanReceiptRequest carries an uploaded receipt image
type ScanReceiptRequest struct {
	SurfaceKey  string
	ClientID    string
	Description string
	FileName    string
	ContentType string
	Data        []byte
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string           `json:"id"`
	Date        valueobject.Date `json:"date"`
	Vendor      string           `json:"vendor"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	ClientID    string           `json:"client_id,omitempty"`
	ReceiptKey  string           `json:"receipt_key,omitempty"`
	HasReceipt  bool             `json:"has_receipt"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ExpenseListResponse is the expense log with its running total
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    decimal.Decimal   `json:"total"`
}

// ReceiptFile is a stored receipt image
type ReceiptFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Date:        e.Date,
		Vendor:      e.Vendor,
		Description: e.Description,
		Amount:      e.Amount,
		ClientID:    e.ClientID,
		ReceiptKey:  e.ReceiptKey,
		HasReceipt:  e.ReceiptKey != "",
		CreatedAt:   e.CreatedAt,
	}
}

// ===================== Expense Operations =====================

// Create records an expense
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.build(ctx, finance.ExpenseDetails{
		Date:        req.Date,
		Vendor:      req.Vendor,
		Description: req.Description,
		Amount:      req.Amount,
		ClientID:    req.ClientID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Expense recorded",
		zap.String("expense_id", expense.ID),
		zap.String("vendor", expense.Vendor),
		zap.String("amount", expense.Amount.StringFixed(2)))

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

func (s *ExpenseService) build(ctx context.Context, d finance.ExpenseDetails) (*finance.Expense, error) {
	if d.ClientID != "" {
		if _, err := s.clientRepo.FindByID(ctx, d.ClientID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CLIENT", "Client not found: "+d.ClientID)
			}
			return nil, err
		}
	}
	return finance.NewExpense(s.newID(), d, valueobject.DateOf(s.now()))
}

// List returns every expense in insertion order with the total spent
func (s *ExpenseService) List(ctx context.Context) (*ExpenseListResponse, error) {
	expenses, err := s.expenseRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = ToExpenseResponse(e)
	}
	return &ExpenseListResponse{Expenses: out, Total: finance.TotalExpenses(expenses)}, nil
}

// ScanReceipt reads a receipt image with the assistant, records the expense
// and keeps the image in object storage. Nothing is saved when either the
// extraction or the upload fails.
func (s *ExpenseService) ScanReceipt(ctx context.Context, req ScanReceiptRequest) (*ExpenseResponse, error) {
	if s.reader == nil {
		return nil, ai.ErrNotConfigured
	}
	if len(req.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A receipt image is required")
	}
	data, err := s.reader.ExtractReceipt(ctx, req.SurfaceKey, ai.Image{MimeType: req.ContentType, Data: req.Data})
	if err != nil {
		return nil, err
	}

	expense, err := s.build(ctx, finance.ExpenseDetails{
		Date:        data.Date,
		Vendor:      data.Vendor,
		Description: req.Description,
		Amount:      data.Amount,
		ClientID:    req.ClientID,
	})
	if err != nil {
		return nil, err
	}

	name := req.FileName
	if name == "" {
		name = "receipt"
	}
	key := document.ReceiptStorageKey(expense.ID, name)
	if err := s.storage.Put(ctx, key, req.Data, req.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}
	expense.AttachReceipt(key)

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.L(ctx).Warn("Failed to remove orphaned receipt", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	logger.L(ctx).Info("Receipt scanned",
		zap.String("expense_id", expense.ID),
		zap.String("vendor", expense.Vendor),
		zap.String("amount", expense.Amount.StringFixed(2)))

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Receipt returns the stored receipt image of an expense
func (s *ExpenseService) Receipt(ctx context.Context, id string) (*ReceiptFile, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptKey == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "The expense has no receipt")
	}
	obj, err := s.storage.Get(ctx, expense.ReceiptKey)
	if err != nil {
		return nil, err
	}
	return &ReceiptFile{Name: path.Base(obj.Key), ContentType: obj.ContentType, Data: obj.Data}, nil
}
