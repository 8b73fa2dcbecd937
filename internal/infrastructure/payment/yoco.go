package payment

import (
	"context"

	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// DefaultYocoSDKURL is the Yoco inline popup script
const DefaultYocoSDKURL = "https://js.yoco.com/sdk/v1/yoco-sdk-web.js"

// Yoco builds an inline popup instruction for the Yoco web SDK
type Yoco struct {
	sdkURL string
}

// NewYoco creates the Yoco gateway
func NewYoco(cfg config.PaymentConfig) *Yoco {
	sdkURL := cfg.YocoSDKURL
	if sdkURL == "" {
		sdkURL = DefaultYocoSDKURL
	}
	return &Yoco{sdkURL: sdkURL}
}

// Type returns the gateway id
func (y *Yoco) Type() company.PaymentGateway {
	return company.GatewayYoco
}

// Initiate requires the public key from the company profile.
// The secret key never leaves the server.
func (y *Yoco) Initiate(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Profile.YocoPublicKey == "" {
		return nil, ErrGatewayNotConfigured
	}
	inv := req.Invoice
	balance := inv.Balance()
	return &PaymentInstruction{
		Gateway:       company.GatewayYoco,
		Method:        MethodPopup,
		SDKURL:        y.sdkURL,
		PublicKey:     req.Profile.YocoPublicKey,
		AmountInCents: balance.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Amount:        balance.StringFixed(2),
		Currency:      inv.Currency.String(),
		Reference:     inv.InvoiceNumber,
	}, nil
}

var _ Gateway = (*Yoco)(nil)
