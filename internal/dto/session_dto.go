package dto

import (
	"github.com/shopspring/decimal"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────
// decimal.Decimal marshals as a quoted string by default, which is exactly the
// wire contract: amounts are never sent as binary floats.

type OpenSessionRequest struct {
	BusinessID  string          `json:"business_id"`
	CashierName string          `json:"cashier_name"`
	InitialCash decimal.Decimal `json:"initial_cash"`
	ShiftHours  *string         `json:"shift_hours,omitempty"`
}

type CloseSessionRequest struct {
	FinalCash         decimal.Decimal `json:"final_cash"`
	EnvelopeAmount    decimal.Decimal `json:"envelope_amount"`
	CreditCardTotal   decimal.Decimal `json:"credit_card_total"`
	DebitCardTotal    decimal.Decimal `json:"debit_card_total"`
	BankTransferTotal decimal.Decimal `json:"bank_transfer_total"`
	ClosingTicket     *string         `json:"closing_ticket,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
}

// ─── Command results ─────────────────────────────────────────────────────────
// Structured results the reconciler hands back to the dispatcher. Rendering to
// chat text happens in the handler layer.

type RegisterResult struct {
	Business model.Business
}

type OpenResult struct {
	Session model.CashSession
}

type CloseResult struct {
	Session model.CashSession
	Outcome model.Outcome
	// Difference is the absolute value, ready for display. The sign already
	// went into Outcome.
	Difference decimal.Decimal
}

type StatusResult struct {
	Session model.CashSession
}

type BusinessResult struct {
	Business model.Business
}

type HistoryResult struct {
	Sessions []model.CashSession
}
