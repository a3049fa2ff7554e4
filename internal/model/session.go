package model

import (
	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a cash session.
// Transitions only OPEN → CLOSED, exactly once.
type SessionStatus string

const (
	StatusOpen   SessionStatus = "OPEN"
	StatusClosed SessionStatus = "CLOSED"
)

// CashSession is the read view of a backend-owned cash register session.
// All amounts are exact decimals — the backend serializes them as strings,
// never binary floats. The closing fields are present only after close.
//
// difference is computed by the backend at close time:
//
//	difference = total_sales - ((final_cash + envelope_amount) - initial_cash)
//
// The bot never recomputes it; it only classifies its sign (see service.Classify).
// Timestamps stay as ISO-8601 strings because the backend omits the zone offset.
type CashSession struct {
	ID          string          `json:"id"`
	BusinessID  string          `json:"business_id"`
	Status      SessionStatus   `json:"status"`
	CashierName string          `json:"cashier_name"`
	InitialCash decimal.Decimal `json:"initial_cash"`
	ShiftHours  *string         `json:"shift_hours,omitempty"`

	FinalCash         *decimal.Decimal `json:"final_cash,omitempty"`
	EnvelopeAmount    *decimal.Decimal `json:"envelope_amount,omitempty"`
	CreditCardTotal   *decimal.Decimal `json:"credit_card_total,omitempty"`
	DebitCardTotal    *decimal.Decimal `json:"debit_card_total,omitempty"`
	BankTransferTotal *decimal.Decimal `json:"bank_transfer_total,omitempty"`

	CashSales  *decimal.Decimal `json:"cash_sales,omitempty"`
	TotalSales *decimal.Decimal `json:"total_sales,omitempty"`
	Difference *decimal.Decimal `json:"difference,omitempty"`

	ClosingTicket *string `json:"closing_ticket,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	OpenedAt string  `json:"opened_at"`
	ClosedAt *string `json:"closed_at,omitempty"`
}

// IsOpen reports whether the session can still be closed.
func (s *CashSession) IsOpen() bool { return s.Status == StatusOpen }

// Outcome is the close-time reconciliation classification.
type Outcome int

const (
	OutcomeExact    Outcome = iota // difference == 0
	OutcomeShortage                // difference > 0, less cash than expected
	OutcomeOverage                 // difference < 0, more cash than expected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeShortage:
		return "shortage"
	case OutcomeOverage:
		return "overage"
	default:
		return "exact"
	}
}
