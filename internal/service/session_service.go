package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/apierror"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/model"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/repository"
)

type sessionService struct {
	api               CashPilotAPI
	linkages          repository.LinkageRepository
	defaultBusinessID string
}

func NewSessionService(api CashPilotAPI, linkages repository.LinkageRepository, defaultBusinessID string) SessionService {
	return &sessionService{api: api, linkages: linkages, defaultBusinessID: defaultBusinessID}
}

// ── Register ──────────────────────────────────────────────────────────────────

func (s *sessionService) Register(ctx context.Context, userID int64, businessID string) (*dto.RegisterResult, error) {
	if businessID == "" {
		businessID = s.defaultBusinessID
	}
	if businessID == "" {
		return nil, apierror.NewValidation(apierror.CodeUsage,
			"Uso: /start <id_sucursal>")
	}
	if _, err := uuid.Parse(businessID); err != nil {
		return nil, apierror.NewValidation(apierror.CodeValidation,
			"El id de sucursal no es válido.")
	}

	biz, err := s.api.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	link := &model.Linkage{UserID: userID, BusinessID: biz.ID, BusinessName: biz.Name}
	if err := s.linkages.Register(ctx, link); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", userID).Str("business_id", biz.ID).Msg("user registered")
	return &dto.RegisterResult{Business: *biz}, nil
}

// ── Open ──────────────────────────────────────────────────────────────────────
// Validation happens entirely before the network call: bad input never costs
// a round-trip. A backend Conflict leaves the local linkage untouched.

func (s *sessionService) Open(ctx context.Context, userID int64, cashierName string, args []string) (*dto.OpenResult, error) {
	link, err := s.requireLinkage(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(args) < 1 {
		return nil, apierror.NewValidation(apierror.CodeUsage,
			"Uso: /abrir_caja <monto_inicial> [horario]\n\nEjemplo: /abrir_caja 500000")
	}

	initialCash, err := decimal.NewFromString(args[0])
	if err != nil {
		return nil, apierror.NewValidation(apierror.CodeValidation,
			"El monto debe ser un número válido.\n\nEjemplo: /abrir_caja 500000")
	}
	if !initialCash.IsPositive() {
		return nil, apierror.NewValidation(apierror.CodeValidation,
			"El monto inicial debe ser mayor a 0.")
	}

	var shiftHours *string
	if len(args) > 1 {
		shiftHours = &args[1]
	}
	if cashierName == "" {
		cashierName = "Unknown"
	}

	log.Info().Int64("user_id", userID).Str("initial_cash", initialCash.String()).Msg("opening session")

	sess, err := s.api.OpenSession(ctx, dto.OpenSessionRequest{
		BusinessID:  link.BusinessID,
		CashierName: cashierName,
		InitialCash: initialCash,
		ShiftHours:  shiftHours,
	})
	if err != nil {
		return nil, err
	}

	if err := s.linkages.SetOpenSession(ctx, userID, sess.ID); err != nil {
		// The backend session is open regardless; report but do not roll back.
		log.Error().Int64("user_id", userID).Str("session_id", sess.ID).Err(err).Msg("failed to track open session")
	}
	return &dto.OpenResult{Session: *sess}, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────

func (s *sessionService) Close(ctx context.Context, userID int64, args []string) (*dto.CloseResult, error) {
	link, err := s.requireLinkage(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(args) < 2 {
		return nil, apierror.NewValidation(apierror.CodeUsage,
			"Uso: /cerrar_caja <monto_final> <monto_sobre>\n\nEjemplo: /cerrar_caja 1200000 300000")
	}

	finalCash, err := decimal.NewFromString(args[0])
	if err != nil {
		return nil, apierror.NewValidation(apierror.CodeValidation,
			"Los montos deben ser números válidos.\n\nEjemplo: /cerrar_caja 1200000 300000")
	}
	envelopeAmount, err := decimal.NewFromString(args[1])
	if err != nil {
		return nil, apierror.NewValidation(apierror.CodeValidation,
			"Los montos deben ser números válidos.\n\nEjemplo: /cerrar_caja 1200000 300000")
	}
	if !finalCash.IsPositive() || envelopeAmount.IsNegative() {
		return nil, apierror.NewValidation(apierror.CodeValidation,
			"Los montos deben ser válidos (monto final > 0, sobre >= 0).")
	}

	if link.OpenSessionID == "" {
		return nil, apierror.NewValidation(apierror.CodeNoOpenSession,
			"No hay caja abierta. Usa /abrir_caja primero.")
	}

	log.Info().Int64("user_id", userID).Str("session_id", link.OpenSessionID).Msg("closing session")

	sess, err := s.api.CloseSession(ctx, link.OpenSessionID, dto.CloseSessionRequest{
		FinalCash:         finalCash,
		EnvelopeAmount:    envelopeAmount,
		CreditCardTotal:   decimal.Zero,
		DebitCardTotal:    decimal.Zero,
		BankTransferTotal: decimal.Zero,
	})
	if err != nil {
		return nil, err
	}

	if err := s.linkages.ClearOpenSession(ctx, userID); err != nil {
		log.Error().Int64("user_id", userID).Err(err).Msg("failed to clear tracked session")
	}

	difference := decimal.Zero
	if sess.Difference != nil {
		difference = *sess.Difference
	}

	return &dto.CloseResult{
		Session:    *sess,
		Outcome:    Classify(difference),
		Difference: difference.Abs(),
	}, nil
}

// ── Status ────────────────────────────────────────────────────────────────────

func (s *sessionService) Status(ctx context.Context, userID int64) (*dto.StatusResult, error) {
	link, err := s.requireLinkage(ctx, userID)
	if err != nil {
		return nil, err
	}
	if link.OpenSessionID == "" {
		return nil, apierror.NewValidation(apierror.CodeNoOpenSession,
			"No hay caja abierta actualmente.")
	}

	sess, err := s.api.GetSession(ctx, link.OpenSessionID)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResult{Session: *sess}, nil
}

// ── Business ──────────────────────────────────────────────────────────────────

func (s *sessionService) Business(ctx context.Context, userID int64) (*dto.BusinessResult, error) {
	link, err := s.requireLinkage(ctx, userID)
	if err != nil {
		return nil, err
	}
	biz, err := s.api.GetBusiness(ctx, link.BusinessID)
	if err != nil {
		return nil, err
	}
	return &dto.BusinessResult{Business: *biz}, nil
}

// ── History ───────────────────────────────────────────────────────────────────

func (s *sessionService) History(ctx context.Context, userID int64, limit int) (*dto.HistoryResult, error) {
	link, err := s.requireLinkage(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.api.ListSessions(ctx, link.BusinessID, 0, limit)
	if err != nil {
		return nil, err
	}
	return &dto.HistoryResult{Sessions: sessions}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *sessionService) requireLinkage(ctx context.Context, userID int64) (*model.Linkage, error) {
	link, err := s.linkages.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, apierror.NewValidation(apierror.CodeNoBusiness,
			"Debes configurar tu sucursal primero. Usa /start.")
	}
	return link, nil
}

// Classify maps the backend-computed difference onto the reconciliation
// outcome. The value is trusted as-is — the backend's formula is
// authoritative, only the sign is interpreted here.
func Classify(difference decimal.Decimal) model.Outcome {
	switch {
	case difference.IsZero():
		return model.OutcomeExact
	case difference.IsPositive():
		return model.OutcomeShortage
	default:
		return model.OutcomeOverage
	}
}
