package handler

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/service"
)

const historyLimit = 10

// SessionHandler turns chat commands into service calls and renders the
// results. Parsing beyond tokenization lives in the service — validation must
// reject bad input before any network call, and the service owns that rule.
type SessionHandler struct {
	svc service.SessionService
}

func NewSessionHandler(svc service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Start handles /start [business_id] — links the user to a business.
func (h *SessionHandler) Start(ctx context.Context, upd dto.Update, args []string) string {
	businessID := ""
	if len(args) > 0 {
		businessID = args[0]
	}
	res, err := h.svc.Register(ctx, upd.UserID, businessID)
	if err != nil {
		log.Error().Int64("user_id", upd.UserID).Err(err).Msg("register failed")
		return renderError(err)
	}
	return renderStart(res)
}

// Help handles /help.
func (h *SessionHandler) Help(_ context.Context, _ dto.Update, _ []string) string {
	return msgHelp
}

// Open handles /abrir_caja <monto_inicial> [horario].
func (h *SessionHandler) Open(ctx context.Context, upd dto.Update, args []string) string {
	res, err := h.svc.Open(ctx, upd.UserID, upd.FirstName, args)
	if err != nil {
		log.Error().Int64("user_id", upd.UserID).Err(err).Msg("open failed")
		return renderError(err)
	}
	return renderOpened(res)
}

// Close handles /cerrar_caja <monto_final> <monto_sobre>.
func (h *SessionHandler) Close(ctx context.Context, upd dto.Update, args []string) string {
	res, err := h.svc.Close(ctx, upd.UserID, args)
	if err != nil {
		log.Error().Int64("user_id", upd.UserID).Err(err).Msg("close failed")
		return renderError(err)
	}
	return renderClosed(res)
}

// Status handles /estado.
func (h *SessionHandler) Status(ctx context.Context, upd dto.Update, _ []string) string {
	res, err := h.svc.Status(ctx, upd.UserID)
	if err != nil {
		log.Error().Int64("user_id", upd.UserID).Err(err).Msg("status failed")
		return renderError(err)
	}
	return renderStatus(res)
}

// Business handles /mi_negocio.
func (h *SessionHandler) Business(ctx context.Context, upd dto.Update, _ []string) string {
	res, err := h.svc.Business(ctx, upd.UserID)
	if err != nil {
		log.Error().Int64("user_id", upd.UserID).Err(err).Msg("business failed")
		return renderError(err)
	}
	return renderBusiness(res.Business)
}

// History handles /historial.
func (h *SessionHandler) History(ctx context.Context, upd dto.Update, _ []string) string {
	res, err := h.svc.History(ctx, upd.UserID, historyLimit)
	if err != nil {
		log.Error().Int64("user_id", upd.UserID).Err(err).Msg("history failed")
		return renderError(err)
	}
	return renderHistory(res)
}
