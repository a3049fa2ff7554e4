package handler

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/apierror"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/model"
	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/service"
)

// Chat reply templates. Markdown, Spanish, guaraníes.

const (
	msgStart = "👋 *Bienvenido a CashPilot*\n\n" +
		"Soy tu asistente para reconciliación de caja.\n\n" +
		"🏪 Sucursal: %s\n\n" +
		"Escribe /help para ver los comandos disponibles."

	msgHelp = "📖 *Comandos disponibles:*\n\n" +
		"/start - Registrar tu sucursal\n" +
		"/help - Ver este mensaje\n" +
		"/mi_negocio - Ver info de tu sucursal\n" +
		"/abrir_caja <monto_inicial> [horario] - Abrir caja\n" +
		"/cerrar_caja <monto_final> <monto_sobre> - Cerrar caja\n" +
		"/estado - Ver estado de la caja\n" +
		"/historial - Ver últimas sesiones"

	msgOpened = "✅ *Caja abierta*\n\n" +
		"🆔 ID: `%s`\n" +
		"💰 Monto inicial: %s\n" +
		"🕐 Hora: %s\n\n" +
		"_Cuando cierres la caja, usa /cerrar_caja_"

	msgClosed = "✅ *Caja cerrada*\n\n" +
		"%s *%s*: %s\n" +
		"💰 Total efectivo: %s\n" +
		"📊 Ventas totales: %s\n" +
		"🕐 Cerrada a: %s\n\n" +
		"_Caja lista para nueva sesión._"

	msgStatusOpen = "📖 *Estado de Caja (ABIERTA)*\n\n" +
		"🆔 ID: `%s`\n" +
		"💰 Monto inicial: %s\n" +
		"🕐 Abierta desde: %s\n\n" +
		"_Cierra con /cerrar_caja_"

	msgStatusClosed = "📖 *Estado de Caja (CERRADA)*\n\n" +
		"🆔 ID: `%s`\n" +
		"💰 Monto final: %s\n" +
		"🕐 Cerrada a: %s\n\n" +
		"_Abre una nueva con /abrir_caja_"

	msgBusiness = "🏪 *Tu Sucursal*\n\n" +
		"Nombre: %s\n" +
		"Dirección: %s\n" +
		"Teléfono: %s\n" +
		"Estado: %s"

	msgConflict = "⚠️ *Ya existe una caja abierta* para esta sucursal.\n\n" +
		"Ciérrala primero con /cerrar_caja"

	msgNotFound     = "❌ Caja no encontrada."
	msgInvalidState = "⚠️ La caja no está abierta o ya fue cerrada."
	msgUnreachable  = "❌ No se pudo contactar al servidor. Intenta más tarde."
	msgInternal     = "❌ Algo salió mal. Intenta nuevamente o contacta al soporte."
)

// outcomeLabel returns the marker and label for a close classification.
func outcomeLabel(o model.Outcome) (emoji, label string) {
	switch o {
	case model.OutcomeShortage:
		return "⚠️", "Faltante"
	case model.OutcomeOverage:
		return "📦", "Sobrante"
	default:
		return "✅", "Cuadre perfecto"
	}
}

// clock extracts HH:MM from an ISO-8601 timestamp, "N/A" when absent.
func clock(ts string) string {
	_, rest, ok := strings.Cut(ts, "T")
	if !ok || len(rest) < 5 {
		return "N/A"
	}
	return rest[:5]
}

func renderStart(res *dto.RegisterResult) string {
	return fmt.Sprintf(msgStart, res.Business.Name)
}

func renderOpened(res *dto.OpenResult) string {
	return fmt.Sprintf(msgOpened,
		res.Session.ID,
		service.FormatCurrency(res.Session.InitialCash),
		clock(res.Session.OpenedAt),
	)
}

func renderClosed(res *dto.CloseResult) string {
	emoji, label := outcomeLabel(res.Outcome)

	finalCash := res.Session.InitialCash
	if res.Session.FinalCash != nil {
		finalCash = *res.Session.FinalCash
	}
	totalSales := decimal.Zero
	if res.Session.TotalSales != nil {
		totalSales = *res.Session.TotalSales
	}
	closedAt := "N/A"
	if res.Session.ClosedAt != nil {
		closedAt = clock(*res.Session.ClosedAt)
	}

	return fmt.Sprintf(msgClosed,
		emoji, label, service.FormatCurrency(res.Difference),
		service.FormatCurrency(finalCash),
		service.FormatCurrency(totalSales),
		closedAt,
	)
}

func renderStatus(res *dto.StatusResult) string {
	sess := res.Session
	if sess.IsOpen() {
		return fmt.Sprintf(msgStatusOpen,
			sess.ID,
			service.FormatCurrency(sess.InitialCash),
			clock(sess.OpenedAt),
		)
	}

	finalCash := decimal.Zero
	if sess.FinalCash != nil {
		finalCash = *sess.FinalCash
	}
	closedAt := "N/A"
	if sess.ClosedAt != nil {
		closedAt = clock(*sess.ClosedAt)
	}
	return fmt.Sprintf(msgStatusClosed, sess.ID, service.FormatCurrency(finalCash), closedAt)
}

func renderBusiness(biz model.Business) string {
	address, phone := "N/A", "N/A"
	if biz.Address != nil {
		address = *biz.Address
	}
	if biz.Phone != nil {
		phone = *biz.Phone
	}
	return fmt.Sprintf(msgBusiness, biz.Name, address, phone, biz.Status)
}

func renderHistory(res *dto.HistoryResult) string {
	if len(res.Sessions) == 0 {
		return "📭 No hay sesiones registradas todavía."
	}

	var b strings.Builder
	b.WriteString("🗂 *Últimas sesiones*\n")
	for _, sess := range res.Sessions {
		marker := "🔓"
		if !sess.IsOpen() {
			marker = "🔒"
		}
		fmt.Fprintf(&b, "\n%s `%s` — %s — %s",
			marker, sess.ID, sess.CashierName, service.FormatCurrency(sess.InitialCash))
	}
	return b.String()
}

// renderError maps a typed error onto the right reply. Dispatch is by
// Kind/Code, never by message prose.
func renderError(err error) string {
	e, ok := apierror.As(err)
	if !ok {
		return msgInternal
	}
	switch e.Kind() {
	case apierror.KindValidation:
		// Local validation carries its own user-facing message.
		return "❌ " + e.Message
	case apierror.KindConflict:
		return msgConflict
	case apierror.KindNotFound:
		return msgNotFound
	case apierror.KindInvalidState:
		return msgInvalidState
	case apierror.KindConnection:
		return msgUnreachable
	default:
		return "❌ Error: " + e.Message
	}
}
