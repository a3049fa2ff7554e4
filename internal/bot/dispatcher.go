// Package bot routes inbound chat updates to command handlers. It is
// transport-agnostic: anything that can produce a dto.Update (webhook, poller,
// test) can feed Dispatch.
package bot

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/luifer-villalba/cash-pilot-telegram-bot/internal/dto"
)

// HandlerFunc handles one command invocation and returns the rendered reply.
type HandlerFunc func(ctx context.Context, upd dto.Update, args []string) string

// Dispatcher maps command names ("/abrir_caja") to handlers. Registration
// happens once at startup; Dispatch is safe for concurrent use afterwards.
type Dispatcher struct {
	registry map[string]HandlerFunc
	fallback HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{registry: make(map[string]HandlerFunc)}
}

// Register binds a command name to its handler.
func (d *Dispatcher) Register(command string, h HandlerFunc) {
	d.registry[command] = h
}

// SetFallback installs the handler for unrecognized input.
func (d *Dispatcher) SetFallback(h HandlerFunc) {
	d.fallback = h
}

// Dispatch tokenizes the update text, routes "/comando arg1 arg2" to the
// registered handler, and returns the reply. A handler panic is recovered and
// rendered as a generic failure — one bad command must not take the bot down.
func (d *Dispatcher) Dispatch(ctx context.Context, upd dto.Update) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Int64("user_id", upd.UserID).Interface("panic", r).Msg("handler panic recovered")
			reply = "❌ Algo salió mal. Intenta nuevamente o contacta al soporte."
		}
	}()

	fields := strings.Fields(strings.TrimSpace(upd.Text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return d.unknown(ctx, upd, nil)
	}

	// Group chats address commands as /comando@nombre_del_bot
	name := fields[0]
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}

	h, ok := d.registry[name]
	if !ok {
		return d.unknown(ctx, upd, fields[1:])
	}

	log.Debug().Int64("user_id", upd.UserID).Str("command", name).Msg("dispatching command")
	return h(ctx, upd, fields[1:])
}

func (d *Dispatcher) unknown(ctx context.Context, upd dto.Update, args []string) string {
	if d.fallback != nil {
		return d.fallback(ctx, upd, args)
	}
	return "🤔 Comando desconocido. Escribe /help para ver los comandos."
}
