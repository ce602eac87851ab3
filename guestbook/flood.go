package guestbook

import (
	"log/slog"
	"net/http"
	"time"

	"guestbook-service/guestbook/application"
	"guestbook-service/guestbook/domain"
)

// FloodOptions configura o flood guard: limite de requisições por IP em todas
// as rotas, independente da janela de postagem do livro de visitas.
type FloodOptions struct {
	Store        domain.LimiterStore
	Stats        domain.StatsStore
	KeyFn        KeyFunc
	RejectStatus int
	RetryAfter   time.Duration
	// AddHeaders expõe X-RateLimit-RPS / X-RateLimit-Burst quando o store informa.
	AddHeaders bool
	Logger     *slog.Logger
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

func FloodGuard(opts FloodOptions) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = ClientIPFunc(false)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	throttle := application.Throttle{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// preflight não conta
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := opts.KeyFn(r)
			if opts.AddHeaders {
				if ri, ok := opts.Store.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
			}

			dec := throttle.Decide(domain.Key(key))
			if dec.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			if opts.Stats != nil {
				ev := domain.StatsEvent{ClientIP: key, Outcome: domain.OutcomeFlooded, Method: statsMethod(r.Method), At: time.Now()}
				if err := opts.Stats.Record(r.Context(), ev); err != nil {
					opts.Logger.Warn("flood stats record failed", "err", err)
				}
			}
			w.Header().Set("Retry-After", retryAfterSeconds(dec.RetryAfter))
			reject(w, r, opts.RejectStatus, "Too many requests")
		})
	}
}

// reject responde no mesmo envelope do handler (JSON ou JSONP).
func reject(w http.ResponseWriter, r *http.Request, status int, msg string) {
	rs := newResponder(w, r)
	if !rs.validCallback() {
		rs = responder{w: w}
	}
	rs.setHeaders()
	rs.fail(status, msg)
}
