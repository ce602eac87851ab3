package guestbook

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"guestbook-service/guestbook/application"
	"guestbook-service/guestbook/domain"
)

const defaultMaxBodyBytes = 16 << 10

// Service é o que o handler precisa do caso de uso (application.Service).
type Service interface {
	List(ctx context.Context) ([]domain.PublicMessage, error)
	Submit(ctx context.Context, in application.SubmitInput) (domain.PublicMessage, error)
}

type Options struct {
	Service Service
	// Stats recebe um evento por tentativa de postagem (best-effort).
	Stats domain.StatsStore
	// ClientIP resolve o IP do cliente. Padrão: ClientIPFunc(TrustProxyHeaders).
	ClientIP          KeyFunc
	TrustProxyHeaders bool
	MaxBodyBytes      int64
	Logger            *slog.Logger
}

type submitRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Handler atende /guestbook: GET lista, POST grava, OPTIONS responde o preflight.
// Com ?callback= responde em JSONP e aceita ?method= e ?name=&message=.
func Handler(opts Options) http.Handler {
	if opts.ClientIP == nil {
		opts.ClientIP = ClientIPFunc(opts.TrustProxyHeaders)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &handler{opts: opts}
	return http.HandlerFunc(h.serveHTTP)
}

type handler struct {
	opts Options
}

func (h *handler) serveHTTP(w http.ResponseWriter, r *http.Request) {
	rs := newResponder(w, r)
	if !rs.validCallback() {
		// sem callback confiável: responde como JSON comum
		rs = responder{w: w}
		rs.setHeaders()
		rs.fail(http.StatusBadRequest, "Invalid callback")
		return
	}
	rs.setHeaders()

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	defer func() {
		if v := recover(); v != nil {
			h.opts.Logger.Error("guestbook handler panic", "panic", v, "path", r.URL.Path)
			rs.fail(http.StatusBadRequest, "Internal error")
		}
	}()

	method := r.Method
	if rs.jsonp {
		if m := strings.TrimSpace(r.URL.Query().Get("method")); m != "" {
			method = strings.ToUpper(m)
		}
	}

	switch method {
	case http.MethodGet:
		h.list(rs, r)
	case http.MethodPost:
		h.submit(rs, w, r)
	default:
		err := domain.MethodNotAllowedError{Method: method}
		h.record(r, "", statsMethod(method), err)
		rs.fail(http.StatusBadRequest, err.Error())
	}
}

func (h *handler) list(rs responder, r *http.Request) {
	msgs, err := h.opts.Service.List(r.Context())
	if err != nil {
		h.opts.Logger.Error("guestbook list failed", "err", err)
		rs.fail(http.StatusBadRequest, "Failed to load messages")
		return
	}
	if msgs == nil {
		msgs = []domain.PublicMessage{}
	}
	rs.ok(listResponse{Success: true, Messages: msgs})
}

func (h *handler) submit(rs responder, w http.ResponseWriter, r *http.Request) {
	clientIP := h.opts.ClientIP(r)

	in, err := h.readSubmission(rs, w, r)
	if err == nil {
		in.ClientIP = clientIP
		var created domain.PublicMessage
		created, err = h.opts.Service.Submit(r.Context(), in)
		if err == nil {
			h.record(r, clientIP, http.MethodPost, nil)
			rs.ok(submitResponse{Success: true, Message: created})
			return
		}
	}

	h.record(r, clientIP, http.MethodPost, err)
	msg := clientMessage(err)
	var serr domain.StorageError
	if errors.As(err, &serr) {
		h.opts.Logger.Error("guestbook submit failed", "err", err, "client", clientIP)
	} else {
		h.opts.Logger.Debug("guestbook submit rejected", "reason", err, "client", clientIP)
	}
	rs.fail(http.StatusBadRequest, msg)
}

// readSubmission lê nome/mensagem da query (JSONP, ambos presentes) ou do corpo JSON.
func (h *handler) readSubmission(rs responder, w http.ResponseWriter, r *http.Request) (application.SubmitInput, error) {
	q := r.URL.Query()
	if rs.jsonp && q.Has("name") && q.Has("message") {
		return application.SubmitInput{Name: q.Get("name"), Message: q.Get("message")}, nil
	}

	var req *submitRequest
	body := http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return application.SubmitInput{}, domain.MalformedInputError{Err: err}
	}
	if req == nil {
		return application.SubmitInput{}, domain.MalformedInputError{}
	}
	return application.SubmitInput{Name: req.Name, Message: req.Message}, nil
}

func (h *handler) record(r *http.Request, clientIP, method string, err error) {
	if h.opts.Stats == nil {
		return
	}
	ev := domain.StatsEvent{
		ClientIP: clientIP,
		Outcome:  outcomeOf(err),
		Method:   method,
		At:       time.Now(),
	}
	if rerr := h.opts.Stats.Record(r.Context(), ev); rerr != nil {
		h.opts.Logger.Warn("guestbook stats record failed", "err", rerr)
	}
}

// statsMethod evita que o método vindo do cliente vire label livre nas stats.
func statsMethod(m string) string {
	switch m {
	case http.MethodGet, http.MethodPost:
		return m
	default:
		return "OTHER"
	}
}

func outcomeOf(err error) domain.Outcome {
	var (
		verr domain.ValidationError
		rerr domain.RateLimitError
		merr domain.MalformedInputError
		nerr domain.MethodNotAllowedError
		serr domain.StorageError
	)
	switch {
	case err == nil:
		return domain.OutcomeAccepted
	case errors.As(err, &verr):
		return domain.OutcomeInvalid
	case errors.As(err, &rerr):
		return domain.OutcomeRateLimited
	case errors.As(err, &merr):
		return domain.OutcomeMalformed
	case errors.As(err, &nerr):
		return domain.OutcomeMethod
	case errors.As(err, &serr):
		return domain.OutcomeStorage
	default:
		return domain.OutcomeInternal
	}
}

// clientMessage traduz o erro para o texto do envelope. Detalhes de storage
// ficam só no log.
func clientMessage(err error) string {
	switch outcomeOf(err) {
	case domain.OutcomeInvalid, domain.OutcomeRateLimited, domain.OutcomeMalformed, domain.OutcomeMethod:
		return err.Error()
	case domain.OutcomeStorage:
		return "Failed to save message"
	default:
		return "Internal error"
	}
}
