package guestbook

import (
	"encoding/json"
	"net/http"
	"regexp"

	"guestbook-service/guestbook/domain"
)

const (
	contentTypeJSON       = "application/json"
	contentTypeJavaScript = "application/javascript"
)

// callback precisa ser um identificador JS (com pontos), senão vira vetor de XSS.
var callbackPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

const maxCallbackLength = 128

type listResponse struct {
	Success  bool                   `json:"success"`
	Messages []domain.PublicMessage `json:"messages"`
}

type submitResponse struct {
	Success bool                 `json:"success"`
	Message domain.PublicMessage `json:"message"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// responder escreve o envelope em JSON puro ou embrulhado em callback (JSONP).
type responder struct {
	w        http.ResponseWriter
	jsonp    bool
	callback string
}

func newResponder(w http.ResponseWriter, r *http.Request) responder {
	values, ok := r.URL.Query()["callback"]
	rs := responder{w: w, jsonp: ok}
	if ok && len(values) > 0 {
		rs.callback = values[0]
	}
	return rs
}

func (rs responder) validCallback() bool {
	return !rs.jsonp || (len(rs.callback) <= maxCallbackLength && callbackPattern.MatchString(rs.callback))
}

// setHeaders define Content-Type e os headers de CORS (aberto para qualquer origem).
func (rs responder) setHeaders() {
	h := rs.w.Header()
	if rs.jsonp {
		h.Set("Content-Type", contentTypeJavaScript)
	} else {
		h.Set("Content-Type", contentTypeJSON)
	}
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (rs responder) ok(body any) {
	rs.write(http.StatusOK, body)
}

// fail escreve o envelope de erro. Em JSONP o status é sempre 200 para o
// <script> carregar e o callback receber o erro.
func (rs responder) fail(status int, msg string) {
	rs.write(status, failureResponse{Success: false, Error: msg})
}

func (rs responder) write(status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"success":false,"error":"Internal error"}`)
	}
	if rs.jsonp {
		rs.w.WriteHeader(http.StatusOK)
		_, _ = rs.w.Write([]byte(rs.callback + "("))
		_, _ = rs.w.Write(payload)
		_, _ = rs.w.Write([]byte(");"))
		return
	}
	rs.w.WriteHeader(status)
	_, _ = rs.w.Write(payload)
}
