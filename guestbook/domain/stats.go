package domain

import (
	"context"
	"time"
)

// Outcome classifica o resultado de uma tentativa de postagem.
type Outcome string

const (
	OutcomeAccepted    Outcome = "accepted"
	OutcomeInvalid     Outcome = "validation"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeMalformed   Outcome = "malformed"
	OutcomeMethod      Outcome = "method_not_allowed"
	OutcomeStorage     Outcome = "storage"
	OutcomeFlooded     Outcome = "flooded"
	OutcomeInternal    Outcome = "internal"
)

// StatsEvent é um evento de postagem (ou de requisição barrada pelo flood guard).
//
// Cuidado com cardinalidade: ClientIP só deve virar chave/label quando o store
// foi configurado para isso.
type StatsEvent struct {
	ClientIP string
	Outcome  Outcome
	Method   string
	At       time.Time
}

// StatsStore persiste estatísticas. Quem chama trata erro como best-effort.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
