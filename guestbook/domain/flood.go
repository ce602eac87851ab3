package domain

import "time"

// Contratos do flood guard: limite de requisições por cliente, independente
// da janela de postagem do livro de visitas.

type Key string

// Limiter decide se uma requisição é permitida agora (ex.: token bucket).
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (IP do cliente).
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter vai no header Retry-After quando bloquear. 0 = sem recomendação.
	RetryAfter time.Duration
}
