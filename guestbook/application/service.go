package application

import (
	"context"
	"errors"
	"strings"

	"guestbook-service/guestbook/domain"

	"github.com/go-playground/validator/v10"
	"github.com/juju/clock"
	"github.com/samber/lo"
)

var validate = validator.New()

// SubmitInput são os dados crus de uma postagem e o IP já resolvido do cliente.
type SubmitInput struct {
	Name     string
	Message  string
	ClientIP string
}

type submission struct {
	Name    string `validate:"required"`
	Message string `validate:"required"`
}

// Service concentra as regras do livro de visitas.
//
// Ele não sabe nada sobre HTTP: recebe valores já extraídos da requisição e
// devolve mensagens públicas ou erros do pacote domain.
type Service struct {
	Store  domain.MessageStore
	Limits domain.Limits
	Clock  clock.Clock
	// NewID gera o id de uma mensagem nova. Padrão: NewMessageID.
	NewID IDFunc
}

func (s Service) withDefaults() Service {
	if s.Limits == (domain.Limits{}) {
		s.Limits = domain.DefaultLimits()
	}
	if s.Clock == nil {
		s.Clock = clock.WallClock
	}
	if s.NewID == nil {
		s.NewID = NewMessageID
	}
	return s
}

// List retorna todas as mensagens em ordem de inserção, sem IP de origem.
func (s Service) List(ctx context.Context) ([]domain.PublicMessage, error) {
	msgs, err := s.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(msgs, func(m domain.Message, _ int) domain.PublicMessage {
		return m.Public()
	}), nil
}

// Submit sanitiza e valida a entrada, aplica o rate limit por IP e grava a
// mensagem nova. A checagem do rate limit roda dentro da seção crítica do
// Update, então dois POSTs concorrentes do mesmo IP não passam juntos.
func (s Service) Submit(ctx context.Context, in SubmitInput) (domain.PublicMessage, error) {
	s = s.withDefaults()

	san := Sanitizer{Policy: s.Limits.Markup}
	sub := submission{
		Name:    san.Clean(in.Name, s.Limits.MaxNameLength),
		Message: san.Clean(in.Message, s.Limits.MaxMessageLength),
	}
	if err := validate.Struct(sub); err != nil {
		return domain.PublicMessage{}, toValidationError(err)
	}

	var created domain.Message
	err := s.Store.Update(ctx, func(current []domain.Message) ([]domain.Message, error) {
		now := s.Clock.Now().UTC()
		if wait := RemainingWait(current, in.ClientIP, now, s.Limits.RateLimitWindow); wait > 0 {
			return nil, domain.RateLimitError{Remaining: wait}
		}

		created = domain.Message{
			Name:      sub.Name,
			Message:   sub.Message,
			Timestamp: now.Format(domain.TimestampLayout),
			ID:        s.NewID(now),
			OriginIP:  in.ClientIP,
		}
		return Append(current, created, s.Limits.MaxMessages), nil
	})
	if err != nil {
		return domain.PublicMessage{}, err
	}
	return created.Public(), nil
}

// Append adiciona m ao fim e mantém só as últimas max entradas (FIFO).
func Append(current []domain.Message, m domain.Message, max int) []domain.Message {
	next := append(current, m)
	if over := len(next) - max; max > 0 && over > 0 {
		next = next[over:]
	}
	return next
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationError{}
	}
	fields := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return strings.ToLower(fe.Field())
	})
	return domain.ValidationError{Fields: fields}
}
