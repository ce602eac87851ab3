package domain

import "time"

// TimestampLayout é o formato ISO-8601 (precisão de segundos) gravado em Message.Timestamp.
const TimestampLayout = time.RFC3339

// Message é uma entrada completa do livro de visitas, como fica persistida.
//
// OriginIP é interno: nunca sai em respostas da API (veja PublicMessage).
type Message struct {
	Name      string
	Message   string
	Timestamp string
	ID        string
	OriginIP  string
}

// PublicMessage é a projeção exposta para clientes. Não tem campo de IP.
type PublicMessage struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	ID        string `json:"id"`
}

func (m Message) Public() PublicMessage {
	return PublicMessage{
		Name:      m.Name,
		Message:   m.Message,
		Timestamp: m.Timestamp,
		ID:        m.ID,
	}
}

// PostedAt interpreta Timestamp. Retorna ok=false quando o valor não é válido.
func (m Message) PostedAt() (time.Time, bool) {
	at, err := time.Parse(TimestampLayout, m.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// WelcomeMessages são gravadas quando o store é criado pela primeira vez.
func WelcomeMessages() []Message {
	return []Message{
		{
			Name:      "VirtualPirate",
			Message:   "Welcome to my cyber sanctuary. Leave your mark in the digital void...",
			Timestamp: "2025-01-01T00:00:00Z",
			ID:        "init_001",
			OriginIP:  "127.0.0.1",
		},
	}
}
