package infra

import (
	"encoding/json"

	"guestbook-service/guestbook/domain"

	"github.com/samber/lo"
)

// document é o formato gravado em disco: {"messages": [...]}.
// O IP de origem fica em "ip", compatível com arquivos já existentes.
type document struct {
	Messages []storedMessage `json:"messages"`
}

type storedMessage struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	ID        string `json:"id"`
	IP        string `json:"ip,omitempty"`
}

func encodeDocument(msgs []domain.Message) ([]byte, error) {
	doc := document{Messages: lo.Map(msgs, func(m domain.Message, _ int) storedMessage {
		return storedMessage{
			Name:      m.Name,
			Message:   m.Message,
			Timestamp: m.Timestamp,
			ID:        m.ID,
			IP:        m.OriginIP,
		}
	})}
	if doc.Messages == nil {
		doc.Messages = []storedMessage{}
	}
	return json.MarshalIndent(doc, "", "    ")
}

func decodeDocument(data []byte) ([]domain.Message, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return lo.Map(doc.Messages, func(m storedMessage, _ int) domain.Message {
		return domain.Message{
			Name:      m.Name,
			Message:   m.Message,
			Timestamp: m.Timestamp,
			ID:        m.ID,
			OriginIP:  m.IP,
		}
	}), nil
}
