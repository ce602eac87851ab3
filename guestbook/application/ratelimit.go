package application

import (
	"time"

	"guestbook-service/guestbook/domain"
)

// RemainingWait diz quanto tempo clientIP ainda precisa esperar para postar.
//
// Varre do mais novo para o mais antigo e para na PRIMEIRA mensagem do mesmo IP;
// só essa é considerada. Timestamp inválido nessa mensagem encerra a busca sem bloquear.
// Com o store limitado a ~100 entradas a varredura linear é suficiente.
func RemainingWait(messages []domain.Message, clientIP string, now time.Time, window time.Duration) time.Duration {
	if window <= 0 || clientIP == "" {
		return 0
	}
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.OriginIP != clientIP {
			continue
		}
		at, ok := m.PostedAt()
		if !ok {
			return 0
		}
		if elapsed := now.Sub(at); elapsed < window {
			return window - elapsed
		}
		return 0
	}
	return 0
}
