package application

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDFunc gera o id de uma mensagem criada em at.
type IDFunc func(at time.Time) string

// NewMessageID monta "msg_<unix>_<8 hex>". O sufixo sai dos primeiros 32 bits
// (aleatórios) de um UUIDv4.
func NewMessageID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "msg_" + strconv.FormatInt(at.Unix(), 10) + "_" + suffix
}
