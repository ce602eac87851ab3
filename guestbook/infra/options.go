package infra

import (
	"log/slog"
	"time"

	"guestbook-service/guestbook/domain"
)

// storeConfig é compartilhado por FileStore e BadgerStore.
type storeConfig struct {
	seed        []domain.Message
	log         *slog.Logger
	lockTimeout time.Duration
	processLock string
}

type StoreOption func(*storeConfig)

// WithSeed troca as mensagens gravadas na criação do store.
func WithSeed(msgs []domain.Message) StoreOption {
	return func(c *storeConfig) { c.seed = msgs }
}

func WithLogger(log *slog.Logger) StoreOption {
	return func(c *storeConfig) { c.log = log }
}

// WithLockTimeout limita quanto um escritor espera pela vaga exclusiva.
// 0 espera até o ctx da requisição encerrar.
func WithLockTimeout(d time.Duration) StoreOption {
	return func(c *storeConfig) { c.lockTimeout = d }
}

// WithProcessLock estende a exclusão mútua entre processos usando um mutex
// nomeado do sistema (juju/mutex). Só faz sentido para FileStore: o Badger
// já trava o diretório para um único processo.
func WithProcessLock(name string) StoreOption {
	return func(c *storeConfig) { c.processLock = name }
}

func newStoreConfig(opts []StoreOption) storeConfig {
	c := storeConfig{
		seed:        domain.WelcomeMessages(),
		log:         slog.Default(),
		lockTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
