package infra

import (
	"context"
	"errors"

	"guestbook-service/guestbook/domain"

	"github.com/dgraph-io/badger/v4"
)

// DefaultBadgerKey é a chave onde o documento inteiro fica guardado.
const DefaultBadgerKey = "guestbook:document"

// BadgerStore guarda o mesmo documento do FileStore numa chave do BadgerDB.
// A transação do Badger dá a atomicidade; o SlotPool evita ErrConflict entre
// escritores do mesmo processo.
type BadgerStore struct {
	db     *badger.DB
	key    []byte
	cfg    storeConfig
	writer domain.SlotPool
}

var _ domain.MessageStore = (*BadgerStore)(nil)

func NewBadgerStore(db *badger.DB, opts ...StoreOption) *BadgerStore {
	return &BadgerStore{
		db:     db,
		key:    []byte(DefaultBadgerKey),
		cfg:    newStoreConfig(opts),
		writer: NewSlotPool(1),
	}
}

func (s *BadgerStore) Init(ctx context.Context) error {
	release, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(s.key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		data, err := encodeDocument(s.cfg.seed)
		if err != nil {
			return err
		}
		s.cfg.log.Info("seeding guestbook", "key", string(s.key), "messages", len(s.cfg.seed))
		return txn.Set(s.key, data)
	})
	if err != nil {
		return domain.StorageError{Op: "init", Err: err}
	}
	return nil
}

func (s *BadgerStore) Load(ctx context.Context) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StorageError{Op: "read", Err: err}
	}
	var msgs []domain.Message
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		msgs, err = s.read(txn)
		return err
	})
	if err != nil {
		return nil, domain.StorageError{Op: "read", Err: err}
	}
	return msgs, nil
}

func (s *BadgerStore) Update(ctx context.Context, fn domain.UpdateFunc) error {
	release, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	var fnErr error
	err = s.db.Update(func(txn *badger.Txn) error {
		current, err := s.read(txn)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			fnErr = err
			return err
		}
		data, err := encodeDocument(next)
		if err != nil {
			return err
		}
		return txn.Set(s.key, data)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return domain.StorageError{Op: "write", Err: err}
	}
	return nil
}

// read devolve lista vazia para chave ausente ou documento corrompido.
func (s *BadgerStore) read(txn *badger.Txn) ([]domain.Message, error) {
	item, err := txn.Get(s.key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	msgs, err := decodeDocument(data)
	if err != nil {
		s.cfg.log.Warn("guestbook document is corrupt, starting empty", "key", string(s.key), "err", err)
		return []domain.Message{}, nil
	}
	return msgs, nil
}

func (s *BadgerStore) lock(ctx context.Context) (func(), error) {
	acqCtx := ctx
	if s.cfg.lockTimeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, s.cfg.lockTimeout)
		defer cancel()
	}
	release, ok := s.writer.Acquire(acqCtx)
	if !ok {
		return nil, domain.StorageError{Op: "lock", Err: domain.ErrLockTimeout}
	}
	return release, nil
}
