package infra

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"guestbook-service/guestbook/domain"

	"github.com/juju/clock"
	"github.com/juju/mutex/v2"
	"github.com/juju/utils/v4"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStore guarda o livro de visitas num único documento JSON.
//
// Leituras não travam: a troca atômica (arquivo temporário + rename) garante
// que o caminho canônico sempre tem um documento inteiro. Escritas passam por
// um SlotPool de capacidade 1 e, opcionalmente, por um mutex nomeado do sistema
// para excluir outros processos.
type FileStore struct {
	path   string
	cfg    storeConfig
	writer domain.SlotPool
}

var _ domain.MessageStore = (*FileStore)(nil)

func NewFileStore(path string, opts ...StoreOption) *FileStore {
	return &FileStore{
		path:   path,
		cfg:    newStoreConfig(opts),
		writer: NewSlotPool(1),
	}
}

func (s *FileStore) Path() string { return s.path }

// Init cria o diretório (0755) e grava as mensagens de boas-vindas se o
// documento ainda não existe. Documento existente não é tocado.
func (s *FileStore) Init(ctx context.Context) error {
	release, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return domain.StorageError{Op: "init", Err: err}
	}
	_, err = os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return domain.StorageError{Op: "init", Err: err}
	}
	s.cfg.log.Info("seeding guestbook", "path", s.path, "messages", len(s.cfg.seed))
	return s.write(s.cfg.seed)
}

func (s *FileStore) Load(ctx context.Context) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StorageError{Op: "read", Err: err}
	}
	return s.read()
}

func (s *FileStore) Update(ctx context.Context, fn domain.UpdateFunc) error {
	release, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer release()

	current, err := s.read()
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.write(next)
}

func (s *FileStore) read() ([]domain.Message, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, domain.StorageError{Op: "read", Err: err}
	}
	msgs, err := decodeDocument(data)
	if err != nil {
		s.cfg.log.Warn("guestbook document is corrupt, starting empty", "path", s.path, "err", err)
		return []domain.Message{}, nil
	}
	return msgs, nil
}

func (s *FileStore) write(msgs []domain.Message) error {
	data, err := encodeDocument(msgs)
	if err != nil {
		return domain.StorageError{Op: "encode", Err: err}
	}
	if err := utils.AtomicWriteFile(s.path, data, filePerm); err != nil {
		return domain.StorageError{Op: "write", Err: err}
	}
	return nil
}

// lock adquire a vaga de escritor e, se configurado, o mutex entre processos.
func (s *FileStore) lock(ctx context.Context) (func(), error) {
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
	if s.cfg.processLock == "" {
		return release, nil
	}

	timeout := s.cfg.lockTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	releaser, err := mutex.Acquire(mutex.Spec{
		Name:    s.cfg.processLock,
		Clock:   clock.WallClock,
		Delay:   10 * time.Millisecond,
		Timeout: timeout,
		Cancel:  ctx.Done(),
	})
	if err != nil {
		release()
		if errors.Is(err, mutex.ErrTimeout) {
			err = domain.ErrLockTimeout
		}
		return nil, domain.StorageError{Op: "lock", Err: err}
	}
	return func() {
		releaser.Release()
		release()
	}, nil
}
