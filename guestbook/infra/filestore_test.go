package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"guestbook-service/guestbook/domain"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T, opts ...StoreOption) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "guestbook.json")
	opts = append([]StoreOption{WithLogger(logs.GetLoggerFromLevel(slog.LevelError))}, opts...)
	return NewFileStore(path, opts...)
}

func msg(i int) domain.Message {
	return domain.Message{
		Name:      fmt.Sprintf("n%d", i),
		Message:   fmt.Sprintf("m%d", i),
		Timestamp: "2026-01-01T00:00:00Z",
		ID:        fmt.Sprintf("id_%d", i),
		OriginIP:  "8.8.8.8",
	}
}

func appendOne(m domain.Message) domain.UpdateFunc {
	return func(current []domain.Message) ([]domain.Message, error) {
		return append(current, m), nil
	}
}

func Test_FileStore_Init_CreatesDirectoryAndSeeds(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)
	ctx := context.Background()

	req.NoError(store.Init(ctx))
	info, err := os.Stat(filepath.Dir(store.Path()))
	req.NoError(err)
	req.True(info.IsDir())

	msgs, err := store.Load(ctx)
	req.NoError(err)
	req.Equal(domain.WelcomeMessages(), msgs)

	raw, err := os.ReadFile(store.Path())
	req.NoError(err)
	var doc map[string][]map[string]string
	req.NoError(json.Unmarshal(raw, &doc))
	req.Equal("127.0.0.1", doc["messages"][0]["ip"])
}

func Test_FileStore_Init_KeepsExistingDocument(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)
	ctx := context.Background()

	req.NoError(store.Init(ctx))
	req.NoError(store.Update(ctx, appendOne(msg(1))))
	req.NoError(store.Init(ctx))

	msgs, err := store.Load(ctx)
	req.NoError(err)
	req.Len(msgs, 2)
}

func Test_FileStore_Load_MissingFileIsEmpty(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)

	msgs, err := store.Load(context.Background())
	req.NoError(err)
	req.NotNil(msgs)
	req.Empty(msgs)
}

func Test_FileStore_Load_CorruptFileIsEmpty(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)
	req.NoError(os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	req.NoError(os.WriteFile(store.Path(), []byte(`{"messages": [`), 0o644))

	msgs, err := store.Load(context.Background())
	req.NoError(err)
	req.Empty(msgs)
}

func Test_FileStore_RoundTripKeepsInsertionOrder(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)
	ctx := context.Background()

	var written []domain.Message
	for i := 0; i < 10; i++ {
		m := msg(i)
		written = append(written, m)
		req.NoError(store.Update(ctx, appendOne(m)))
	}

	msgs, err := store.Load(ctx)
	req.NoError(err)
	req.Equal(written, msgs)
}

func Test_FileStore_Update_ErrorFromFnSkipsWrite(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)
	ctx := context.Background()
	req.NoError(store.Init(ctx))

	boom := domain.RateLimitError{Remaining: 1}
	err := store.Update(ctx, func([]domain.Message) ([]domain.Message, error) {
		return []domain.Message{msg(9)}, boom
	})
	req.ErrorIs(err, boom)

	msgs, err := store.Load(ctx)
	req.NoError(err)
	req.Equal(domain.WelcomeMessages(), msgs)
}

func Test_FileStore_Update_FailsLoudlyWhenPathIsNotAFile(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)
	req.NoError(os.MkdirAll(store.Path(), 0o755))

	err := store.Update(context.Background(), appendOne(msg(1)))
	var serr domain.StorageError
	req.ErrorAs(err, &serr)
}

func Test_FileStore_Update_LeavesNoTempFiles(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)
	ctx := context.Background()
	req.NoError(store.Init(ctx))

	for i := 0; i < 5; i++ {
		req.NoError(store.Update(ctx, appendOne(msg(i))))
	}
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	req.NoError(err)
	req.Len(entries, 1)
	req.Equal("guestbook.json", entries[0].Name())
}

func Test_FileStore_Update_ConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t)
	ctx := context.Background()

	const writers = 25
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- store.Update(ctx, appendOne(msg(i)))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	msgs, err := store.Load(ctx)
	req.NoError(err)
	req.Len(msgs, writers)
}

func Test_FileStore_Update_LockTimeout(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t, WithLockTimeout(20*time.Millisecond))
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.Update(ctx, func(current []domain.Message) ([]domain.Message, error) {
			close(entered)
			<-release
			return current, nil
		})
	}()
	<-entered

	err := store.Update(ctx, appendOne(msg(1)))
	req.True(errors.Is(err, domain.ErrLockTimeout), "expected lock timeout, got %v", err)

	close(release)
	req.NoError(<-done)
}

func Test_FileStore_ProcessLock(t *testing.T) {
	req := require.New(t)
	store := newFileStore(t, WithProcessLock("guestbook-test-"+fmt.Sprint(os.Getpid())))
	ctx := context.Background()

	req.NoError(store.Init(ctx))
	req.NoError(store.Update(ctx, appendOne(msg(1))))

	msgs, err := store.Load(ctx)
	req.NoError(err)
	req.Len(msgs, 2)
}
