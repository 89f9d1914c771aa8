package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlearn/flashlearn-server/internal/auth"
	"github.com/flashlearn/flashlearn-server/internal/domain"
	"github.com/flashlearn/flashlearn-server/internal/id"
	"github.com/flashlearn/flashlearn-server/internal/service"
	"github.com/flashlearn/flashlearn-server/internal/store"
	"github.com/flashlearn/flashlearn-server/internal/store/sqlite"
)

type testEnv struct {
	root  string
	store store.Store
	cards *service.CardService
	user  *domain.User
}

func setupImporter(t *testing.T) (*Importer, *testEnv) {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	userID, err := id.Generate("user")
	require.NoError(t, err)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &domain.User{
		Record:       domain.Record{ID: userID},
		Email:        "alice@example.com",
		PasswordHash: hash,
		DisplayName:  "alice@example.com",
	}
	user.InitTimestamps()
	require.NoError(t, st.CreateUser(context.Background(), user))

	root := filepath.Join(tmpDir, "drop")
	importer, err := New(root, st, service.NewTransferService(st, logger), logger, Options{
		SettleDelay: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	return importer, &testEnv{
		root:  root,
		store: st,
		cards: service.NewCardService(st, logger),
		user:  user,
	}
}

func startImporter(t *testing.T, importer *Importer) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = importer.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher a moment to arm.
	time.Sleep(100 * time.Millisecond)
}

func (env *testEnv) cardCount(t *testing.T) int {
	t.Helper()

	cards, err := env.cards.List(context.Background(), env.user.ID, nil)
	require.NoError(t, err)
	return len(cards)
}

func TestImporter_DroppedCSV(t *testing.T) {
	importer, env := setupImporter(t)

	userDir := filepath.Join(env.root, env.user.Email)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	startImporter(t, importer)

	path := filepath.Join(userDir, "cards.csv")
	content := "Word,Meaning\n\"hola\",\"hello\"\n\"adios\",\"goodbye\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	assert.Eventually(t, func() bool {
		return env.cardCount(t) == 2
	}, 3*time.Second, 25*time.Millisecond, "dropped cards never imported")

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path + ".imported")
		return err == nil
	}, 3*time.Second, 25*time.Millisecond, "processed file not renamed")
}

func TestImporter_DroppedJSON(t *testing.T) {
	importer, env := setupImporter(t)

	userDir := filepath.Join(env.root, env.user.Email)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	startImporter(t, importer)

	path := filepath.Join(userDir, "cards.json")
	content := `[{"front":"uno","back":"one","language":"Spanish"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	assert.Eventually(t, func() bool {
		return env.cardCount(t) == 1
	}, 3*time.Second, 25*time.Millisecond)
}

func TestImporter_UnknownUserFolderFails(t *testing.T) {
	importer, env := setupImporter(t)

	userDir := filepath.Join(env.root, "nobody@example.com")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	startImporter(t, importer)

	path := filepath.Join(userDir, "cards.csv")
	content := "Word,Meaning\n\"hola\",\"hello\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path + ".failed")
		return err == nil
	}, 3*time.Second, 25*time.Millisecond, "file for unknown user not marked failed")

	assert.Zero(t, env.cardCount(t))
}

func TestImporter_MalformedFileFails(t *testing.T) {
	importer, env := setupImporter(t)

	userDir := filepath.Join(env.root, env.user.Email)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	startImporter(t, importer)

	path := filepath.Join(userDir, "cards.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path + ".failed")
		return err == nil
	}, 3*time.Second, 25*time.Millisecond)
}

func TestImporter_SweepsExistingFiles(t *testing.T) {
	importer, env := setupImporter(t)

	// File dropped before the watcher starts.
	userDir := filepath.Join(env.root, env.user.Email)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	path := filepath.Join(userDir, "cards.csv")
	content := "Word,Meaning\n\"hola\",\"hello\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	startImporter(t, importer)

	assert.Eventually(t, func() bool {
		return env.cardCount(t) == 1
	}, 3*time.Second, 25*time.Millisecond)
}

func TestImporter_IgnoresOtherExtensions(t *testing.T) {
	importer, env := setupImporter(t)

	userDir := filepath.Join(env.root, env.user.Email)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	startImporter(t, importer)

	path := filepath.Join(userDir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	time.Sleep(300 * time.Millisecond)

	assert.Zero(t, env.cardCount(t))
	_, err := os.Stat(path)
	assert.NoError(t, err, "unrelated files are left alone")
}
