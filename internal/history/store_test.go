package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	"github.com/msto63/cmdscript/foundation/cmdlang/presenter"
	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(Config{Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Minute)

	records := []*cmdlang.Record{
		{SessionID: "a", Line: "network list", Namespace: "network", Command: "list", Status: cmdlang.StatusOK, Result: "3", Timestamp: base},
		{SessionID: "a", Line: "node bogus", Namespace: "node", Status: cmdlang.StatusFailed, Error: "not found", Timestamp: base.Add(time.Second)},
		{SessionID: "b", Line: "node count", Namespace: "node", Command: "count", Status: cmdlang.StatusOK, Duration: 15 * time.Millisecond, Timestamp: base.Add(2 * time.Second)},
	}
	for _, rec := range records {
		require.NoError(t, store.Record(ctx, rec))
	}

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "node count", all[0].Line, "newest first")
	assert.Equal(t, 15*time.Millisecond, all[0].Duration)
	assert.NotEmpty(t, all[0].ID)

	sessionA, err := store.List(ctx, Filter{SessionID: "a"})
	require.NoError(t, err)
	assert.Len(t, sessionA, 2)

	failed, err := store.List(ctx, Filter{Status: cmdlang.StatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "not found", failed[0].Error)

	_, err = store.List(ctx, Filter{Status: "pending"})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidInput))

	limited, err := store.List(ctx, Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "node bogus", limited[0].Line)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Total: 3, Failed: 1, Sessions: 2}, stats)
}

func TestSQLiteStore_PruneAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &cmdlang.Record{SessionID: "a", Line: "old", Status: cmdlang.StatusOK, Timestamp: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, store.Record(ctx, &cmdlang.Record{SessionID: "a", Line: "new", Status: cmdlang.StatusOK}))

	pruned, err := store.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	cleared, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	entries, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteStore_TruncatesResults(t *testing.T) {
	store, err := NewSQLiteStore(Config{Path: filepath.Join(t.TempDir(), "h.db"), MaxResultLength: 4})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(context.Background(), &cmdlang.Record{SessionID: "a", Line: "x", Status: cmdlang.StatusOK, Result: "abcdefgh"}))
	entries, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abcd", entries[0].Result)
}

func TestNamespace_InSession(t *testing.T) {
	store := newTestStore(t)
	out := presenter.NewBuffer()
	catalog := registry.NewCatalog(registry.Options{Logger: mdwlog.Discard()})
	require.NoError(t, catalog.RegisterCommand("text", &registry.CommandDefinition{
		Name: "upper",
		Handler: func(ctx context.Context, args map[string]string) (interface{}, error) {
			return strings.ToUpper(args["value"]), nil
		},
		Arguments: []*registry.ArgumentDefinition{{Name: "value", Required: true}},
	}))

	session, err := cmdlang.NewSession(cmdlang.Options{
		Logger:    mdwlog.Discard(),
		Registry:  catalog,
		Presenter: out,
		Recorder:  store,
		Builtins:  []*registry.NamespaceDefinition{Namespace(store)},
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, session.HandleLine(ctx, "text upper value=abc"))
	err = session.HandleLine(ctx, "text lower")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeUnresolvedSymbol))

	require.NoError(t, session.HandleLine(ctx, "hist list stat=failed"))
	results := out.Texts(presenter.KindResult)
	require.NotEmpty(t, results)
	assert.Contains(t, results[len(results)-1], "failed  text lower")
	assert.NotContains(t, results[len(results)-1], "text upper")

	require.NoError(t, session.HandleLine(ctx, "history stats"))
	results = out.Texts(presenter.KindResult)
	assert.Equal(t, "3 commands, 1 failed, 1 sessions", results[len(results)-1])

	require.NoError(t, session.HandleLine(ctx, "history clear"))
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total, "only the clear itself remains")

	err = session.HandleLine(ctx, "history list limit=0")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidInput), "limit below minimum")
}

func TestNamespace_Prune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Record(ctx, &cmdlang.Record{SessionID: "a", Line: "old", Status: cmdlang.StatusOK, Timestamp: time.Now().Add(-96 * time.Hour)}))
	require.NoError(t, store.Record(ctx, &cmdlang.Record{SessionID: "a", Line: "new", Status: cmdlang.StatusOK}))

	out := presenter.NewBuffer()
	session, err := cmdlang.NewSession(cmdlang.Options{
		Logger:    mdwlog.Discard(),
		Registry:  registry.NewCatalog(registry.Options{Logger: mdwlog.Discard()}),
		Presenter: out,
		Builtins:  []*registry.NamespaceDefinition{Namespace(store)},
	})
	require.NoError(t, err)

	err = session.HandleLine(ctx, "history prune age=soon")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidInput))

	require.NoError(t, session.HandleLine(ctx, "hist pru age=72h"))
	results := out.Texts(presenter.KindResult)
	require.NotEmpty(t, results)
	assert.Equal(t, "1 entries deleted", results[len(results)-1])

	entries, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Line)
}
