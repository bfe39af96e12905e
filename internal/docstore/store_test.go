package docstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/dsl/executor"
)

func openStore(t *testing.T, limit int) *SQLiteStore {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "sub", "docs.db"), HistoryLimit: limit})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, 0)

	doc, err := s.Create(ctx, "Vendas", "<dashboard></dashboard>")
	require.NoError(t, err)
	assert.Len(t, doc.ID, 36)
	assert.Equal(t, 1, doc.Head)

	got, err := s.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vendas", got.Title)
	assert.Equal(t, "<dashboard></dashboard>", got.Code)
	assert.Equal(t, 1, got.Head)
}

func TestGetMissing(t *testing.T) {
	s := openStore(t, 0)
	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
}

func TestSaveAndHistory(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, 0)
	doc, err := s.Create(ctx, "", "v1")
	require.NoError(t, err)

	diags := []executor.Diagnostic{{OK: true, Message: "group 'g' created", Line: 1, Command: "addGroup"}}
	rev := &Revision{DocID: doc.ID, Parent: 1, Code: "v2", Script: `addGroup({"id":"g"})`, Diagnostics: diags}
	require.NoError(t, s.Save(ctx, rev))
	assert.Equal(t, 2, rev.Number)
	assert.Equal(t, 1, rev.Parent)

	require.NoError(t, s.Save(ctx, &Revision{DocID: doc.ID, Code: "v3"}))

	got, err := s.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v3", got.Code)
	assert.Equal(t, 3, got.Head)

	hist, err := s.History(ctx, doc.ID, 0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{hist[0].Number, hist[1].Number, hist[2].Number})
	if diff := cmp.Diff(diags, hist[1].Diagnostics); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, `addGroup({"id":"g"})`, hist[1].Script)
	assert.Nil(t, hist[2].Diagnostics)

	limited, err := s.History(ctx, doc.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "v3", limited[0].Code)
}

func TestSaveConflict(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, 0)
	doc, err := s.Create(ctx, "", "v1")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, &Revision{DocID: doc.ID, Parent: 1, Code: "v2"}))

	err = s.Save(ctx, &Revision{DocID: doc.ID, Parent: 1, Code: "stale"})
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConflict))

	got, err := s.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Code)
}

func TestSaveMissingDocument(t *testing.T) {
	s := openStore(t, 0)
	err := s.Save(context.Background(), &Revision{DocID: "ghost", Code: "x"})
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
}

func TestUndo(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, 0)
	doc, err := s.Create(ctx, "", "v1")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, &Revision{DocID: doc.ID, Code: "v2"}))
	require.NoError(t, s.Save(ctx, &Revision{DocID: doc.ID, Code: "v3"}))

	got, err := s.Undo(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Code)
	assert.Equal(t, 2, got.Head)

	hist, err := s.History(ctx, doc.ID, 0)
	require.NoError(t, err)
	assert.Len(t, hist, 2)

	// a save after undo drops the undone revision
	rev := &Revision{DocID: doc.ID, Code: "v3b"}
	require.NoError(t, s.Save(ctx, rev))
	assert.Equal(t, 3, rev.Number)

	_, err = s.Undo(ctx, doc.ID)
	require.NoError(t, err)
	got, err = s.Undo(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Code)

	_, err = s.Undo(ctx, doc.ID)
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConflict))
}

func TestHistoryLimitPrunes(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, 2)
	doc, err := s.Create(ctx, "", "v1")
	require.NoError(t, err)
	for _, code := range []string{"v2", "v3", "v4"} {
		require.NoError(t, s.Save(ctx, &Revision{DocID: doc.ID, Code: code}))
	}

	hist, err := s.History(ctx, doc.ID, 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "v4", hist[0].Code)
	assert.Equal(t, "v3", hist[1].Code)

	_, err = s.Undo(ctx, doc.ID)
	require.NoError(t, err)
	_, err = s.Undo(ctx, doc.ID)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeConflict), "pruned revisions cannot be restored")
}

func TestDiagnosticsCodec(t *testing.T) {
	blob, err := encodeDiagnostics(nil)
	require.NoError(t, err)
	assert.Nil(t, blob)

	_, err = decodeDiagnostics([]byte{9, 1, 2})
	assert.Error(t, err)
}
