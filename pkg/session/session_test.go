package session

import (
	"context"
	"testing"
	"time"

	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open badger store: %v", err)
	}
	t.Cleanup(func() { _ = badgerStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"badger": badgerStore,
	}
}

func TestAppendAndHistory(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			turns := []Turn{
				{
					Question: "什么是向量检索?",
					Answer:   "用向量距离找相似文档。",
					Context:  "[文档1: guide.txt (相关度: 0.900)]\n向量检索使用嵌入向量。",
					Sources:  []retrieval.SourceRef{{Filename: "guide.txt", Score: 0.9}},
				},
				{Question: "阈值是多少?", Answer: "默认 0.7。"},
			}
			for _, turn := range turns {
				if err := store.Append(ctx, "s1", turn); err != nil {
					t.Fatalf("append failed: %v", err)
				}
			}

			got, err := store.History(ctx, "s1")
			if err != nil {
				t.Fatalf("history failed: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 turns, got %d", len(got))
			}
			for i := range turns {
				if got[i].Question != turns[i].Question || got[i].Answer != turns[i].Answer {
					t.Errorf("turn %d mismatch: %+v", i, got[i])
				}
				if got[i].Timestamp.IsZero() {
					t.Errorf("turn %d missing timestamp", i)
				}
			}
			if got[0].Context != turns[0].Context {
				t.Errorf("context mismatch: %q", got[0].Context)
			}
			if len(got[0].Sources) != 1 || got[0].Sources[0].Filename != "guide.txt" {
				t.Errorf("sources mismatch: %+v", got[0].Sources)
			}
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Append(ctx, "a", Turn{Question: "q", Answer: "a"}); err != nil {
				t.Fatalf("append failed: %v", err)
			}

			got, err := store.History(ctx, "b")
			if err != nil {
				t.Fatalf("history failed: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected empty history for other session, got %d turns", len(got))
			}
		})
	}
}

func TestClear(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := store.Append(ctx, "s1", Turn{Question: "q", Answer: "a"}); err != nil {
				t.Fatalf("append failed: %v", err)
			}
			if err := store.Clear(ctx, "s1"); err != nil {
				t.Fatalf("clear failed: %v", err)
			}
			got, err := store.History(ctx, "s1")
			if err != nil {
				t.Fatalf("history failed: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected empty history after clear, got %d turns", len(got))
			}

			// Clearing an unknown session is a no-op.
			if err := store.Clear(ctx, "unknown"); err != nil {
				t.Errorf("clear of unknown session failed: %v", err)
			}
		})
	}
}

func TestTimestampPreserved(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

			if err := store.Append(ctx, "s1", Turn{Question: "q", Answer: "a", Timestamp: stamp}); err != nil {
				t.Fatalf("append failed: %v", err)
			}
			got, err := store.History(ctx, "s1")
			if err != nil {
				t.Fatalf("history failed: %v", err)
			}
			if !got[0].Timestamp.Equal(stamp) {
				t.Errorf("expected timestamp %v, got %v", stamp, got[0].Timestamp)
			}
		})
	}
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Append(ctx, "s1", Turn{Question: "q", Answer: "a"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.History(ctx, "s1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(got) != 1 || got[0].Question != "q" {
		t.Errorf("history not persisted: %+v", got)
	}
}
