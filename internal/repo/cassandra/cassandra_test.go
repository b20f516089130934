package cassandra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

func TestParseConsistency(t *testing.T) {
	cases := map[string]gocql.Consistency{
		"":             gocql.Quorum,
		"quorum":       gocql.Quorum,
		"local_quorum": gocql.LocalQuorum,
		"ONE":          gocql.One,
	}
	for in, want := range cases {
		got, err := ParseConsistency(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("unexpected consistency for %q: got %v want %v", in, got, want)
		}
	}

	if _, err := ParseConsistency("sometimes"); err == nil {
		t.Fatalf("expected error for unknown consistency")
	}
}

func TestStoreErrMapping(t *testing.T) {
	if err := storeErr("get", gocql.ErrNotFound); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := storeErr("get", gocql.ErrNoConnections); !errs.IsTransient(err) {
		t.Fatalf("expected transient, got %v", err)
	}
	if err := storeErr("get", &gocql.RequestErrWriteTimeout{}); !errs.IsTransient(err) {
		t.Fatalf("expected write timeout to be transient, got %v", err)
	}
	if err := storeErr("get", errors.New("syntax error")); errs.IsTransient(err) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

func TestMatchFromCASRow(t *testing.T) {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m, err := matchFromMap(map[string]any{
		"id":         "m1",
		"user_a":     "a",
		"user_b":     "b",
		"snapshots":  `{"a":{"name":"A","age":30,"gender":"male","photos":null,"bio":"","interests":null}}`,
		"created_at": created.UnixMicro(),
	})
	if err != nil {
		t.Fatalf("decode cas row: %v", err)
	}
	if m.ID != "m1" || !m.CreatedAt.Equal(created) || m.Snapshots["a"].Name != "A" {
		t.Fatalf("unexpected match: %+v", m)
	}

	if _, err := matchFromMap(map[string]any{}); err == nil {
		t.Fatalf("expected error for empty row")
	}
}

func TestSortNewestFirst(t *testing.T) {
	t0 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	items := []model.Match{
		{ID: "a", CreatedAt: t0},
		{ID: "c", CreatedAt: t0.Add(time.Minute)},
		{ID: "b", CreatedAt: t0},
	}
	sortNewestFirst(items)
	if items[0].ID != "c" || items[1].ID != "b" || items[2].ID != "a" {
		t.Fatalf("unexpected order: %v %v %v", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestNilSessionIsTransient(t *testing.T) {
	if _, err := NewDecisionRepo(nil).JudgedIDs(context.Background(), "u"); !errs.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}
