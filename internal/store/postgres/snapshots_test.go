package postgres

import (
	"context"
	"os"
	"testing"

	"headliner/internal/gamestate"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dsn := os.Getenv("HEADLINER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HEADLINER_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	client, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { client.Close(ctx) })
	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return client
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	approval := 41.0
	snap := &gamestate.Snapshot{
		PlayerID:       "pg-test-player",
		Name:           "Sam Ortiz",
		Tier:           4,
		Title:          "Senator",
		Turn:           30,
		Approval:       &approval,
		Alignment:      gamestate.Alignment{LawChaos: 10, GoodEvil: -35},
		PartyPositions: map[string]string{"Economy": "cut taxes"},
	}
	t.Cleanup(func() { client.DeleteSnapshot(ctx, snap.PlayerID) })

	if err := client.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := client.LoadSnapshot(ctx, snap.PlayerID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.Title != "Senator" || got.Tier != 4 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if got.Approval == nil || *got.Approval != 41 {
		t.Fatalf("expected approval 41, got %v", got.Approval)
	}
	if got.PartyPositions["Economy"] != "cut taxes" {
		t.Fatalf("unexpected party positions: %+v", got.PartyPositions)
	}

	summaries, err := client.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, s := range summaries {
		if s.PlayerID == snap.PlayerID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected snapshot in list")
	}
}

func TestListSnapshots_OrderedByPlayerID(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for _, id := range []string{"pg-order-b", "pg-order-a"} {
		t.Cleanup(func() { client.DeleteSnapshot(ctx, id) })
		if err := client.SaveSnapshot(ctx, &gamestate.Snapshot{PlayerID: id}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	summaries, err := client.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var order []string
	for _, s := range summaries {
		if s.PlayerID == "pg-order-a" || s.PlayerID == "pg-order-b" {
			order = append(order, s.PlayerID)
		}
	}
	if len(order) != 2 || order[0] != "pg-order-a" {
		t.Fatalf("expected pg-order-a before pg-order-b, got %v", order)
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	client := newTestClient(t)
	got, err := client.LoadSnapshot(context.Background(), "pg-test-nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
