package store_test

import (
	"context"
	"testing"
	"time"

	"freedify/internal/catalog"
	"freedify/internal/store"
	"freedify/internal/testsupport"
)

func TestEnqueueAssignsIdentityAndDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	scrobble, err := st.Enqueue(ctx, store.Scrobble{
		TrackName:  "Aurora",
		ArtistName: "Nordlys",
		DurationMS: 183000,
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if scrobble.ID == "" {
		t.Fatal("expected scrobble ID to be assigned")
	}
	if scrobble.Status != store.StatusPending {
		t.Fatalf("status = %q, want pending", scrobble.Status)
	}
	if scrobble.ListenedAt == 0 {
		t.Fatal("expected listened_at to default to now")
	}

	fetched, err := st.GetByID(ctx, scrobble.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched == nil || fetched.TrackName != "Aurora" || fetched.DurationMS != 183000 {
		t.Fatalf("unexpected fetched scrobble: %#v", fetched)
	}
}

func TestEnqueueRequiresNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.Enqueue(context.Background(), store.Scrobble{TrackName: "No Artist"}); err == nil {
		t.Fatal("expected error when artist missing")
	}
}

func TestPendingScrobblesOrderedOldestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.Enqueue(t, st, "First", "Band")
	testsupport.Enqueue(t, st, "Second", "Band")

	pending, err := st.PendingScrobbles(ctx, 10)
	if err != nil {
		t.Fatalf("PendingScrobbles: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("len(pending) = %d, want 2", len(pending))
	}
	if pending[0].ID != first.ID {
		t.Fatalf("expected oldest first, got %q", pending[0].TrackName)
	}
}

func TestMarkSubmittedRemovesFromPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	scrobble := testsupport.Enqueue(t, st, "Aurora", "Nordlys")

	if err := st.MarkSubmitted(ctx, scrobble.ID); err != nil {
		t.Fatalf("MarkSubmitted: %v", err)
	}
	pending, err := st.PendingScrobbles(ctx, 10)
	if err != nil {
		t.Fatalf("PendingScrobbles: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("len(pending) = %d, want 0", len(pending))
	}

	fetched, err := st.GetByID(ctx, scrobble.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Status != store.StatusSubmitted {
		t.Fatalf("status = %q, want submitted", fetched.Status)
	}
}

func TestMarkFailedKeepsPendingUntilBudgetExhausted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	scrobble := testsupport.Enqueue(t, st, "Aurora", "Nordlys")

	if err := st.MarkFailed(ctx, scrobble.ID, "upstream 502", 3); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	fetched, err := st.GetByID(ctx, scrobble.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Status != store.StatusPending || fetched.Attempts != 1 {
		t.Fatalf("after first failure: status=%q attempts=%d", fetched.Status, fetched.Attempts)
	}
	if fetched.LastError != "upstream 502" {
		t.Fatalf("LastError = %q", fetched.LastError)
	}

	if err := st.MarkFailed(ctx, scrobble.ID, "upstream 502", 3); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := st.MarkFailed(ctx, scrobble.ID, "upstream 502", 3); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	fetched, err = st.GetByID(ctx, scrobble.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Status != store.StatusFailed || fetched.Attempts != 3 {
		t.Fatalf("after exhausting budget: status=%q attempts=%d", fetched.Status, fetched.Attempts)
	}
}

func TestRetryFailedResetsBudget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	scrobble := testsupport.Enqueue(t, st, "Aurora", "Nordlys")
	if err := st.MarkFailed(ctx, scrobble.ID, "boom", 1); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	affected, err := st.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}
	fetched, err := st.GetByID(ctx, scrobble.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Status != store.StatusPending || fetched.Attempts != 0 || fetched.LastError != "" {
		t.Fatalf("after retry: %#v", fetched)
	}
}

func TestSummaryCountsByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.Enqueue(t, st, "One", "Band")
	second := testsupport.Enqueue(t, st, "Two", "Band")
	third := testsupport.Enqueue(t, st, "Three", "Band")
	if err := st.MarkSubmitted(ctx, second.ID); err != nil {
		t.Fatalf("MarkSubmitted: %v", err)
	}
	if err := st.MarkFailed(ctx, third.ID, "boom", 1); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	summary, err := st.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := store.JournalSummary{Pending: 1, Submitted: 1, Failed: 1, Total: 3}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
}

func TestEnrichmentCacheRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	in := &catalog.Enrichment{
		ReleaseDate: "2017-04-28",
		ReleaseID:   "rel-1",
		Label:       "Big Label",
		CoverArtURL: "https://caa.example/front-500.jpg",
		Genres:      []string{"pop", "dance"},
	}
	if err := st.PutEnrichment(ctx, "USUM71703861", in); err != nil {
		t.Fatalf("PutEnrichment: %v", err)
	}

	out, ok, err := st.Enrichment(ctx, "USUM71703861")
	if err != nil {
		t.Fatalf("Enrichment: %v", err)
	}
	if !ok || out == nil {
		t.Fatal("expected cache hit")
	}
	if out.Label != in.Label || out.CoverArtURL != in.CoverArtURL || len(out.Genres) != 2 {
		t.Fatalf("round trip mismatch: %#v", out)
	}

	_, ok, err = st.Enrichment(ctx, "UNKNOWN")
	if err != nil {
		t.Fatalf("Enrichment miss: %v", err)
	}
	if ok {
		t.Fatal("expected cache miss for unknown isrc")
	}
}

func TestEnrichmentPrune(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := st.PutEnrichment(ctx, "USUM71703861", &catalog.Enrichment{Label: "L"}); err != nil {
		t.Fatalf("PutEnrichment: %v", err)
	}

	pruned, err := st.PruneEnrichment(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PruneEnrichment: %v", err)
	}
	if pruned != 0 {
		t.Fatalf("pruned = %d, want 0 for fresh entry", pruned)
	}

	pruned, err = st.PruneEnrichment(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneEnrichment: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}
	count, err := st.EnrichmentCount(ctx)
	if err != nil {
		t.Fatalf("EnrichmentCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}
