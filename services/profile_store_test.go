package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/PetrosyanDev/armen-cs-teammate/models"
)

func TestMemoryStorePutReplaces(t *testing.T) {
	store := NewMemoryProfileStore()
	ctx := context.Background()

	store.Put(ctx, models.Profile{ID: "u1", DisplayName: "Old", PremierRating: 100})
	store.Put(ctx, models.Profile{ID: "u1", DisplayName: "New", PremierRating: 200})

	profile, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if profile.DisplayName != "New" || profile.PremierRating != 200 {
		t.Errorf("Put did not fully replace the profile: %+v", profile)
	}
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	store := NewMemoryProfileStore()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
}

func TestIncrementReputationUnknownNameIsNoOp(t *testing.T) {
	store := NewMemoryProfileStore()
	ctx := context.Background()
	store.Put(ctx, models.Profile{ID: "u1", DisplayName: "Known"})

	if err := store.IncrementReputation(ctx, "Stranger", models.RatingNoShow); err != nil {
		t.Errorf("Unknown display name must be absorbed as a no-op, got %v", err)
	}

	profile, _ := store.Get(ctx, "u1")
	if profile.ReputationCount(models.RatingNoShow) != 0 {
		t.Errorf("No-op update touched another profile: %+v", profile.Reputation)
	}
}

func TestIncrementReputationFirstMatchWins(t *testing.T) {
	store := NewMemoryProfileStore()
	ctx := context.Background()

	// Two profiles share a display name; iteration order is by id.
	store.Put(ctx, models.Profile{ID: "a", DisplayName: "Twin"})
	store.Put(ctx, models.Profile{ID: "b", DisplayName: "Twin"})

	store.IncrementReputation(ctx, "Twin", models.RatingGoodPlayer)

	first, _ := store.Get(ctx, "a")
	second, _ := store.Get(ctx, "b")
	if first.ReputationCount(models.RatingGoodPlayer) != 1 {
		t.Errorf("First match (id order) should receive the rating: %+v", first.Reputation)
	}
	if second.ReputationCount(models.RatingGoodPlayer) != 0 {
		t.Errorf("Second match must stay untouched: %+v", second.Reputation)
	}
}

func TestListSnapshotOrder(t *testing.T) {
	store := NewMemoryProfileStore()
	ctx := context.Background()

	store.Put(ctx, models.Profile{ID: "b", DisplayName: "Second"})
	store.Put(ctx, models.Profile{ID: "a", DisplayName: "First"})

	profiles, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(profiles) != 2 || profiles[0].ID != "a" || profiles[1].ID != "b" {
		t.Errorf("List must iterate in stable id order, got %+v", profiles)
	}
}

func TestSnapshotsDetachedFromLiveReputation(t *testing.T) {
	store := NewMemoryProfileStore()
	ctx := context.Background()

	store.Put(ctx, models.Profile{
		ID:          "c",
		DisplayName: "Candidate",
		Reputation:  map[string]int{models.RatingGoodPlayer: 1},
	})

	snapshot, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	fetched, _ := store.Get(ctx, "c")

	store.IncrementReputation(ctx, "Candidate", models.RatingGoodPlayer)

	if got := snapshot[0].ReputationCount(models.RatingGoodPlayer); got != 1 {
		t.Errorf("List snapshot observed a later increment: %d", got)
	}
	if got := fetched.ReputationCount(models.RatingGoodPlayer); got != 1 {
		t.Errorf("Get result observed a later increment: %d", got)
	}

	// The caller's map must not alias the stored one either.
	fetched.Reputation[models.RatingGoodPlayer] = 99
	current, _ := store.Get(ctx, "c")
	if got := current.ReputationCount(models.RatingGoodPlayer); got != 2 {
		t.Errorf("Mutating a returned profile leaked into the store: %d", got)
	}
}

func TestRankingSnapshotSafeDuringIncrements(t *testing.T) {
	store := NewMemoryProfileStore()
	ms := NewMatchmakingService(store, 4, 500)
	ctx := context.Background()

	requester := baseProfile("r", "Requester")
	candidate := baseProfile("c", "Candidate")
	store.Put(ctx, requester)
	store.Put(ctx, candidate)

	snapshot, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// Score the snapshot while ratings land concurrently. Run with -race:
	// a snapshot sharing the live reputation map fails here.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			store.IncrementReputation(ctx, "Candidate", models.RatingVeryFriendly)
		}
	}()
	for i := 0; i < 1000; i++ {
		ms.Rank(&requester, snapshot)
	}
	<-done
}

func TestConcurrentIncrementsDoNotLoseUpdates(t *testing.T) {
	store := NewMemoryProfileStore()
	ctx := context.Background()

	store.Put(ctx, models.Profile{ID: "a", DisplayName: "Alpha"})
	store.Put(ctx, models.Profile{ID: "b", DisplayName: "Bravo"})

	const rounds = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			store.IncrementReputation(ctx, "Alpha", models.RatingVeryFriendly)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			store.IncrementReputation(ctx, "Bravo", models.RatingGoodPlayer)
		}
	}()
	wg.Wait()

	alpha, _ := store.Get(ctx, "a")
	bravo, _ := store.Get(ctx, "b")
	if got := alpha.ReputationCount(models.RatingVeryFriendly); got != rounds {
		t.Errorf("Lost updates on Alpha: expected %d, got %d", rounds, got)
	}
	if got := bravo.ReputationCount(models.RatingGoodPlayer); got != rounds {
		t.Errorf("Lost updates on Bravo: expected %d, got %d", rounds, got)
	}
}
