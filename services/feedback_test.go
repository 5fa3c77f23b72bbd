package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PetrosyanDev/armen-cs-teammate/models"
)

func newFiredService(t *testing.T, store ProfileStore, names []string) (*FeedbackService, models.RatingPrompt) {
	t.Helper()

	fs, err := NewFeedbackService(store, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFeedbackService failed: %v", err)
	}
	t.Cleanup(fs.Stop)

	prompts := make(chan models.RatingPrompt, 1)
	fs.SetPromptSink(func(p models.RatingPrompt) { prompts <- p })

	if err := fs.Arm("requester", names); err != nil {
		t.Fatalf("Arm failed: %v", err)
	}

	select {
	case prompt := <-prompts:
		return fs, prompt
	case <-time.After(2 * time.Second):
		t.Fatal("Feedback prompt never fired")
		return nil, models.RatingPrompt{}
	}
}

func TestFeedbackFiresForTopCandidate(t *testing.T) {
	store := NewMemoryProfileStore()
	fs, prompt := newFiredService(t, store, []string{"Top", "Second", "Third"})

	if prompt.CandidateName != "Top" {
		t.Errorf("Prompt must name the top-ranked candidate, got %q", prompt.CandidateName)
	}
	if len(prompt.Choices) != 4 {
		t.Errorf("Prompt must offer the four rating kinds, got %v", prompt.Choices)
	}

	event, ok := fs.Pending("requester")
	if !ok || event.State != models.MatchEventFired {
		t.Errorf("Event should be waiting in fired state, got %+v", event)
	}
}

func TestFeedbackConsumeIncrementsExactlyOnce(t *testing.T) {
	store := NewMemoryProfileStore()
	ctx := context.Background()
	store.Put(ctx, models.Profile{ID: "c", DisplayName: "Top"})

	fs, _ := newFiredService(t, store, []string{"Top"})

	candidate, err := fs.Consume(ctx, "requester", models.RatingVeryFriendly)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if candidate != "Top" {
		t.Errorf("Consume rated %q, expected Top", candidate)
	}

	profile, _ := store.Get(ctx, "c")
	if got := profile.ReputationCount(models.RatingVeryFriendly); got != 1 {
		t.Errorf("Expected exactly one increment, got %d", got)
	}

	// The event is single-shot.
	if _, err := fs.Consume(ctx, "requester", models.RatingVeryFriendly); !errors.Is(err, ErrNoPendingFeedback) {
		t.Errorf("Second consume should find nothing, got %v", err)
	}
	if _, ok := fs.Pending("requester"); ok {
		t.Errorf("Consumed event should be discarded")
	}
}

// failOnceStore fails the first reputation write and behaves normally after.
type failOnceStore struct {
	*MemoryProfileStore
	failed bool
}

func (s *failOnceStore) IncrementReputation(ctx context.Context, displayName, kind string) error {
	if !s.failed {
		s.failed = true
		return ErrStoreUnavailable
	}
	return s.MemoryProfileStore.IncrementReputation(ctx, displayName, kind)
}

func TestFeedbackConsumeSurvivesStoreError(t *testing.T) {
	store := &failOnceStore{MemoryProfileStore: NewMemoryProfileStore()}
	ctx := context.Background()
	store.Put(ctx, models.Profile{ID: "c", DisplayName: "Top"})

	fs, _ := newFiredService(t, store, []string{"Top"})

	if _, err := fs.Consume(ctx, "requester", models.RatingGoodPlayer); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Expected the store error to surface, got %v", err)
	}

	// The failed rating must not discard the event.
	event, ok := fs.Pending("requester")
	if !ok || event.State != models.MatchEventFired {
		t.Fatalf("Event should be back in fired state after a store error, got %+v", event)
	}

	candidate, err := fs.Consume(ctx, "requester", models.RatingGoodPlayer)
	if err != nil {
		t.Fatalf("Retry after store recovery failed: %v", err)
	}
	if candidate != "Top" {
		t.Errorf("Retry rated %q, expected Top", candidate)
	}

	profile, _ := store.Get(ctx, "c")
	if got := profile.ReputationCount(models.RatingGoodPlayer); got != 1 {
		t.Errorf("Expected exactly one increment after the retry, got %d", got)
	}
	if _, ok := fs.Pending("requester"); ok {
		t.Errorf("Consumed event should be discarded")
	}
}

func TestFeedbackConsumeBeforeFire(t *testing.T) {
	store := NewMemoryProfileStore()
	fs, err := NewFeedbackService(store, time.Hour)
	if err != nil {
		t.Fatalf("NewFeedbackService failed: %v", err)
	}
	t.Cleanup(fs.Stop)

	if err := fs.Arm("requester", []string{"Top"}); err != nil {
		t.Fatalf("Arm failed: %v", err)
	}
	if _, err := fs.Consume(context.Background(), "requester", models.RatingGoodPlayer); !errors.Is(err, ErrNoPendingFeedback) {
		t.Errorf("An armed but unfired event must not accept ratings, got %v", err)
	}
}

func TestFeedbackInvalidRatingKind(t *testing.T) {
	store := NewMemoryProfileStore()
	fs, _ := newFiredService(t, store, []string{"Top"})

	if _, err := fs.Consume(context.Background(), "requester", "amazing"); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("Expected ErrInvalidRating, got %v", err)
	}
}

func TestFeedbackRearmReplacesPending(t *testing.T) {
	store := NewMemoryProfileStore()
	fs, err := NewFeedbackService(store, 40*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFeedbackService failed: %v", err)
	}
	t.Cleanup(fs.Stop)

	prompts := make(chan models.RatingPrompt, 2)
	fs.SetPromptSink(func(p models.RatingPrompt) { prompts <- p })

	if err := fs.Arm("requester", []string{"Stale"}); err != nil {
		t.Fatalf("First arm failed: %v", err)
	}
	if err := fs.Arm("requester", []string{"Fresh"}); err != nil {
		t.Fatalf("Second arm failed: %v", err)
	}

	select {
	case prompt := <-prompts:
		if prompt.CandidateName != "Fresh" {
			t.Errorf("Replaced event fired anyway: %q", prompt.CandidateName)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Replacement prompt never fired")
	}

	// Only the replacement may fire.
	select {
	case prompt := <-prompts:
		t.Errorf("Stale event fired after replacement: %q", prompt.CandidateName)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestFeedbackArmRequiresCandidates(t *testing.T) {
	store := NewMemoryProfileStore()
	fs, err := NewFeedbackService(store, time.Hour)
	if err != nil {
		t.Fatalf("NewFeedbackService failed: %v", err)
	}
	t.Cleanup(fs.Stop)

	if err := fs.Arm("requester", nil); !errors.Is(err, ErrEmptyMatch) {
		t.Errorf("Expected ErrEmptyMatch, got %v", err)
	}
}

func TestFeedbackEventsAreIndependent(t *testing.T) {
	store := NewMemoryProfileStore()
	fs, err := NewFeedbackService(store, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFeedbackService failed: %v", err)
	}
	t.Cleanup(fs.Stop)

	prompts := make(chan models.RatingPrompt, 2)
	fs.SetPromptSink(func(p models.RatingPrompt) { prompts <- p })

	fs.Arm("r1", []string{"CandidateOne"})
	fs.Arm("r2", []string{"CandidateTwo"})

	seen := make(map[string]string)
	for i := 0; i < 2; i++ {
		select {
		case prompt := <-prompts:
			seen[prompt.RequesterID] = prompt.CandidateName
		case <-time.After(2 * time.Second):
			t.Fatal("Not all prompts fired")
		}
	}
	if seen["r1"] != "CandidateOne" || seen["r2"] != "CandidateTwo" {
		t.Errorf("Prompts crossed requesters: %v", seen)
	}
}
