package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/PetrosyanDev/armen-cs-teammate/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var (
	// ErrNoPendingFeedback is returned when a rating arrives without a fired
	// prompt waiting for it
	ErrNoPendingFeedback = errors.New("no feedback prompt awaiting a rating")
	// ErrInvalidRating is returned for a rating outside the fixed choice set
	ErrInvalidRating = errors.New("unknown rating kind")
	// ErrEmptyMatch is returned when arming with no ranked candidates
	ErrEmptyMatch = errors.New("cannot arm feedback for an empty match")
)

// PromptSink delivers a fired rating prompt to the transport
type PromptSink func(prompt models.RatingPrompt)

// FeedbackService owns the delayed rating prompts. Each completed match arms
// one event (Armed -> Fired -> Consumed) keyed by requester id; a new match
// for the same requester replaces the pending one. Events are in-memory only
// and do not survive a restart.
type FeedbackService struct {
	mutex     sync.Mutex
	events    map[string]*models.MatchEvent
	jobs      map[string]uuid.UUID
	store     ProfileStore
	scheduler gocron.Scheduler
	delay     time.Duration
	sink      PromptSink
}

// NewFeedbackService creates the scheduler and starts its job runner
func NewFeedbackService(store ProfileStore, delay time.Duration) (*FeedbackService, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	scheduler.Start()

	return &FeedbackService{
		events:    make(map[string]*models.MatchEvent),
		jobs:      make(map[string]uuid.UUID),
		store:     store,
		scheduler: scheduler,
		delay:     delay,
	}, nil
}

// SetPromptSink registers the transport callback that renders fired prompts
func (fs *FeedbackService) SetPromptSink(sink PromptSink) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	fs.sink = sink
}

// Arm schedules a one-shot rating prompt for the top-ranked candidate of a
// fresh match. A pending event for the same requester is replaced.
func (fs *FeedbackService) Arm(requesterID string, rankedNames []string) error {
	if len(rankedNames) == 0 {
		return ErrEmptyMatch
	}

	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	if jobID, exists := fs.jobs[requesterID]; exists {
		if err := fs.scheduler.RemoveJob(jobID); err != nil {
			log.Printf("Failed to remove pending feedback job for %s: %v", requesterID, err)
		}
		delete(fs.jobs, requesterID)
	}

	event := &models.MatchEvent{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		RankedNames: rankedNames,
		State:       models.MatchEventArmed,
		ArmedAt:     time.Now(),
	}
	fs.events[requesterID] = event

	eventID := event.ID
	job, err := fs.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(fs.delay))),
		gocron.NewTask(func() {
			fs.fire(requesterID, eventID)
		}),
	)
	if err != nil {
		delete(fs.events, requesterID)
		return fmt.Errorf("failed to schedule feedback prompt: %w", err)
	}
	fs.jobs[requesterID] = job.ID()
	return nil
}

// fire transitions an armed event to Fired and delivers the prompt. The
// event id check drops jobs whose event was replaced by a newer match.
func (fs *FeedbackService) fire(requesterID, eventID string) {
	fs.mutex.Lock()
	event, exists := fs.events[requesterID]
	if !exists || event.ID != eventID || event.State != models.MatchEventArmed {
		fs.mutex.Unlock()
		return
	}
	event.State = models.MatchEventFired
	event.FiredAt = time.Now()
	delete(fs.jobs, requesterID)

	prompt := models.RatingPrompt{
		RequesterID:   requesterID,
		CandidateName: event.TopCandidate(),
		Text: fmt.Sprintf("⏱ %d minutes ago we matched you with %s\nHow was the experience?",
			int(fs.delay.Minutes()), event.TopCandidate()),
		Choices: models.RatingKinds,
	}
	sink := fs.sink
	fs.mutex.Unlock()

	if sink == nil {
		log.Printf("No prompt sink registered, dropping feedback prompt for %s", requesterID)
		return
	}
	sink(prompt)
}

// Consume applies exactly one rating to the fired event's top candidate and
// discards the event. Returns the candidate name that was rated. Marking the
// event consumed before the store write keeps the increment single-shot under
// concurrent submissions; a store failure rolls the event back to fired so a
// retry can still land the rating.
func (fs *FeedbackService) Consume(ctx context.Context, requesterID, kind string) (string, error) {
	if !models.IsValidRatingKind(kind) {
		return "", ErrInvalidRating
	}

	fs.mutex.Lock()
	event, exists := fs.events[requesterID]
	if !exists || event.State != models.MatchEventFired {
		fs.mutex.Unlock()
		return "", ErrNoPendingFeedback
	}
	event.State = models.MatchEventConsumed
	candidate := event.TopCandidate()
	eventID := event.ID
	fs.mutex.Unlock()

	if err := fs.store.IncrementReputation(ctx, candidate, kind); err != nil {
		fs.mutex.Lock()
		if current, ok := fs.events[requesterID]; ok && current.ID == eventID {
			current.State = models.MatchEventFired
		}
		fs.mutex.Unlock()
		return "", err
	}

	fs.mutex.Lock()
	if current, ok := fs.events[requesterID]; ok && current.ID == eventID {
		delete(fs.events, requesterID)
	}
	fs.mutex.Unlock()
	return candidate, nil
}

// Pending returns a copy of the requester's current event, if any
func (fs *FeedbackService) Pending(requesterID string) (models.MatchEvent, bool) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	event, exists := fs.events[requesterID]
	if !exists {
		return models.MatchEvent{}, false
	}
	return *event, true
}

// Stop shuts the job runner down
func (fs *FeedbackService) Stop() {
	if err := fs.scheduler.Shutdown(); err != nil {
		log.Printf("Error shutting down feedback scheduler: %v", err)
	}
}
