package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PetrosyanDev/armen-cs-teammate/models"
)

// Onboarding steps, one profile attribute collected per step
const (
	StepPremierRating = iota
	StepWingmanRating
	StepFavoriteMaps
	StepTalkative
	StepRole
	StepMicrophone
	StepHours
	StepTeamType
	StepLanguage
	StepAggressiveness
)

// MapsDone is the sentinel input that closes the favorite-maps step
const MapsDone = "done"

var (
	// ErrInvalidInput marks a validation failure; the session stays on the
	// same step and the caller re-prompts
	ErrInvalidInput = errors.New("invalid input")
	// ErrSessionNotFound is returned for input without an active session
	ErrSessionNotFound = errors.New("no active onboarding session")
)

var yesNoChoices = []string{"yes", "no"}

// Prompt is what the transport renders next: question text plus the choice
// set to show as buttons. Done marks the terminal step.
type Prompt struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices,omitempty"`
	Done    bool     `json:"done,omitempty"`
}

// session holds one user's in-progress draft. It is never persisted; the
// profile only reaches the store at the terminal step.
type session struct {
	mu          sync.Mutex
	userID      string
	displayName string
	step        int
	draft       models.Profile
	maps        map[string]bool
	startedAt   time.Time
}

// OnboardingService drives the ordered question sequence that produces a
// complete profile. Sessions for different users are independent; steps
// within one session are strictly sequential.
type OnboardingService struct {
	mutex    sync.Mutex
	sessions map[string]*session
	store    ProfileStore
}

// NewOnboardingService creates the onboarding flow over the given store
func NewOnboardingService(store ProfileStore) *OnboardingService {
	return &OnboardingService{
		sessions: make(map[string]*session),
		store:    store,
	}
}

// Start begins (or restarts) onboarding for a user and returns the first
// prompt. Any prior in-progress draft for the same user is discarded.
func (ob *OnboardingService) Start(userID, displayName string) Prompt {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	ob.sessions[userID] = &session{
		userID:      userID,
		displayName: displayName,
		step:        StepPremierRating,
		maps:        make(map[string]bool),
		startedAt:   time.Now(),
	}
	return Prompt{Text: "Welcome! Let's build your CS2 profile.\nWhat is your Premier rating?"}
}

// Cancel discards the user's draft without touching the store
func (ob *OnboardingService) Cancel(userID string) error {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	if _, exists := ob.sessions[userID]; !exists {
		return ErrSessionNotFound
	}
	delete(ob.sessions, userID)
	return nil
}

// Active reports whether the user has an onboarding session in progress
func (ob *OnboardingService) Active(userID string) bool {
	ob.mutex.Lock()
	defer ob.mutex.Unlock()

	_, exists := ob.sessions[userID]
	return exists
}

// Input feeds one answer into the user's session. On a validation failure
// the returned prompt repeats the current step and the error wraps
// ErrInvalidInput; the draft is unchanged. The service mutex only guards the
// session map; each session locks itself, so one user's terminal save never
// blocks another user's step.
func (ob *OnboardingService) Input(ctx context.Context, userID, text string) (Prompt, error) {
	ob.mutex.Lock()
	sess, exists := ob.sessions[userID]
	ob.mutex.Unlock()
	if !exists {
		return Prompt{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	text = strings.TrimSpace(text)
	prompt, err := ob.handleStep(sess, text)
	if err != nil {
		// Self-loop: same step, same prompt, draft untouched.
		return ob.promptFor(sess.step), err
	}

	if prompt.Done {
		if saveErr := ob.save(ctx, sess); saveErr != nil {
			return ob.promptFor(sess.step), saveErr
		}
		ob.mutex.Lock()
		delete(ob.sessions, userID)
		ob.mutex.Unlock()
	}
	return prompt, nil
}

// handleStep validates the answer for the current step and advances
func (ob *OnboardingService) handleStep(sess *session, text string) (Prompt, error) {
	switch sess.step {
	case StepPremierRating:
		rating, err := parseNonNegativeInt(text)
		if err != nil {
			return Prompt{}, err
		}
		sess.draft.PremierRating = rating

	case StepWingmanRating:
		rating, err := parseNonNegativeInt(text)
		if err != nil {
			return Prompt{}, err
		}
		sess.draft.WingmanRating = rating

	case StepFavoriteMaps:
		return ob.handleMaps(sess, text)

	case StepTalkative:
		value, err := parseYesNo(text)
		if err != nil {
			return Prompt{}, err
		}
		sess.draft.Talkative = value

	case StepRole:
		if !models.IsValidRole(text) {
			return Prompt{}, fmt.Errorf("%w: pick one of the listed roles", ErrInvalidInput)
		}
		sess.draft.PreferredRole = text

	case StepMicrophone:
		value, err := parseYesNo(text)
		if err != nil {
			return Prompt{}, err
		}
		sess.draft.Microphone = value

	case StepHours:
		// Free-form, not parsed or validated.
		sess.draft.AvailableHours = text

	case StepTeamType:
		if !models.IsValidTeamType(text) {
			return Prompt{}, fmt.Errorf("%w: pick Premier or Wingman", ErrInvalidInput)
		}
		sess.draft.TeamType = text

	case StepLanguage:
		if !models.IsValidLanguage(text) {
			return Prompt{}, fmt.Errorf("%w: pick one of the listed languages", ErrInvalidInput)
		}
		sess.draft.Language = text

	case StepAggressiveness:
		level, err := parseNonNegativeInt(text)
		if err != nil {
			return Prompt{}, err
		}
		if level < 1 || level > 5 {
			return Prompt{}, fmt.Errorf("%w: aggressiveness must be between 1 and 5", ErrInvalidInput)
		}
		sess.draft.Aggressiveness = level
		return Prompt{Text: "✅ Profile saved successfully!", Done: true}, nil
	}

	sess.step++
	return ob.promptFor(sess.step), nil
}

// handleMaps accumulates favorite maps. One map per input until "done", or a
// single comma-delimited batch; an empty set cannot be closed.
func (ob *OnboardingService) handleMaps(sess *session, text string) (Prompt, error) {
	if strings.EqualFold(text, MapsDone) {
		if len(sess.maps) == 0 {
			return Prompt{}, fmt.Errorf("%w: pick at least one map before finishing", ErrInvalidInput)
		}
		sess.draft.FavoriteMaps = sess.mapList()
		sess.step++
		return ob.promptFor(sess.step), nil
	}

	names := []string{text}
	batch := strings.Contains(text, ",")
	if batch {
		names = strings.Split(text, ",")
	}
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
		if !models.IsValidMap(names[i]) {
			return Prompt{}, fmt.Errorf("%w: %q is not in the map pool", ErrInvalidInput, names[i])
		}
	}
	for _, name := range names {
		sess.maps[name] = true
	}

	if batch {
		sess.draft.FavoriteMaps = sess.mapList()
		sess.step++
		return ob.promptFor(sess.step), nil
	}
	return Prompt{
		Text:    fmt.Sprintf("Added %s. Pick another map or send %q to finish.", text, MapsDone),
		Choices: append(append([]string{}, models.Maps...), MapsDone),
	}, nil
}

// save merges identity fields into the draft and fully replaces any prior
// profile. The reputation ledger survives re-onboarding.
func (ob *OnboardingService) save(ctx context.Context, sess *session) error {
	profile := sess.draft
	profile.ID = sess.userID
	profile.DisplayName = sess.displayName
	profile.LastUpdated = time.Now()

	if prior, err := ob.store.Get(ctx, sess.userID); err == nil && prior.Reputation != nil {
		profile.Reputation = prior.Reputation
	}
	return ob.store.Put(ctx, profile)
}

// promptFor returns the question and choices shown for a step
func (ob *OnboardingService) promptFor(step int) Prompt {
	switch step {
	case StepPremierRating:
		return Prompt{Text: "What is your Premier rating?"}
	case StepWingmanRating:
		return Prompt{Text: "What is your Wingman rating?"}
	case StepFavoriteMaps:
		return Prompt{
			Text:    fmt.Sprintf("Choose your favorite maps (one per message, send %q when finished, or one comma-separated list):", MapsDone),
			Choices: append(append([]string{}, models.Maps...), MapsDone),
		}
	case StepTalkative:
		return Prompt{Text: "Are you talkative in voice chat?", Choices: yesNoChoices}
	case StepRole:
		return Prompt{Text: "What is your preferred role?", Choices: models.Roles}
	case StepMicrophone:
		return Prompt{Text: "Do you have a microphone?", Choices: yesNoChoices}
	case StepHours:
		return Prompt{Text: "What hours are you available to play? (e.g., 18:00-22:00)"}
	case StepTeamType:
		return Prompt{Text: "Do you want to play Premier or Wingman?", Choices: models.TeamTypes}
	case StepLanguage:
		return Prompt{Text: "Preferred communication language:", Choices: models.Languages}
	case StepAggressiveness:
		return Prompt{Text: "How aggressive is your playstyle? (1-5)", Choices: []string{"1", "2", "3", "4", "5"}}
	}
	return Prompt{}
}

func (sess *session) mapList() []string {
	list := make([]string, 0, len(sess.maps))
	for _, name := range models.Maps {
		if sess.maps[name] {
			list = append(list, name)
		}
	}
	return list
}

func parseNonNegativeInt(text string) (int, error) {
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: expected a whole number", ErrInvalidInput)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: expected a non-negative number", ErrInvalidInput)
	}
	return value, nil
}

func parseYesNo(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("%w: answer yes or no", ErrInvalidInput)
}
