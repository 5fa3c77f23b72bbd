package services

import (
	"context"
	"errors"
	"sort"

	"github.com/PetrosyanDev/armen-cs-teammate/models"
)

// ErrNoCandidates signals an empty-result match, a normal outcome rather
// than a failure
var ErrNoCandidates = errors.New("no suitable teammates found")

// Scoring weights. Skill proximity and shared maps are the strongest
// signals; communication compatibility is secondary; reputation is an
// unbounded additive adjustment that may dominate for heavily-rated players.
const (
	defaultSkillWindow = 500
	defaultTopK        = 4

	skillProximityBonus = 2.0
	talkativeBonus      = 1.0
	languageBonus       = 1.0
	roleDiversityBonus  = 1.0
	dualIGLBonus        = 2.0
	sharedMapBonus      = 2.0

	veryFriendlyWeight = 0.5
	goodPlayerWeight   = 0.3
	didntChooseWeight  = -0.2
	noShowWeight       = -0.5
)

// ScoredProfile pairs a candidate with its compatibility score
type ScoredProfile struct {
	Profile models.Profile `json:"profile"`
	Score   float64        `json:"score"`
}

// MatchmakingService ranks teammate candidates for a requester. It holds no
// mutable state: every call works on a read snapshot of the profile store.
type MatchmakingService struct {
	store       ProfileStore
	topK        int
	skillWindow int
}

// NewMatchmakingService creates a ranking service over the given store
func NewMatchmakingService(store ProfileStore, topK, skillWindow int) *MatchmakingService {
	if topK <= 0 {
		topK = defaultTopK
	}
	if skillWindow <= 0 {
		skillWindow = defaultSkillWindow
	}
	return &MatchmakingService{store: store, topK: topK, skillWindow: skillWindow}
}

// Score computes the compatibility of candidate c for requester r
func (ms *MatchmakingService) Score(r, c *models.Profile) float64 {
	score := 0.0

	diff := r.PremierRating - c.PremierRating
	if diff < 0 {
		diff = -diff
	}
	if diff <= ms.skillWindow {
		score += skillProximityBonus
	}
	if r.Talkative == c.Talkative {
		score += talkativeBonus
	}
	if r.Language == c.Language {
		score += languageBonus
	}
	if r.PreferredRole != c.PreferredRole {
		score += roleDiversityBonus
	} else if r.PreferredRole == models.RoleIGL {
		score += dualIGLBonus
	}
	if sharesMap(r.FavoriteMaps, c.FavoriteMaps) {
		score += sharedMapBonus
	}

	score += float64(c.ReputationCount(models.RatingVeryFriendly)) * veryFriendlyWeight
	score += float64(c.ReputationCount(models.RatingGoodPlayer)) * goodPlayerWeight
	score += float64(c.ReputationCount(models.RatingDidntChoose)) * didntChooseWeight
	score += float64(c.ReputationCount(models.RatingNoShow)) * noShowWeight

	return score
}

// Rank scores every candidate and returns the top entries in descending
// order. Ties keep store iteration order (stable sort, no secondary key).
// The requester never appears in its own results.
func (ms *MatchmakingService) Rank(requester *models.Profile, candidates []models.Profile) []ScoredProfile {
	scored := make([]ScoredProfile, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == requester.ID {
			continue
		}
		scored = append(scored, ScoredProfile{
			Profile: candidate,
			Score:   ms.Score(requester, &candidate),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > ms.topK {
		scored = scored[:ms.topK]
	}
	return scored
}

// FindTeammates ranks all stored profiles for the requester id. It returns
// ErrProfileNotFound when the requester has no complete profile and
// ErrNoCandidates when nobody else is available.
func (ms *MatchmakingService) FindTeammates(ctx context.Context, requesterID string) ([]ScoredProfile, error) {
	requester, err := ms.store.Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	candidates, err := ms.store.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := ms.Rank(requester, candidates)
	if len(matches) == 0 {
		return nil, ErrNoCandidates
	}
	return matches, nil
}

func sharesMap(a, b []string) bool {
	for _, m := range a {
		for _, n := range b {
			if m == n {
				return true
			}
		}
	}
	return false
}
