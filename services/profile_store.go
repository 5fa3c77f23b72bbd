package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/PetrosyanDev/armen-cs-teammate/db"
	"github.com/PetrosyanDev/armen-cs-teammate/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrProfileNotFound is returned when no profile exists for an id
	ErrProfileNotFound = errors.New("profile not found")
	// ErrStoreUnavailable wraps storage read/write failures
	ErrStoreUnavailable = errors.New("profile store unavailable")
)

// ProfileStore is the single shared mutable resource of the system. All
// mutations (onboarding save, reputation increment) are serialized at
// whole-store granularity so a read-modify-write never loses a concurrent
// update.
type ProfileStore interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	Put(ctx context.Context, profile models.Profile) error
	// IncrementReputation bumps one rating counter on the profile whose
	// display name matches. The rater only knows the shown name, not the
	// internal id. If two profiles share a name, the first match in store
	// iteration order wins. An unknown name is a logged no-op.
	IncrementReputation(ctx context.Context, displayName, kind string) error
	// List returns a snapshot of all profiles for one ranking computation.
	List(ctx context.Context) ([]models.Profile, error)
}

// MongoProfileStore persists profiles in the "profiles" collection
type MongoProfileStore struct {
	mutex sync.Mutex
}

// NewMongoProfileStore returns a store backed by the connected database
func NewMongoProfileStore() *MongoProfileStore {
	return &MongoProfileStore{}
}

func (s *MongoProfileStore) collection() *mongo.Collection {
	return db.GetCollection("profiles")
}

// Get fetches one profile by user id
func (s *MongoProfileStore) Get(ctx context.Context, id string) (*models.Profile, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var profile models.Profile
	err := s.collection().FindOne(dbCtx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &profile, nil
}

// Put replaces any prior profile for the same id
func (s *MongoProfileStore) Put(ctx context.Context, profile models.Profile) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := s.collection().ReplaceOne(dbCtx, bson.M{"_id": profile.ID}, profile, opts)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// IncrementReputation bumps the counter for kind on the first profile whose
// display name matches
func (s *MongoProfileStore) IncrementReputation(ctx context.Context, displayName, kind string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Sort by _id so the winner on a display-name collision is stable.
	opts := options.FindOneAndUpdate().SetSort(bson.M{"_id": 1})
	update := bson.M{"$inc": bson.M{"reputation." + kind: 1}}
	err := s.collection().FindOneAndUpdate(dbCtx, bson.M{"displayName": displayName}, update, opts).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Printf("Reputation update skipped: no profile named %q", displayName)
			return nil
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// List returns every stored profile
func (s *MongoProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := s.collection().Find(dbCtx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer cursor.Close(dbCtx)

	var profiles []models.Profile
	if err := cursor.All(dbCtx, &profiles); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return profiles, nil
}

// MemoryProfileStore keeps profiles in a map. It backs tests and lets the
// process run without a database, the same way the matchmaking path degrades
// when Mongo is not initialized.
type MemoryProfileStore struct {
	mutex    sync.Mutex
	profiles map[string]models.Profile
}

// NewMemoryProfileStore returns an empty in-memory store
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]models.Profile)}
}

// Get fetches one profile by user id
func (s *MemoryProfileStore) Get(ctx context.Context, id string) (*models.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	profile, ok := s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	profile = detachReputation(profile)
	return &profile, nil
}

// Put replaces any prior profile for the same id
func (s *MemoryProfileStore) Put(ctx context.Context, profile models.Profile) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.profiles[profile.ID] = detachReputation(profile)
	return nil
}

// IncrementReputation bumps the counter for kind on the first profile whose
// display name matches, iterating ids in sorted order for a stable winner
func (s *MemoryProfileStore) IncrementReputation(ctx context.Context, displayName, kind string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, id := range s.sortedIDs() {
		profile := s.profiles[id]
		if profile.DisplayName != displayName {
			continue
		}
		if profile.Reputation == nil {
			profile.Reputation = make(map[string]int)
		}
		profile.Reputation[kind]++
		s.profiles[id] = profile
		return nil
	}
	log.Printf("Reputation update skipped: no profile named %q", displayName)
	return nil
}

// List returns every stored profile in id order
func (s *MemoryProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	profiles := make([]models.Profile, 0, len(s.profiles))
	for _, id := range s.sortedIDs() {
		profiles = append(profiles, detachReputation(s.profiles[id]))
	}
	return profiles, nil
}

func (s *MemoryProfileStore) sortedIDs() []string {
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// detachReputation clones the reputation map so profiles crossing the store
// boundary never share it with the live record. Without the clone a ranking
// snapshot would read the same map a rating submission mutates.
func detachReputation(profile models.Profile) models.Profile {
	if profile.Reputation == nil {
		return profile
	}
	counts := make(map[string]int, len(profile.Reputation))
	for kind, count := range profile.Reputation {
		counts[kind] = count
	}
	profile.Reputation = counts
	return profile
}
