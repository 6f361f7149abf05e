// Package store persists the per-owner UserData aggregate. A Store maps an
// owner id to one JSON document under a versioned storage key; backends
// differ only in where that document lives.
package store

import (
	"context"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
)

// DefaultKeyPrefix namespaces persisted documents. Bump the version suffix
// when the document shape changes incompatibly.
const DefaultKeyPrefix = "moodreel_user_data_v1"

// Store loads and saves the UserData aggregate for an owner.
//
// Load returns (nil, nil) when nothing has been saved for owner. A non-nil
// error means the stored document exists but could not be read or decoded.
// Delete of a missing document is not an error.
type Store interface {
	Load(ctx context.Context, owner string) (*domain.UserData, error)
	Save(ctx context.Context, owner string, data *domain.UserData) error
	Delete(ctx context.Context, owner string) error
}

// Key builds the storage key for owner under prefix.
func Key(prefix, owner string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + owner
}

// Encode serializes the aggregate into its persisted document form.
func Encode(data *domain.UserData) ([]byte, error) {
	if data == nil {
		data = domain.DefaultUserData()
	}
	return json.Marshal(data)
}

// Decode parses a persisted document. The result is normalized so callers
// never see nil collections or an empty profile roster.
func Decode(b []byte) (*domain.UserData, error) {
	var d domain.UserData
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	d.Normalize()
	return &d, nil
}

// LoadOrDefault reads owner's aggregate and substitutes the default one when
// nothing was saved or the stored document is unreadable. Read failures are
// logged at warn level and never returned.
func LoadOrDefault(ctx context.Context, s Store, owner string, log zerolog.Logger) *domain.UserData {
	d, err := s.Load(ctx, owner)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("user data unreadable; using defaults")
		return domain.DefaultUserData()
	}
	if d == nil {
		return domain.DefaultUserData()
	}
	return d
}
