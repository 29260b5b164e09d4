// internal/app/store/profiles/store.go
package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/devhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionName is the MongoDB collection that holds profiles.
const CollectionName = "profiles"

var (
	// ErrNotFound is returned when no profile matches the lookup (or the
	// owner-scoped filter of a mutation).
	ErrNotFound = errors.New("profile not found")

	// ErrEntryNotFound is returned when the profile exists but the addressed
	// experience/education entry does not.
	ErrEntryNotFound = errors.New("profile entry not found")

	// ErrProfileExists is returned when the user already owns a profile.
	ErrProfileExists = errors.New("a profile already exists for this user")

	// ErrDuplicateHandle is returned when another profile already uses the handle.
	ErrDuplicateHandle = errors.New("a profile with this handle already exists")
)

// Store is the document-store contract the profile feature depends on.
//
// Every mutation is a single atomic document operation; none of them
// reads a profile and writes it back. Mutations that act on "my" profile are
// keyed by the owning user, and whole-profile update/delete are filtered on
// both _id and owner so ownership is re-checked at write time.
type Store interface {
	Create(ctx context.Context, p models.Profile) (models.Profile, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) (models.Profile, error)
	GetByHandle(ctx context.Context, handle string) (models.Profile, error)

	// List returns summaries ordered newest first (createdAt desc, _id desc).
	List(ctx context.Context, skip, limit int64) ([]models.ProfileSummary, error)

	Update(ctx context.Context, id, owner primitive.ObjectID, f models.ProfileFields) (models.Profile, error)
	Delete(ctx context.Context, id, owner primitive.ObjectID) error

	AppendExperience(ctx context.Context, owner primitive.ObjectID, e models.Experience) (models.Profile, error)
	ReplaceExperience(ctx context.Context, owner, entryID primitive.ObjectID, e models.Experience) (models.Profile, error)
	RemoveExperience(ctx context.Context, owner, entryID primitive.ObjectID) (models.Profile, error)

	AppendEducation(ctx context.Context, owner primitive.ObjectID, e models.Education) (models.Profile, error)
	ReplaceEducation(ctx context.Context, owner, entryID primitive.ObjectID, e models.Education) (models.Profile, error)
	RemoveEducation(ctx context.Context, owner, entryID primitive.ObjectID) (models.Profile, error)
}

// prepareNew fills the fields a store owns on insert.
func prepareNew(p models.Profile, now time.Time) models.Profile {
	p.ID = primitive.NewObjectID()
	// Mongo stores milliseconds; truncating keeps both backends comparable.
	p.CreatedAt = now.UTC().Truncate(time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	if p.Skills == nil {
		p.Skills = []string{}
	}
	// Nil slices would be stored as null, and $push refuses to append to null.
	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	if p.Education == nil {
		p.Education = []models.Education{}
	}
	for i := range p.Experience {
		if p.Experience[i].ID.IsZero() {
			p.Experience[i].ID = primitive.NewObjectID()
		}
	}
	for i := range p.Education {
		if p.Education[i].ID.IsZero() {
			p.Education[i].ID = primitive.NewObjectID()
		}
	}
	return p
}
