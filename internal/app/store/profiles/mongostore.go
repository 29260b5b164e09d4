// internal/app/store/profiles/mongostore.go
package profilestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/devhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names the duplicate-key mapping depends on. They are created by
// system/indexes at startup.
const (
	IndexUniqueUser   = "uniq_profiles_user"
	IndexUniqueHandle = "uniq_profiles_handle"
)

const (
	fieldExperience = "experience"
	fieldEducation  = "education"
)

// MongoStore is the MongoDB implementation of Store.
type MongoStore struct {
	c *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection(CollectionName)}
}

func (s *MongoStore) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	p = prepareNew(p, time.Now())
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Profile{}, mapWriteErr(err)
	}
	return p, nil
}

func (s *MongoStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetByUser(ctx context.Context, userID primitive.ObjectID) (models.Profile, error) {
	return s.findOne(ctx, bson.M{"user": userID})
}

func (s *MongoStore) GetByHandle(ctx context.Context, handle string) (models.Profile, error) {
	return s.findOne(ctx, bson.M{"handle": handle})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, err
	}
	return p, nil
}

// List returns a page of public summaries, newest first.
func (s *MongoStore) List(ctx context.Context, skip, limit int64) ([]models.ProfileSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"_id": 1, "user": 1, "status": 1, "skills": 1})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.ProfileSummary, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the top-level fields of the profile id owned by owner.
func (s *MongoStore) Update(ctx context.Context, id, owner primitive.ObjectID, f models.ProfileFields) (models.Profile, error) {
	skills := f.Skills
	if skills == nil {
		skills = []string{}
	}
	set := bson.M{
		"handle":         f.Handle,
		"company":        f.Company,
		"website":        f.Website,
		"location":       f.Location,
		"status":         f.Status,
		"skills":         skills,
		"bio":            f.Bio,
		"githubusername": f.GitHubUsername,
		"social":         f.Social,
		"updatedAt":      now(),
	}
	return s.findOneAndUpdate(ctx, bson.M{"_id": id, "user": owner}, bson.M{"$set": set})
}

// Delete removes the profile id owned by owner.
func (s *MongoStore) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) AppendExperience(ctx context.Context, owner primitive.ObjectID, e models.Experience) (models.Profile, error) {
	e.ID = primitive.NewObjectID()
	return s.appendEntry(ctx, owner, fieldExperience, e)
}

func (s *MongoStore) ReplaceExperience(ctx context.Context, owner, entryID primitive.ObjectID, e models.Experience) (models.Profile, error) {
	e.ID = entryID
	return s.replaceEntry(ctx, owner, fieldExperience, entryID, e)
}

func (s *MongoStore) RemoveExperience(ctx context.Context, owner, entryID primitive.ObjectID) (models.Profile, error) {
	return s.removeEntry(ctx, owner, fieldExperience, entryID)
}

func (s *MongoStore) AppendEducation(ctx context.Context, owner primitive.ObjectID, e models.Education) (models.Profile, error) {
	e.ID = primitive.NewObjectID()
	return s.appendEntry(ctx, owner, fieldEducation, e)
}

func (s *MongoStore) ReplaceEducation(ctx context.Context, owner, entryID primitive.ObjectID, e models.Education) (models.Profile, error) {
	e.ID = entryID
	return s.replaceEntry(ctx, owner, fieldEducation, entryID, e)
}

func (s *MongoStore) RemoveEducation(ctx context.Context, owner, entryID primitive.ObjectID) (models.Profile, error) {
	return s.removeEntry(ctx, owner, fieldEducation, entryID)
}

func (s *MongoStore) appendEntry(ctx context.Context, owner primitive.ObjectID, field string, entry interface{}) (models.Profile, error) {
	update := bson.M{
		"$push": bson.M{field: entry},
		"$set":  bson.M{"updatedAt": now()},
	}
	return s.findOneAndUpdate(ctx, bson.M{"user": owner}, update)
}

// replaceEntry swaps one list element in place via the positional operator.
// A miss is resolved into ErrNotFound (no profile) or ErrEntryNotFound.
func (s *MongoStore) replaceEntry(ctx context.Context, owner primitive.ObjectID, field string, entryID primitive.ObjectID, entry interface{}) (models.Profile, error) {
	filter := bson.M{"user": owner, field + "._id": entryID}
	update := bson.M{"$set": bson.M{
		field + ".$": entry,
		"updatedAt":  now(),
	}}
	p, err := s.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, ErrNotFound) {
		if _, gerr := s.GetByUser(ctx, owner); gerr != nil {
			return models.Profile{}, gerr
		}
		return models.Profile{}, ErrEntryNotFound
	}
	return p, err
}

// removeEntry pulls one list element by id. Removing an id that is not in
// the list leaves the document untouched and returns it as-is.
func (s *MongoStore) removeEntry(ctx context.Context, owner primitive.ObjectID, field string, entryID primitive.ObjectID) (models.Profile, error) {
	filter := bson.M{"user": owner, field + "._id": entryID}
	update := bson.M{
		"$pull": bson.M{field: bson.M{"_id": entryID}},
		"$set":  bson.M{"updatedAt": now()},
	}
	p, err := s.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, ErrNotFound) {
		return s.GetByUser(ctx, owner)
	}
	return p, err
}

func (s *MongoStore) findOneAndUpdate(ctx context.Context, filter, update bson.M) (models.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Profile
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, mapWriteErr(err)
	}
	return p, nil
}

// mapWriteErr turns a duplicate-key error into the sentinel for the unique
// index that rejected the write.
func mapWriteErr(err error) error {
	if !wafflemongo.IsDup(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, IndexUniqueHandle):
		return ErrDuplicateHandle
	case strings.Contains(msg, IndexUniqueUser):
		return ErrProfileExists
	}
	return err
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
