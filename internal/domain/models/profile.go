// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleMaxLen is the maximum length of Profile.Handle in characters.
const HandleMaxLen = 40

// Profile is the root aggregate of the profiles collection.
//
// NOTE:
//   - Exactly one profile per user (unique index on user).
//   - Handle is unique across the collection and is the public lookup key.
//   - Experience and Education are only ever changed one entry at a time
//     ($push, positional $set, $pull); they are never replaced wholesale.
type Profile struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	User primitive.ObjectID `bson:"user" json:"user"`

	Handle         string   `bson:"handle" json:"handle"`
	Company        string   `bson:"company,omitempty" json:"company,omitempty"`
	Website        string   `bson:"website,omitempty" json:"website,omitempty"`
	Location       string   `bson:"location,omitempty" json:"location,omitempty"`
	Status         string   `bson:"status" json:"status"`
	Skills         []string `bson:"skills" json:"skills"`
	Bio            string   `bson:"bio,omitempty" json:"bio,omitempty"`
	GitHubUsername string   `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Social         Social   `bson:"social" json:"social"`

	Experience []Experience `bson:"experience" json:"experience"`
	Education  []Education  `bson:"education" json:"education"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Social holds optional links to the owner's social accounts.
type Social struct {
	YouTube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// Experience is one work history entry. ID is unique within its profile only.
type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time          `bson:"from" json:"from"`
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Education is one schooling entry. ID is unique within its profile only.
type Education struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldOfStudy,omitempty" json:"fieldOfStudy,omitempty"`
	From         time.Time          `bson:"from" json:"from"`
	To           *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

// ProfileFields is the set of top-level fields a whole-profile update may
// replace. Identity, ownership, timestamps and the entry lists are excluded.
type ProfileFields struct {
	Handle         string
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         []string
	Bio            string
	GitHubUsername string
	Social         Social
}

// Apply copies f onto p.
func (f ProfileFields) Apply(p *Profile) {
	p.Handle = f.Handle
	p.Company = f.Company
	p.Website = f.Website
	p.Location = f.Location
	p.Status = f.Status
	p.Skills = append([]string(nil), f.Skills...)
	p.Bio = f.Bio
	p.GitHubUsername = f.GitHubUsername
	p.Social = f.Social
}

// ProfileView is a profile with its owner's public fields joined in.
// The User field shadows Profile.User in JSON output.
type ProfileView struct {
	Profile
	User UserPublic `json:"user"`
}

// ProfileSummary is the public projection used by list endpoints.
type ProfileSummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	User   UserPublic         `bson:"-" json:"user"`
	UserID primitive.ObjectID `bson:"user" json:"-"`
	Status string             `bson:"status" json:"status"`
	Skills []string           `bson:"skills" json:"skills"`
}
