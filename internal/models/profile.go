package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the per-user profile document. Experience and education are
// embedded sub-documents owned exclusively by the profile; they have no
// identity outside it. At most one profile exists per user (unique index
// on the user field).
type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user" json:"user"`
	Company        string             `bson:"company,omitempty" json:"company,omitempty"`
	Website        string             `bson:"website,omitempty" json:"website,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Status         string             `bson:"status" json:"status"`
	GithubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Skills         []string           `bson:"skills" json:"skills"`
	Social         Social             `bson:"social" json:"social"`
	Experience     []Experience       `bson:"experience" json:"experience"`
	Education      []Education        `bson:"education" json:"education"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Owner is populated at read time from the users collection and is
	// never stored on the profile document.
	Owner *Owner `bson:"-" json:"owner,omitempty"`
}

// Social holds optional links to external platforms.
type Social struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// Experience is an embedded work-history entry. New entries are inserted
// at the front of the list: most-recent-first is the invariant, not
// insertion order.
type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        string             `bson:"from" json:"from"`
	To          string             `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Education is an embedded schooling entry, front-inserted like Experience.
type Education struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy" json:"fieldofstudy"`
	From         string             `bson:"from" json:"from"`
	To           string             `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

// ProfileUpdate is the sparse field set applied by an upsert. Pointer
// fields distinguish "not supplied" (nil, left untouched) from "supplied
// empty". Status and Skills are always written; the social block is
// replaced as a whole on every upsert.
type ProfileUpdate struct {
	Status         string
	Skills         []string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GithubUsername *string
	Social         Social
}
