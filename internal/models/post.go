package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a published message with embedded likes and comments. The
// author's name and avatar are snapshotted at creation time and are not
// kept in sync with later profile edits; that staleness is deliberate so
// post reads never need a join.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	Text      string             `bson:"text" json:"text"`
	Likes     []Like             `bson:"likes" json:"likes"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Like records one user's like. The likes list behaves as a set: at most
// one entry per user.
type Like struct {
	UserID primitive.ObjectID `bson:"user" json:"user"`
}

// Comment is an embedded reply, front-inserted so the newest comment is
// always first. Author name and avatar are snapshots, same as on Post.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
