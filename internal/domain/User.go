package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"           json:"id"`
	Email        string             `bson:"email"                   json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Name         string             `bson:"name"                    json:"name"`
	Picture      string             `bson:"picture,omitempty"       json:"picture,omitempty"`
	Provider     string             `bson:"provider"                json:"provider"` // "local" | "google"
	GoogleID     string             `bson:"google_id,omitempty"     json:"-"`        // Google sub, sparse unique
	CreatedAt    time.Time          `bson:"created_at"              json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"              json:"updated_at"`
}

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// Public is the user shape returned to clients together with a token.
type PublicUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID.Hex(), Email: u.Email, Name: u.Name, Picture: u.Picture}
}
