package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AboutID is the fixed key of the single About document.
const AboutID = "about"

// DefaultAboutTitle is used when the About section has never been written.
const DefaultAboutTitle = "About Me"

// About is the singleton "about me" section.
type About struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	Title     string    `bson:"title" json:"title"`
	Text      string    `bson:"text" json:"text"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitzero"`
}

// DefaultAbout is returned by content reads before anything was saved.
func DefaultAbout() *About {
	return &About{Title: DefaultAboutTitle}
}

// Project is a portfolio entry. Image holds the stored upload path, if any.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Tech        string             `bson:"tech" json:"tech"`
	Link        string             `bson:"link" json:"link"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProjectUpdate carries the fields present in an update request.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Tech        *string
	Link        *string
	Image       *string
}

type Experience struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Role        string             `bson:"role" json:"role"`
	Company     string             `bson:"company" json:"company"`
	Duration    string             `bson:"duration" json:"duration"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type ExperienceUpdate struct {
	Role        *string
	Company     *string
	Duration    *string
	Description *string
}

// Skill names are unique across the collection.
type Skill struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

// Submission is a contact-form message. Submissions are never updated.
type Submission struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Message string             `bson:"message" json:"message"`
	Date    time.Time          `bson:"date" json:"date"`
}

// Content is the aggregated public read of the whole site.
type Content struct {
	About      *About        `json:"about"`
	Projects   []*Project    `json:"projects"`
	Experience []*Experience `json:"experience"`
	Skills     []string      `json:"skills"`
}
