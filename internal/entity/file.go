package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryFree = "free"
	CategoryPaid = "paid"

	RatingMin = 1
	RatingMax = 5
)

// File is one catalog entry, a single downloadable resource.
// JSON field names follow the legacy wire format and must not change.
type File struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ImgURL             string             `bson:"imgUrl" json:"imgUrl"`
	FileName           string             `bson:"fileName" json:"fileName"`
	Type               string             `bson:"type" json:"type"`
	ShortDescription   string             `bson:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	PageDescription    string             `bson:"pageDescription,omitempty" json:"pageDescription,omitempty"`
	CreatedDate        time.Time          `bson:"createdDate" json:"createdDate"`
	Category           string             `bson:"category" json:"category"`
	Price              float64            `bson:"price" json:"price"`
	Rating             float64            `bson:"rating" json:"rating"`
	RatingsCount       int64              `bson:"ratingsCount" json:"ratingsCount"`
	RawFileLink        string             `bson:"rawFileLink,omitempty" json:"rawFileLink,omitempty"`
	DirectDownloadLink string             `bson:"directDownloadLink,omitempty" json:"directDownloadLink,omitempty"`
}

// ValidCategory reports whether c is one of the allowed category values.
func ValidCategory(c string) bool {
	return c == CategoryFree || c == CategoryPaid
}
