package docstore

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/lysyi3m/catalog-etl/app/catalog"
)

// Book is the stored document shape. Dates are native BSON dates and list
// fields are native arrays.
type Book struct {
	IngestionDate   time.Time  `bson:"ingestion_date"`
	Category        string     `bson:"category"`
	ASIN            string     `bson:"asin"`
	Title           string     `bson:"title"`
	Author          string     `bson:"author"`
	AuthorURL       string     `bson:"author_url,omitempty"`
	Series          string     `bson:"series,omitempty"`
	Price           *float64   `bson:"price,omitempty"`
	Rating          *float64   `bson:"rating,omitempty"`
	ReviewCount     *int64     `bson:"review_count,omitempty"`
	SalesRank       *int64     `bson:"sales_rank,omitempty"`
	ReleaseDate     *time.Time `bson:"release_date,omitempty"`
	Publisher       string     `bson:"publisher,omitempty"`
	Description     string     `bson:"description,omitempty"`
	CoverURL        string     `bson:"cover_url,omitempty"`
	ProductURL      string     `bson:"product_url,omitempty"`
	TopicTags       []string   `bson:"topic_tags,omitempty"`
	Subcategories   []string   `bson:"subcategories,omitempty"`
	Keyphrases      []string   `bson:"keyphrases,omitempty"`
	EstimatedPOV    string     `bson:"estimated_pov,omitempty"`
	KindleUnlimited *bool      `bson:"kindle_unlimited,omitempty"`
	Audiobook       *bool      `bson:"audiobook,omitempty"`
	MediaVerified   bool       `bson:"media_verified"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

func newBook(r catalog.Record, updatedAt time.Time) Book {
	return Book{
		IngestionDate:   r.IngestionDate,
		Category:        r.Category,
		ASIN:            r.ASIN,
		Title:           r.Title,
		Author:          r.Author,
		AuthorURL:       r.AuthorURL,
		Series:          r.Series,
		Price:           r.Price,
		Rating:          r.Rating,
		ReviewCount:     r.ReviewCount,
		SalesRank:       r.SalesRank,
		ReleaseDate:     r.ReleaseDate,
		Publisher:       r.Publisher,
		Description:     r.Description,
		CoverURL:        r.CoverURL,
		ProductURL:      r.ProductURL,
		TopicTags:       r.TopicTags,
		Subcategories:   r.Subcategories,
		Keyphrases:      r.Keyphrases,
		EstimatedPOV:    r.EstimatedPOV,
		KindleUnlimited: r.KindleUnlimited,
		Audiobook:       r.Audiobook,
		MediaVerified:   r.MediaVerified,
		UpdatedAt:       updatedAt,
	}
}

func keyFilter(r catalog.Record) bson.D {
	return bson.D{
		{Key: "ingestion_date", Value: r.IngestionDate},
		{Key: "category", Value: r.Category},
		{Key: "asin", Value: r.ASIN},
	}
}
