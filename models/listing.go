package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Candidate is a raw search-result entry before classification and scraping.
// The URL is the identity key; within one pipeline run no two candidates
// share a URL. The snippet serves as fallback content when the page itself
// cannot be fetched.
type Candidate struct {
	Title    string `json:"title"`
	URL      string `json:"link"`
	Snippet  string `json:"snippet"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Listing is an enriched, scrape-complete property record. ScrapedContent is
// either the fetched page text or the candidate's snippet, capped in length.
type Listing struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RunID          string             `bson:"run_id,omitempty" json:"run_id,omitempty"`
	Title          string             `bson:"title" json:"title"`
	URL            string             `bson:"url" json:"url"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	ScrapedContent string             `bson:"scraped_content" json:"scraped_content"`
	KeywordScore   float64            `bson:"keyword_score" json:"keyword_score"`
	CreatedAt      primitive.DateTime `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt      primitive.DateTime `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DiscoveryRun records one end-to-end pipeline invocation.
type DiscoveryRun struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Latitude     float64            `bson:"lat" json:"lat"`
	Longitude    float64            `bson:"lon" json:"lon"`
	LocationName string             `bson:"location_name" json:"location_name"`
	ListingCount int                `bson:"listing_count" json:"listing_count"`
	CreatedAt    primitive.DateTime `bson:"created_at" json:"created_at"`
}
