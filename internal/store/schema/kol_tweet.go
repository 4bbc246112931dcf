package schema

import "gorm.io/datatypes"

// KOLTweet represents the kol_tweets table, the default relational ingestion source
type KOLTweet struct {
	ID              int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UID             string `gorm:"column:uid;type:varchar(128)"`
	TwitterID       string `gorm:"column:twitter_id;type:varchar(64);not null"`
	TwitterUsername string `gorm:"column:twitter_username;type:varchar(128);not null"`
	Text            string `gorm:"column:text;type:text"`
	PermanentURL    string `gorm:"column:permanent_url;type:varchar(512)"`
	// TweetDate is unix seconds
	TweetDate int64 `gorm:"column:tweet_date;not null;index"`
}

func (KOLTweet) TableName() string {
	return "kol_tweets"
}

// StructuredKOLTweet represents the structured_kol_tweets table
// Enriched KOL tweet keyed by the tweet id
type StructuredKOLTweet struct {
	ID       int64          `gorm:"column:id;primaryKey;autoIncrement"`
	SourceID string         `gorm:"column:source_id;type:varchar(64);not null;uniqueIndex"`
	Content  string         `gorm:"column:content;type:text"`
	Project  datatypes.JSON `gorm:"column:project;type:json"`
	Token    datatypes.JSON `gorm:"column:token;type:json"`
	// Tags holds a list of ProjectTags
	Tags      datatypes.JSON `gorm:"column:tags;type:json"`
	CreatedAt int64          `gorm:"column:created_at;not null;index"`
}

func (StructuredKOLTweet) TableName() string {
	return "structured_kol_tweets"
}

// KOLTweetSummary represents the kol_tweets_summary table
// One row per summarized hour
type KOLTweetSummary struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Events    datatypes.JSON `gorm:"column:events;type:json"`
	Projects  datatypes.JSON `gorm:"column:projects;type:json"`
	SourceIDs datatypes.JSON `gorm:"column:source_ids;type:json"`
	CreatedAt int64          `gorm:"column:created_at;not null"`
}

func (KOLTweetSummary) TableName() string {
	return "kol_tweets_summary"
}
