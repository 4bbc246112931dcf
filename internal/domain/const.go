package domain

import "time"

const (
	// Aggregation limits
	RECENT_COMMITS_LIMIT   = 5
	SNAPSHOTS_LIMIT        = 5
	TWEETS_PER_USER_LIMIT  = 5
	RECENT_TWEETS_WINDOW   = 5 * 24 * time.Hour
	TWITTER_PLATFORM_LABEL = "X"
	TWITTER_HOST_MARKER    = "x.com/"
	TWITTER_PROFILE_PREFIX = "https://x.com/"

	// Governance snapshots live in a fixed document database
	SNAPSHOT_DATABASE   = "snapshot"
	SNAPSHOT_COLLECTION = "proposal"
	SNAPSHOT_STATE      = "closed"
	SNAPSHOT_SCORES     = "final"

	// Default relational ingestion source
	DEFAULT_KOL_TWEETS_TABLE = "kol_tweets"
)
