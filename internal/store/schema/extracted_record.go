package schema

// ExtractedRecord represents the extracted_record table
// Holds the last processed identifier per polled source
type ExtractedRecord struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	SourceType string `gorm:"column:source_type;type:varchar(32);not null;uniqueIndex:uk_source,priority:1"`
	SourceName string `gorm:"column:source_name;type:varchar(255);not null;uniqueIndex:uk_source,priority:2"`
	// LastID is the checkpoint; document ids are stored in hex form
	LastID    string `gorm:"column:last_id;type:varchar(64);not null"`
	CreatedAt int64  `gorm:"column:created_at;not null"`
	UpdatedAt int64  `gorm:"column:updated_at;not null"`
}

func (ExtractedRecord) TableName() string {
	return "extracted_record"
}
