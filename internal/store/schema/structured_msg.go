package schema

import "gorm.io/datatypes"

// StructuredMsg represents the structured_msg table
// Enriched output of one record from a polled source
type StructuredMsg struct {
	ID              int64          `gorm:"column:id;primaryKey;autoIncrement"`
	SourceType      string         `gorm:"column:source_type;type:varchar(32);not null;uniqueIndex:uk_source_msg,priority:1"`
	SourceDB        string         `gorm:"column:source_db;type:varchar(128);not null;uniqueIndex:uk_source_msg,priority:2"`
	SourceName      string         `gorm:"column:source_name;type:varchar(255);not null;uniqueIndex:uk_source_msg,priority:3"`
	SourceID        string         `gorm:"column:source_id;type:varchar(64);not null;uniqueIndex:uk_source_msg,priority:4"`
	Project         datatypes.JSON `gorm:"column:project;type:json"`
	Token           datatypes.JSON `gorm:"column:token;type:json"`
	Content         string         `gorm:"column:content;type:text"`
	Attitude        string         `gorm:"column:attitude;type:varchar(32)"`
	Date            string         `gorm:"column:date;type:varchar(64)"`
	TokenHolder     string         `gorm:"column:token_holder;type:text"`
	Address         string         `gorm:"column:address;type:text"`
	RelatedProjects datatypes.JSON `gorm:"column:related_projects;type:json"`
	OriginalEN      *string        `gorm:"column:original_en;type:text"`
	OriginalZH      *string        `gorm:"column:original_zh;type:text"`
	Actions         datatypes.JSON `gorm:"column:actions;type:json"`
	NewsEvents      datatypes.JSON `gorm:"column:news_events;type:json"`
	PredictActions  datatypes.JSON `gorm:"column:predict_actions;type:json"`
	IsCMC           *bool          `gorm:"column:is_cmc"`
	CreatedAt       int64          `gorm:"column:created_at;not null"`
}

func (StructuredMsg) TableName() string {
	return "structured_msg"
}
