package db

import "time"

// Translation maps the translations table.
type Translation struct {
	TranslationID  string    `gorm:"column:translation_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OriginalText   string    `gorm:"column:original_text;type:text;not null"`
	TranslatedText *string   `gorm:"column:translated_text;type:text"`
	SourceLanguage string    `gorm:"column:source_language;type:varchar(2);not null"`
	TargetLanguage string    `gorm:"column:target_language;type:varchar(2);not null"`
	Status         string    `gorm:"column:status;type:text;not null;default:queued"`
	ErrorDetail    *string   `gorm:"column:error_detail;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Translation) TableName() string { return "translations" }

func autoMigrateModels() []any {
	return []any{
		&Translation{},
	}
}
