package model

import (
	"time"

	"gorm.io/gorm"
)

// Asset stores metadata for uploaded catalog media. The bytes live in the
// configured storage backend under Path; the record only carries the
// reference the admin UI persists into parent records (colors, laminates,
// site settings, ...).
type Asset struct {
	ID          uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	FileID      string         `gorm:"column:file_id;uniqueIndex:idx_file" json:"file_id,omitempty"`
	Category    string         `gorm:"column:category;index:idx_asset_category" json:"category,omitempty"`
	FileName    string         `gorm:"column:file_name" json:"file_name,omitempty"`
	ContentType string         `gorm:"column:content_type" json:"content_type,omitempty"`
	FileSize    int64          `gorm:"column:file_size" json:"file_size,omitempty"`
	Checksum    string         `gorm:"column:checksum;index:idx_asset_checksum" json:"checksum,omitempty"`
	Width       int            `gorm:"column:width" json:"width,omitempty"`
	Height      int            `gorm:"column:height" json:"height,omitempty"`
	Path        string         `gorm:"column:path;type:text" json:"path,omitempty"`
	ThumbPath   string         `gorm:"column:thumb_path;type:text" json:"thumb_path,omitempty"`
	URL         string         `gorm:"column:url;type:text" json:"url,omitempty"`
}

// TableName overrides gorm to use the asset table.
func (Asset) TableName() string {
	return "asset"
}
