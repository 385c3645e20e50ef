package api

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type buildModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	BuildID     string            `gorm:"type:text;uniqueIndex;not null"`
	AppName     string            `gorm:"type:text;not null"`
	PackageName string            `gorm:"type:text;not null"`
	WebsiteURL  string            `gorm:"type:text;not null"`
	DownloadURL string            `gorm:"type:text;not null"`
	Features    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

func (buildModel) TableName() string { return "builds" }

// buildRecord is the read-side row shape returned by the list endpoint.
type buildRecord struct {
	BuildID     string    `db:"build_id" json:"buildId"`
	AppName     string    `db:"app_name" json:"appName"`
	PackageName string    `db:"package_name" json:"packageName"`
	WebsiteURL  string    `db:"website_url" json:"websiteUrl"`
	DownloadURL string    `db:"download_url" json:"downloadUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
