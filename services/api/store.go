package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"sitewrap/pkg/bus"
	gos3 "sitewrap/pkg/s3"
)

// Store holds external dependencies required by the API layer. DB, ORM, and
// Bus are optional; handlers degrade gracefully when they are absent.
type Store struct {
	DB  *pgxpool.Pool
	ORM *gorm.DB
	S3  *gos3.Client
	Bus *bus.Bus
}
