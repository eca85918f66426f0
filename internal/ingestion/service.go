package ingestion

import (
	"github.com/gin-gonic/gin"
	"github.com/oronlab/oron-insight/internal/core/storage"
)

// Service accepts raw listing batches from the fetch collaborator and
// persists them. The scraper itself lives outside this system; this is the
// boundary where its output enters.
type Service struct {
	store            storage.ListingStore
	maxBodySizeBytes int
	listPageSize     int
}

func NewService(store storage.ListingStore, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		listPageSize:     500,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/listings", s.IngestHandler)
	r.GET("/v1/listings", s.ListHandler)
}
