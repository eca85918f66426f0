package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/oronlab/oron-insight/internal/api/v1"
	httperr "github.com/oronlab/oron-insight/internal/core/errors"
	"github.com/oronlab/oron-insight/internal/core/storage"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgPersistFailed  = "Failed to persist listing"
)

// IngestHandler handles HTTP POST requests carrying a batch of raw listings.
// Batches are what the scraper produces: one page of advertisements at a time.
func (s *Service) IngestHandler(c *gin.Context) {
	batch, err := s.parseBatch(c)
	if err != nil {
		c.JSON(err.statusCode, httperr.ErrorResponse{
			ErrorType: err.errorType,
			Message:   err.message,
			Details:   err.details,
		})
		return
	}

	now := time.Now().UTC()
	ingested, skipped := 0, 0
	seen := make(map[string]struct{}, len(batch))

	for i := range batch {
		l := &batch[i]

		if err := l.Validate(); err != nil {
			slog.Warn("Dropping empty listing", "index", i, "error", err)
			skipped++
			continue
		}

		// The same advertisement often reappears across crawled pages;
		// the URL is its natural identity.
		if url := strings.TrimSpace(l.URL); url != "" {
			if _, dup := seen[url]; dup {
				slog.Debug("Duplicate URL within batch", "url", url)
				skipped++
				continue
			}
			seen[url] = struct{}{}
		}

		l.EnsureID()
		l.IngestedAt = now

		if err := s.store.SaveListing(c.Request.Context(), l); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				slog.Debug("Listing already stored", "listing_id", l.ID)
				skipped++
				continue
			}
			slog.Error("Failed to persist listing", "listing_id", l.ID, "error", err)
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpInternalError,
				Message:   msgPersistFailed,
			})
			return
		}
		ingested++
	}

	slog.Info("Ingested listing batch",
		"batch_size", len(batch),
		"ingested", ingested,
		"skipped", skipped)

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "accepted",
		"ingested": ingested,
		"skipped":  skipped,
	})
}

// ListHandler handles GET /v1/listings?cursor=N&limit=M, returning listings
// in strict ingest order for cursor pagination.
func (s *Service) ListHandler(c *gin.Context) {
	cursor, err := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	if err != nil || cursor < 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid cursor parameter",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(s.listPageSize)))
	if err != nil || limit <= 0 || limit > s.listPageSize {
		limit = s.listPageSize
	}

	listings, err := s.store.ListListingsAfterCursor(c.Request.Context(), cursor, limit)
	if err != nil {
		slog.Error("Failed to list listings", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list listings",
		})
		return
	}

	total, err := s.store.CountListings(c.Request.Context())
	if err != nil {
		slog.Error("Failed to count listings", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to count listings",
		})
		return
	}

	next := cursor
	if len(listings) > 0 {
		next = listings[len(listings)-1].IngestSeq
	}

	c.JSON(http.StatusOK, gin.H{
		"listings":    listings,
		"next_cursor": next,
		"total":       total,
	})
}

// ingestionError carries the structured HTTP error shape from a helper back
// to the handler, keeping body parsing decoupled from response writing.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// parseBatch reads the request body under the size limit and decodes it into
// a listing slice.
func (s *Service) parseBatch(c *gin.Context) ([]v1.Listing, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var batch []v1.Listing
	if err := json.Unmarshal(bodyBytes, &batch); err != nil {
		// Accept a single bare object as a one-element batch.
		var single v1.Listing
		if err2 := json.Unmarshal(bodyBytes, &single); err2 != nil {
			slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
			return nil, &ingestionError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidJsonError,
				message:    msgInvalidJSON,
			}
		}
		batch = []v1.Listing{single}
	}

	return batch, nil
}
