package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Listing is the atomic unit of the system: one classified advertisement as the
// fetch collaborator extracted it. It separates the "Envelope" (system attributes
// stamped at ingestion) from the "Letter" (the raw scraped fields).
//
// Every raw field is an optional free-form string. The upstream pages are
// inconsistent enough that no stronger typing is possible at this boundary;
// parsing into numbers is the normalizer's job, and a field that fails to parse
// simply drops the listing from the affected grouping dimension.
type Listing struct {
	// --- System Attributes (The Envelope) ---

	// ID is a unique identifier for the listing. Clients may provide one;
	// ingestion assigns a UUID when it is absent.
	ID string `json:"id,omitempty"`

	// IngestedAt is when the service received the listing (server-side clock).
	// Set by the ingestion service, not the client.
	IngestedAt time.Time `json:"ingested_at,omitempty"`

	// IngestSeq is a monotonic sequence number assigned on ingestion.
	// It provides strict total ordering for pagination and deterministic
	// grouping. Set by the database (BIGSERIAL), not exposed in the public API.
	IngestSeq int64 `json:"-"`

	// --- Raw Scraped Fields (The Letter) ---

	Title       string `json:"title,omitempty"`
	Price       string `json:"price,omitempty"`        // e.g. "300 сая ₮", "1.5 тэрбум ₮", "590 680 ₮"
	Place       string `json:"place,omitempty"`        // free-form location, usually starts with a district name
	Area        string `json:"area,omitempty"`         // e.g. "54.3 м²"
	Year        string `json:"year,omitempty"`         // commissioning year, sometimes "2020.0" from upstream coercion
	Floor       string `json:"floor,omitempty"`        // which floor the unit is on
	TotalFloor  string `json:"total_floor,omitempty"`  // floors in the building
	Balcony     string `json:"balcony,omitempty"`      // balcony count
	WindowCount string `json:"window_count,omitempty"` // window count
	Details     string `json:"details,omitempty"`      // seller's free-text description
	URL         string `json:"url,omitempty"`
	Date        string `json:"date,omitempty"` // posting date as shown on the page
}

// Validate rejects listings that carry no content at all. Individual fields are
// all optional; a listing with at least one populated raw field is acceptable.
func (l *Listing) Validate() error {
	for _, f := range []string{
		l.Title, l.Price, l.Place, l.Area, l.Year, l.Floor,
		l.TotalFloor, l.Balcony, l.WindowCount, l.Details, l.URL, l.Date,
	} {
		if strings.TrimSpace(f) != "" {
			return nil
		}
	}
	return fmt.Errorf("listing has no populated fields")
}

// EnsureID assigns a fresh UUID when the client did not provide an identifier.
func (l *Listing) EnsureID() {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
}
