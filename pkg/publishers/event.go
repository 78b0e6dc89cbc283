package publishers

import (
	"encoding/json"
	"time"

	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
)

// Event represents the payload published downstream for one exchange.
type Event struct {
	Source     string          `json:"source"`
	ExchangeID string          `json:"exchange_id"`
	Operation  string          `json:"operation"`
	Method     string          `json:"method"`
	URL        string          `json:"url"`
	StatusCode int             `json:"status_code"`
	Response   json.RawMessage `json:"response,omitempty"`
	Parsed     any             `json:"-"`
	ObservedAt time.Time       `json:"observed_at"`
}

// NewEvent constructs an Event for the given exchange.
func NewEvent(source string, ex domain.Exchange) Event {
	return Event{
		Source:     source,
		ExchangeID: ex.ID,
		Operation:  ex.Operation,
		Method:     ex.Method,
		URL:        ex.URL,
		StatusCode: ex.StatusCode,
		Response:   ex.Body,
		Parsed:     ex.Parsed,
		ObservedAt: time.Now().UTC(),
	}
}
