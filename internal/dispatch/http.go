package dispatch

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/repair-dispatch/internal/models"
)

// HTTPDispatcher posts offers to an external notification endpoint, used as
// a fallback when a technician has no live websocket session.
type HTTPDispatcher struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPDispatcher(endpoint string) *HTTPDispatcher {
	return &HTTPDispatcher{Endpoint: endpoint, Client: &http.Client{Timeout: 3 * time.Second}}
}

func (d *HTTPDispatcher) Offer(offer models.AssignmentOffer) error {
	b, err := json.Marshal(offer)
	if err != nil {
		return err
	}
	resp, err := d.Client.Post(d.Endpoint, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// Chain tries each dispatcher in order until one delivers.
type Chain []Offerer

func (c Chain) Offer(offer models.AssignmentOffer) error {
	var last error
	for _, d := range c {
		last = d.Offer(offer)
		if last == nil {
			return nil
		}
	}
	return last
}
