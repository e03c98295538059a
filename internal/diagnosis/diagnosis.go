package diagnosis

import (
	"context"

	"github.com/example/repair-dispatch/internal/models"
)

// Image is an optional photo of the problem attached to a diagnosis request.
type Image struct {
	Data     []byte
	MIMEType string
}

// Client produces a structured Diagnosis from a user's problem report. The
// matching and scheduling core treats this as an opaque collaborator; only
// the HTTP layer calls it.
type Client interface {
	Diagnose(ctx context.Context, category, description string, image *Image) (models.Diagnosis, error)
}
