package history

import (
	"log/slog"

	"github.com/evcraddock/price-estimator/internal/predict"
)

// Recorder persists settled submissions. Its Listen method is a
// predict.Listener.
type Recorder struct {
	repo   *Repository
	source string
}

// NewRecorder creates a recorder tagging records with source ("cli", "web").
func NewRecorder(repo *Repository, source string) *Recorder {
	return &Recorder{repo: repo, source: source}
}

// Listen stores ev if it is a settled outcome. Storage errors are logged
// and never reach the form.
func (r *Recorder) Listen(ev predict.Event) {
	rec, ok := FromEvent(ev, r.source)
	if !ok {
		return
	}
	if _, err := r.repo.Insert(rec); err != nil {
		slog.Error("recording prediction", "error", err, "outcome", rec.Outcome)
	}
}
