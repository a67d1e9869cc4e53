package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"churchmap/internal/repository"
)

// NotificationService turns data-layer events into short messages for the
// user. In the CLI the writer is stderr; an embedding application can pass
// anything that shows a toast.
type NotificationService struct {
	out    io.Writer
	logger *slog.Logger
}

func NewNotificationService(out io.Writer, logger *slog.Logger) *NotificationService {
	return &NotificationService{out: out, logger: logger}
}

// Attach announces every mode transition of data until the returned
// function is called.
func (s *NotificationService) Attach(data *DataAccessService) (detach func()) {
	return data.Subscribe(s.NotifyModeChange)
}

// NotifyModeChange tells the user where results now come from.
func (s *NotificationService) NotifyModeChange(m Mode) {
	switch m {
	case ModeRemoteActive:
		s.notify("Connected to the church directory.")
	case ModeOfflineDataset:
		s.notify("Using the offline church list.")
	case ModeDegradedFallback:
		s.notify("The church directory is unreachable; showing the offline list.")
	}
}

// NotifyWriteFailed reports a change that was not saved.
func (s *NotificationService) NotifyWriteFailed(op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNetworkUnavailable):
		s.notify(fmt.Sprintf("Could not %s: the church directory is unreachable. Nothing was saved.", op))
	case errors.Is(err, repository.ErrNotFound):
		s.notify(fmt.Sprintf("Could not %s: the church no longer exists.", op))
	case errors.Is(err, repository.ErrMalformedInput):
		s.notify(fmt.Sprintf("Could not %s: %v", op, err))
	default:
		s.notify(fmt.Sprintf("Could not %s: %v", op, err))
	}
}

// NotifyPositionUnknown asks the user to retry once location is available.
func (s *NotificationService) NotifyPositionUnknown() {
	s.notify("Your location is not known yet. Allow location access or pass a position, then try again.")
}

func (s *NotificationService) notify(msg string) {
	s.logger.Debug("notification", "message", msg)
	fmt.Fprintln(s.out, msg)
}
