package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/stridehq/stride/internal/app/activity"
	"github.com/stridehq/stride/internal/app/freedom"
	"github.com/stridehq/stride/internal/app/planner"
	"github.com/stridehq/stride/internal/app/streak"
	"github.com/stridehq/stride/internal/daemon"
)

// userFlag lets any action command target a specific user; without it the
// device's anonymous local user is used.
var userFlag string

// localUserKey is the cache key holding this device's anonymous user id.
const localUserKey = "local_user_id"

// session is a one-shot wiring of the engine services for CLI commands,
// sharing the daemon's config and data directory.
type session struct {
	d      *daemon.Daemon
	userID string

	Streak   *streak.Service
	Freedom  *freedom.Service
	Activity *activity.Service
	Planner  *planner.Service
}

// openSession wires the services and resolves the target user id.
func openSession() (*session, error) {
	d, err := daemon.New()
	if err != nil {
		return nil, err
	}

	s := &session{
		d:        d,
		Streak:   d.Streak,
		Freedom:  d.Freedom,
		Activity: d.Activity,
		Planner:  d.Planner,
	}

	if userFlag != "" {
		s.userID = userFlag
		return s, nil
	}

	// Anonymous local user: generated once, persisted in the cache.
	id, ok, err := d.Cache.Read(localUserKey)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("read local user id: %w", err)
	}
	if !ok {
		id = uuid.NewString()
		if err := d.Cache.Write(localUserKey, id); err != nil {
			d.Close()
			return nil, fmt.Errorf("save local user id: %w", err)
		}
	}
	s.userID = id
	return s, nil
}

func (s *session) Close() {
	s.d.Close()
}
