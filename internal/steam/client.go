package steam

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/errors"
)

// StatusListener receives every status transition. Listeners must not
// block; they run on the initializing goroutine.
type StatusListener func(status domain.SteamStatus)

// Client tracks the lifecycle of the connection to the local Steam
// process. Initialization is lazy and shared: the first caller that needs
// a ready client performs the attach, concurrent callers wait on the same
// attempt instead of stacking up native init calls.
type Client struct {
	api    API
	cfg    config.SteamConfig
	logger *slog.Logger

	mu        sync.Mutex
	state     domain.ClientState
	user      *domain.SteamUser
	message   string
	inFlight  chan struct{}
	listeners []StatusListener
}

// NewClient creates a Client over the given SDK binding. No native calls
// happen until EnsureReady.
func NewClient(api API, cfg config.SteamConfig, logger *slog.Logger) *Client {
	return &Client{
		api:    api,
		cfg:    cfg,
		logger: logger,
		state:  domain.ClientUninitialized,
	}
}

// OnStatusChange registers a listener for state transitions.
func (c *Client) OnStatusChange(fn StatusListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Status returns a snapshot of the connection state.
func (c *Client) Status() domain.SteamStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Client) statusLocked() domain.SteamStatus {
	return domain.SteamStatus{
		State:   c.state,
		AppID:   c.cfg.AppID,
		User:    c.user,
		Message: c.message,
	}
}

// User returns the signed-in account, or nil when not ready.
func (c *Client) User() *domain.SteamUser {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// API exposes the underlying SDK binding for callers that have already
// gone through EnsureReady.
func (c *Client) API() API {
	return c.api
}

// EnsureReady brings the client to the ready state, initializing on first
// use. A previous unavailable verdict is not sticky: the next call starts
// a fresh attempt. Returns a NOT_CONNECTED error when Steam cannot be
// reached or no user is signed in.
func (c *Client) EnsureReady(ctx context.Context) error {
	for {
		c.mu.Lock()
		switch c.state {
		case domain.ClientReady:
			api := c.api
			c.mu.Unlock()
			// Liveness probe. A session Steam dropped after the attach
			// shows up as a missing global user; re-attach instead of
			// handing out a ready client that cannot serve.
			if _, err := api.CurrentUser(); isNoUserError(err) {
				c.Invalidate("signed-in user no longer present")
				continue
			}
			return nil

		case domain.ClientInitializing:
			// Someone else is attaching; share their outcome.
			done := c.inFlight
			c.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			// Loop to read the settled state.

		default:
			done := make(chan struct{})
			c.inFlight = done
			c.setStateLocked(domain.ClientInitializing, nil, "connecting to Steam")
			c.mu.Unlock()

			err := c.initialize(ctx)

			c.mu.Lock()
			if err != nil {
				c.setStateLocked(domain.ClientUnavailable, nil, err.Error())
			}
			c.inFlight = nil
			c.mu.Unlock()
			close(done)
			return err
		}

		c.mu.Lock()
		if c.state == domain.ClientReady {
			c.mu.Unlock()
			return nil
		}
		if c.state == domain.ClientUnavailable {
			message := c.message
			c.mu.Unlock()
			return errors.NotConnected(message)
		}
		c.mu.Unlock()
	}
}

// initialize performs the attach with bounded retries and a fixed delay.
func (c *Client) initialize(ctx context.Context) error {
	if err := c.writeAppIDMarker(); err != nil {
		c.logger.Warn("failed to write app ID marker file", "error", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.InitRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.cfg.InitRetryDelay):
			case <-ctx.Done():
				return errors.NotConnected("initialization canceled").WithCause(ctx.Err())
			}
		}

		err := c.api.Init(c.cfg.AppID)
		if err != nil {
			lastErr = err
			c.logger.Warn("steam init attempt failed",
				"attempt", attempt,
				"retries", c.cfg.InitRetries,
				"error", err,
			)
			continue
		}

		user, err := c.api.CurrentUser()
		if err != nil {
			c.api.Shutdown()
			if isNoUserError(err) {
				// Steam is running but nobody is signed in. Retrying
				// will not help until the user acts.
				return errors.NotConnected("Steam is running but no user is signed in").WithCause(err)
			}
			lastErr = err
			c.logger.Warn("steam user lookup failed", "attempt", attempt, "error", err)
			continue
		}

		c.mu.Lock()
		c.setStateLocked(domain.ClientReady, user, "")
		c.mu.Unlock()

		c.logger.Info("connected to Steam",
			"app_id", c.cfg.AppID,
			"user", user.Name,
		)
		return nil
	}

	return errors.NotConnectedf("Steam client unavailable after %d attempts", c.cfg.InitRetries).WithCause(lastErr)
}

// Invalidate drops a ready connection after evidence it has gone stale,
// typically an authorization failure on a remote call. The next
// EnsureReady performs a full re-attach.
func (c *Client) Invalidate(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.ClientReady {
		return
	}
	c.logger.Warn("invalidating steam connection", "reason", reason)
	c.api.Shutdown()
	c.setStateLocked(domain.ClientUninitialized, nil, reason)
}

// Shutdown detaches from the Steam client.
func (c *Client) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.ClientReady || c.state == domain.ClientInitializing {
		c.api.Shutdown()
	}
	c.setStateLocked(domain.ClientUninitialized, nil, "")
}

// setStateLocked mutates state and fans the new status out to listeners.
// Callers must hold c.mu.
func (c *Client) setStateLocked(state domain.ClientState, user *domain.SteamUser, message string) {
	c.state = state
	c.user = user
	c.message = message

	status := c.statusLocked()
	for _, fn := range c.listeners {
		fn(status)
	}
}

// writeAppIDMarker drops the marker file the SDK reads to learn which app
// it is attaching for. Rewritten on every init so a config change takes
// effect without manual cleanup.
func (c *Client) writeAppIDMarker() error {
	path := c.cfg.AppIDFile
	if path == "" {
		path = "steam_appid.txt"
	}
	content := fmt.Sprintf("%d\n", c.cfg.AppID)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// isNoUserError recognizes the SDK's signed-out failure mode. The SDK
// reports it as a missing global user rather than a dedicated code, so
// substring matching is the only handle we have.
func isNoUserError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "global user")
}
