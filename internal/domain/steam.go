package domain

// ClientState is the lifecycle state of the Steam client connection.
type ClientState string

// Client lifecycle states. Unavailable is entered after init retries are
// exhausted; a later EnsureReady call starts over from Initializing.
const (
	ClientUninitialized ClientState = "uninitialized"
	ClientInitializing  ClientState = "initializing"
	ClientReady         ClientState = "ready"
	ClientUnavailable   ClientState = "unavailable"
)

// SteamUser identifies the signed-in platform account.
type SteamUser struct {
	// ID is the 64-bit account ID as a decimal string.
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SteamStatus is the connection status surfaced to the UI shell.
type SteamStatus struct {
	State ClientState `json:"state"`
	AppID uint32      `json:"app_id"`
	// User is set only when the client is ready.
	User *SteamUser `json:"user,omitempty"`
	// Message carries a human-readable reason when not ready.
	Message string `json:"message,omitempty"`
}
