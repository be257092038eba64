package constants

// Routes served by the relay
const (
	LoginPath    = "/"
	CallbackPath = "/callback"
	AuthPath     = "/auth"
	UserPath     = "/user"
	HealthPath   = "/healthz"
)

// Query parameters read from incoming requests
const (
	CodeQueryParam  = "code"
	DebugQueryParam = "debug"
)

// Messages shown to the caller. Upstream failures are reported generically,
// the cause is only logged.
const (
	MsgNoCode         = "No code provided"
	MsgTokenError     = "Error getting access token"
	MsgProfileError   = "Error fetching user info"
	MsgNoAccessToken  = "No access token available, log in first"
	MsgMethodNotAllow = "Method not allowed"
)
