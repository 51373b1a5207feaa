/*
Package server implements msgpack IPC for word completion services.

Clients write a stream of msgpack maps to stdin and read one msgpack value
per request from stdout. The first value written by the server is a ready
marker:

	{"status": "ready"}

Every request carries an ID and an action. An empty action is a completion
request:

	{"id": "req_001", "p": "ap", "l": 24}

The server responds with suggestions in lexicographic order, ranked by
position, plus the time taken in microseconds:

	{"id": "req_001", "s": [{"w": "app", "r": 1}, {"w": "apple", "r": 2}], "c": 2, "t": 12}

History is grown and listed with:

	{"id": "h1", "action": "add", "text": "apple app apt"}
	{"id": "h2", "action": "elements"}

The remaining actions are "stats", "config" and "health". Invalid requests
answer with a CompletionError carrying a 400 code; internal failures use 500.
*/
package server

// Actions understood by the server.
const (
	ActionComplete = "complete"
	ActionAdd      = "add"
	ActionElements = "elements"
	ActionStats    = "stats"
	ActionConfig   = "config"
	ActionHealth   = "health"
)

// Request is the union of every request shape; fields that don't apply to
// the action are ignored.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`

	// complete
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`

	// add
	Text string `msgpack:"text,omitempty"`

	// config
	MaxLimit     *int  `msgpack:"max_limit,omitempty"`
	MinPrefix    *int  `msgpack:"min_prefix,omitempty"`
	MaxPrefix    *int  `msgpack:"max_prefix,omitempty"`
	EnableFilter *bool `msgpack:"enable_filter,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// HistoryResponse answers an add request
type HistoryResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Added  int    `msgpack:"added"`
	Total  int    `msgpack:"total"`
}

// ElementsResponse lists the whole history
type ElementsResponse struct {
	ID    string   `msgpack:"id"`
	Words []string `msgpack:"w"`
	Count int      `msgpack:"c"`
}

// StatsResponse carries backend statistics
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// StatusResponse is used for the ready marker and health checks
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
