package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// reloadInterval is the number of requests between config reloads.
const reloadInterval = 100

// Server handles the msgpack IPC for word completions
type Server struct {
	completer    suggest.Autocompleter
	config       *config.Config
	configPath   string
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a new completion server using stdin/stdout for IPC
func NewServer(completer suggest.Autocompleter, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(completer, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w. An empty configPath disables reloading and saving.
func NewServerWithIO(completer suggest.Autocompleter, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bw := bufio.NewWriter(w)
	return &Server{
		completer:  completer,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(bufio.NewReader(r)),
		writer:     bw,
		encoder:    msgpack.NewEncoder(bw),
	}
}

// Start writes the ready marker and serves requests until the input ends.
// A clean EOF returns nil.
func (s *Server) Start() error {
	log.Debug("Starting msgpack server")

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Client disconnected (EOF)")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return fmt.Errorf("decoding request: %w", err)
		}

		if err := s.handleRequest(req); err != nil {
			log.Errorf("Writing response for %q: %v", req.ID, err)
			return err
		}
		s.maybeReloadConfig()
	}
}

// handleRequest dispatches a decoded request on its action
func (s *Server) handleRequest(req Request) error {
	s.requestCount++

	switch req.Action {
	case "", ActionComplete:
		return s.handleComplete(req)
	case ActionAdd:
		return s.handleAdd(req)
	case ActionElements:
		return s.handleElements(req)
	case ActionStats:
		return s.handleStats(req)
	case ActionConfig:
		return s.handleConfig(req)
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		log.Debugf("Unknown action %q in request %q", req.Action, req.ID)
		return s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

// handleComplete validates the prefix against the server limits, completes
// it and ranks the results by their sorted position.
func (s *Server) handleComplete(req Request) error {
	prefix := req.Prefix
	opts := s.config.Server

	if prefix == "" {
		log.Debug("Prefix is empty in request")
		return s.sendError(req.ID, "Missing 'p' parameter", 400)
	}

	n := utf8.RuneCountInString(prefix)
	if n < opts.MinPrefix {
		log.Debug("Prefix is too short in request", "prefix", prefix)
		return s.sendError(req.ID, fmt.Sprintf("Prefix must be at least %d characters", opts.MinPrefix), 400)
	}
	if n > opts.MaxPrefix {
		log.Debug("Prefix is too long in request", "prefix", prefix)
		return s.sendError(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", opts.MaxPrefix), 400)
	}

	limit := req.Limit
	if limit <= 0 || limit > opts.MaxLimit {
		limit = opts.MaxLimit
	}
	limit = max(0, min(limit, config.MaxLimitCeiling))

	start := time.Now()
	var words []string
	if opts.EnableFilter && !utils.IsValidInput(prefix) {
		log.Debugf("Prefix %q filtered out", prefix)
	} else {
		words = s.completer.AutoComplete(prefix)
	}
	if len(words) > limit {
		words = words[:limit]
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(words))
	suggestions := make([]CompletionSuggestion, len(words))
	for i, word := range words {
		suggestions[i] = CompletionSuggestion{Word: word, Rank: ranks[i]}
	}

	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)
	return s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleAdd feeds the request text into the history
func (s *Server) handleAdd(req Request) error {
	added := suggest.Feed(s.completer, req.Text)
	return s.send(HistoryResponse{
		ID:     req.ID,
		Status: "ok",
		Added:  added,
		Total:  s.historySize(),
	})
}

func (s *Server) handleElements(req Request) error {
	words := s.completer.Elements()
	return s.send(ElementsResponse{ID: req.ID, Words: words, Count: len(words)})
}

func (s *Server) handleStats(req Request) error {
	stats := map[string]int{"requests": s.requestCount}
	if withStats, ok := s.completer.(interface{ Stats() map[string]int }); ok {
		for k, v := range withStats.Stats() {
			stats[k] = v
		}
	} else {
		stats["totalWords"] = len(s.completer.Elements())
	}
	return s.send(StatsResponse{ID: req.ID, Stats: stats})
}

// handleConfig updates the server section and persists it when a config
// path is known.
func (s *Server) handleConfig(req Request) error {
	if err := s.config.Update(s.configPath, req.MaxLimit, req.MinPrefix, req.MaxPrefix, req.EnableFilter); err != nil {
		log.Warnf("Rejecting config update: %v", err)
		return s.send(ConfigResponse{ID: req.ID, Status: "error", Error: err.Error()})
	}
	log.Debug("Config updated", "server", s.config.Server)
	return s.send(ConfigResponse{ID: req.ID, Status: "ok"})
}

func (s *Server) historySize() int {
	if withStats, ok := s.completer.(interface{ Stats() map[string]int }); ok {
		if total, found := withStats.Stats()["totalWords"]; found {
			return total
		}
	}
	return len(s.completer.Elements())
}

// maybeReloadConfig picks up edits to the config file every reloadInterval requests
func (s *Server) maybeReloadConfig() {
	if s.configPath == "" || s.requestCount%reloadInterval != 0 {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		log.Warnf("Reloading config from %s: %v", s.configPath, err)
		return
	}
	s.config = cfg
	log.Debugf("Reloaded config from %s", s.configPath)
}

// send encodes one response and flushes it to the client
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Marshaling response: %v", err)
		return fmt.Errorf("encoding response: %w", err)
	}
	return s.writer.Flush()
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
