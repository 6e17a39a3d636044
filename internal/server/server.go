package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/keypoint-tools-mcp/internal/imaging"
)

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	handles *handlePool
	cfg     Config
}

// Config holds the extraction defaults applied when a tool call leaves a
// setting out.
type Config struct {
	// Threads is the descriptor thread count; -1 uses every CPU.
	Threads int

	// MaxPoints caps the keypoints kept per frame; 0 means no cap.
	MaxPoints int

	// MaxHandles bounds how many detector handles stay cached. Handles are
	// per frame size, so a client alternating sizes would otherwise grow
	// the cache without limit. 0 means unbounded.
	MaxHandles int
}

// DefaultConfig returns the settings used by New.
func DefaultConfig() Config {
	return Config{
		Threads:    -1,
		MaxPoints:  0,
		MaxHandles: 8,
	}
}

// ConfigFromEnv reads KEYPOINT_MCP_THREADS, KEYPOINT_MCP_MAX_POINTS and
// KEYPOINT_MCP_MAX_HANDLES through getenv, starting from DefaultConfig.
// Unset variables keep their defaults.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	vars := []struct {
		name string
		dst  *int
	}{
		{"KEYPOINT_MCP_THREADS", &cfg.Threads},
		{"KEYPOINT_MCP_MAX_POINTS", &cfg.MaxPoints},
		{"KEYPOINT_MCP_MAX_HANDLES", &cfg.MaxHandles},
	}
	for _, v := range vars {
		raw := getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = n
	}
	return cfg, nil
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a new MCP server instance with DefaultConfig.
func New() *Server {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a server using cfg for extraction defaults.
func NewWithConfig(cfg Config) *Server {
	return &Server{
		cache:   imaging.NewImageCache(),
		handles: newHandlePool(cfg.MaxHandles),
		cfg:     cfg,
	}
}

// Close releases every cached detector handle.
func (s *Server) Close() {
	s.handles.close()
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to
// w until r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Raw frames are read from disk, so requests stay small; 1MB is plenty.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "keypoint-tools-mcp",
				"version": "0.1.0",
			},
		},
	}
}
