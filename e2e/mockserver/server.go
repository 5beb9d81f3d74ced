// Package mockserver provides a fake Shopware admin API for testing.
// It implements the client-credentials token endpoint and the info config
// endpoint the version gate talks to.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	TokenPath  = "/api/oauth/token"
	ConfigPath = "/api/_info/config"
)

// Request records one call received by the server.
type Request struct {
	Method        string
	Path          string
	// Authorization is the raw Authorization header.
	Authorization string
	// Body is the decoded JSON body of token requests.
	Body          map[string]string
}

// Failure forces an endpoint to answer with a fixed status and body.
type Failure struct {
	Status int
	Body   string
}

// ServerConfig holds configuration for the mock server.
type ServerConfig struct {
	// ClientID and ClientSecret are the accepted integration credentials
	ClientID        string
	ClientSecret    string
	// Version is reported by the info config endpoint
	Version         string
	// OmitAccessToken drops access_token from successful token responses
	OmitAccessToken bool
	// OmitVersion drops version from successful config responses
	OmitVersion     bool
}

// MockAdminServer is a fake Shopware admin API.
type MockAdminServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener

	config        ServerConfig
	tokens        map[string]bool
	requests      []Request
	tokenFailure  *Failure
	configFailure *Failure
}

// NewMockAdminServer creates a new mock admin server.
func NewMockAdminServer(config ServerConfig) *MockAdminServer {
	return &MockAdminServer{
		mu:            sync.RWMutex{},
		httpServer:    nil,
		listener:      nil,
		config:        config,
		tokens:        make(map[string]bool),
		requests:      make([]Request, 0),
		tokenFailure:  nil,
		configFailure: nil,
	}
}

// Start starts the server on address, e.g. ":0" for a random port.
func (s *MockAdminServer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc(TokenPath, s.handleToken).Methods("POST")
	router.HandleFunc(ConfigPath, s.handleConfig).Methods("GET")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	return nil
}

// Stop stops the mock server.
func (s *MockAdminServer) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// BaseURL returns the base URL for the server.
func (s *MockAdminServer) BaseURL() string {
	if s.listener == nil {
		return ""
	}

	return "http://" + s.listener.Addr().String()
}

// SetVersion changes the version reported by the config endpoint.
func (s *MockAdminServer) SetVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.Version = version
}

// FailToken makes the token endpoint answer with status and body.
func (s *MockAdminServer) FailToken(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenFailure = &Failure{Status: status, Body: body}
}

// FailConfig makes the config endpoint answer with status and body.
func (s *MockAdminServer) FailConfig(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configFailure = &Failure{Status: status, Body: body}
}

// Requests returns a copy of every request received so far.
func (s *MockAdminServer) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Request, len(s.requests))
	copy(result, s.requests)
	return result
}

// RequestCount returns the number of requests received so far.
func (s *MockAdminServer) RequestCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}

// handleToken handles POST /api/oauth/token
func (s *MockAdminServer) handleToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		body = nil
	}

	s.requests = append(s.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})

	if s.tokenFailure != nil {
		writeRaw(w, s.tokenFailure.Status, s.tokenFailure.Body)
		return
	}

	if body == nil || body["grant_type"] != "client_credentials" {
		writeRaw(w, http.StatusBadRequest, `{"errors":[{"code":"0","status":"400","title":"Bad Request","detail":"The authorization grant type is not supported by the authorization server."}]}`)
		return
	}

	if body["client_id"] != s.config.ClientID || body["client_secret"] != s.config.ClientSecret {
		writeRaw(w, http.StatusUnauthorized, `{"errors":[{"code":"0","status":"401","title":"Unauthorized","detail":"Client authentication failed"}]}`)
		return
	}

	token := uuid.NewString()
	s.tokens[token] = true

	response := map[string]any{
		"token_type": "Bearer",
		"expires_in": 600,
	}
	if !s.config.OmitAccessToken {
		response["access_token"] = token
	}

	writeJSON(w, http.StatusOK, response)
}

// handleConfig handles GET /api/_info/config
func (s *MockAdminServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	authorization := r.Header.Get("Authorization")
	s.requests = append(s.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: authorization,
		Body:          nil,
	})

	if s.configFailure != nil {
		writeRaw(w, s.configFailure.Status, s.configFailure.Body)
		return
	}

	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || !s.tokens[token] {
		writeRaw(w, http.StatusUnauthorized, `{"errors":[{"code":"0","status":"401","title":"Unauthorized","detail":"The resource owner or authorization server denied the request."}]}`)
		return
	}

	response := map[string]any{
		"shopId": "shop-" + s.config.ClientID,
	}
	if !s.config.OmitVersion {
		response["version"] = s.config.Version
		response["versionRevision"] = "0000000000000000000000000000000000000000"
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
