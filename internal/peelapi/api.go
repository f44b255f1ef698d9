// Package peelapi exposes a traversal of a packet graph as an HTTP
// endpoint: a chi router guarded by bearer-JWT auth middleware, with a
// panic-recovery middleware wrapping the single handler. There are no
// user accounts or persistent store; every bearer token is checked
// against one static HS256 secret.
package peelapi

import (
	"encoding/json"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/gid"
	"github.com/mel2oo/go-peel/packet/session"
	"github.com/mel2oo/go-peel/slices"
)

// StartNodeHeader carries an explicit start node ID for /traverse, as a
// decimal string. When absent, the graph's single root is used.
const StartNodeHeader = "X-Peel-Start-Node"

// Server serves traversals of a fixed graph over HTTP.
type Server struct {
	Graph  *peel.Graph[session.Session]
	Secret []byte

	// ConfigOpts configures every Driver this server builds for
	// /traverse (MaxDepth, LogLevel). Nil means engine defaults.
	ConfigOpts []peel.ConfigOption
}

// New returns a Server that runs traversals against g, authenticating
// requests with HS256 JWTs signed with secret. opts configures every
// Driver the server builds to handle /traverse.
func New(g *peel.Graph[session.Session], secret []byte, opts ...peel.ConfigOption) *Server {
	return &Server{Graph: g, Secret: secret, ConfigOpts: opts}
}

// Router builds the chi router exposing this server's endpoints.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.With(s.authMiddleware).Post("/traverse", s.handleTraverse)
	return r
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				debug.PrintStack()
				http.Error(w, "an internal server error occurred", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		_, err := jwt.Parse(auth[len(prefix):], func(t *jwt.Token) (interface{}, error) {
			return s.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(time.Minute))
		if err != nil {
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleTraverse runs a single traversal of s.Graph over the raw request
// body and returns the resulting report.
func (s *Server) handleTraverse(w http.ResponseWriter, r *http.Request) {
	input, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return
	}

	var start []peel.NodeID
	if h := r.Header.Get(StartNodeHeader); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil {
			http.Error(w, StartNodeHeader+" must be a decimal node ID", http.StatusBadRequest)
			return
		}
		start = []peel.NodeID{peel.NodeID(n)}
	}

	state := session.New()
	report := peel.NewDriver(s.Graph, s.ConfigOpts...).Traverse(input, nil, state, start...)

	dto := toDTO(report, gid.GenerateTraversalID())

	if accept := r.Header.Get("Accept"); accept == "application/octet-stream" {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(rezi.EncBinary(dto))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, "could not marshal response", http.StatusInternalServerError)
	}
}

// reportDTO is the wire representation of a peel.TraversalReport. The
// ResultSequence's concrete ParserResult types are not preserved across the
// wire; only their Variant-less String() summaries are, since a caller on
// the other side of an HTTP boundary has no way to recover the original Go
// type anyway.
type reportDTO struct {
	TraversalID string   `json:"traversal_id"`
	Status      string   `json:"status"`
	Results     []string `json:"results"`
	LeftInput   int      `json:"left_input_bytes"`
	Needed      *int64   `json:"needed,omitempty"`
	AbortCause  string   `json:"abort_cause,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func toDTO(report peel.TraversalReport, id gid.TraversalID) reportDTO {
	dto := reportDTO{
		TraversalID: id.String(),
		Status:      report.Status.String(),
		LeftInput:   len(report.LeftInput),
	}

	dto.Results = slices.Map(report.Result, func(v peel.ParserResult) string {
		return v.String()
	})

	if n, ok := report.Needed.Get(); ok {
		dto.Needed = &n
	}

	if report.Status == peel.Aborted {
		dto.AbortCause = report.AbortCause.String()
		if report.Err != nil {
			dto.Error = errors.Cause(report.Err).Error()
		}
	}

	return dto
}
