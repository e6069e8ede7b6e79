// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/data-visualization-lectures/address-to-latlon/geocode"
	"github.com/data-visualization-lectures/address-to-latlon/pipeline"
)

// RunState tracks where a session's processing run stands.
type RunState string

const (
	StateIdle    RunState = "idle"
	StateRunning RunState = "running"
	StateDone    RunState = "done"
	StateFailed  RunState = "failed"
)

// fileSession pairs a pipeline session with its run lifecycle. All fields are
// guarded by mu; the pipeline.Session itself is not concurrency-safe.
type fileSession struct {
	mu       sync.Mutex
	session  *pipeline.Session
	state    RunState
	cancel   context.CancelFunc
	progress int
	runErr   string
}

// Server exposes the pipeline over HTTP. Uploaded files live in memory as
// sessions keyed by a random id; nothing is ever written to disk.
type Server struct {
	geocoder geocode.Geocoder

	mu       sync.Mutex
	sessions map[string]*fileSession
}

// NewServer creates a server. geocoder may be nil when no API key could be
// resolved; uploads and column selection still work, but starting a run
// answers 412 until a geocoder is available.
func NewServer(geocoder geocode.Geocoder) *Server {
	return &Server{
		geocoder: geocoder,
		sessions: make(map[string]*fileSession),
	}
}

// Router builds the gin engine with every API route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.POST("/api/files", s.uploadFile)
	r.PUT("/api/files/:id/encoding", s.setEncoding)
	r.POST("/api/files/:id/columns/:name/toggle", s.toggleColumn)
	r.POST("/api/files/:id/process", s.startProcessing)
	r.GET("/api/files/:id/progress", s.getProgress)
	r.GET("/api/files/:id/summary", s.getSummary)
	r.GET("/api/files/:id/download", s.downloadResult)
	r.DELETE("/api/files/:id", s.deleteFile)

	return r
}

// Run serves the API on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func (s *Server) lookup(id string) (*fileSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs, ok := s.sessions[id]

	return fs, ok
}

type fileResponse struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	Encoding string   `json:"encoding"`
	Columns  []string `json:"columns"`
	Selected []string `json:"selected"`
	Records  int      `json:"records"`
}

func describe(id string, sess *pipeline.Session) fileResponse {
	return fileResponse{
		ID:       id,
		Filename: sess.Filename(),
		Encoding: sess.Encoding(),
		Columns:  sess.Columns(),
		Selected: sess.Selection(),
		Records:  sess.RecordCount(),
	}
}

func (s *Server) uploadFile(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})

		return
	}

	f, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	encoding := ctx.PostForm("encoding")
	if encoding == "" {
		encoding = pipeline.EncodingUTF8
	}

	sess, err := pipeline.NewSession(header.Filename, raw, encoding)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

		return
	}

	id, err := newSessionID()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	s.mu.Lock()
	s.sessions[id] = &fileSession{session: sess, state: StateIdle}
	s.mu.Unlock()

	log.Printf("session %s: uploaded %s (%d records, %s)",
		id, sess.Filename(), sess.RecordCount(), sess.Encoding())

	ctx.JSON(http.StatusCreated, describe(id, sess))
}

type encodingRequest struct {
	Encoding string `json:"encoding" binding:"required"`
}

func (s *Server) setEncoding(ctx *gin.Context) {
	fs, ok := s.lookup(ctx.Param("id"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown file id"})

		return
	}

	var req encodingRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.state == StateRunning {
		ctx.JSON(http.StatusConflict, gin.H{"error": "processing is in progress"})

		return
	}

	if err := fs.session.SetEncoding(req.Encoding); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

		return
	}

	fs.state = StateIdle
	fs.progress = 0
	fs.runErr = ""

	ctx.JSON(http.StatusOK, describe(ctx.Param("id"), fs.session))
}

func (s *Server) toggleColumn(ctx *gin.Context) {
	fs, ok := s.lookup(ctx.Param("id"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown file id"})

		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.state == StateRunning {
		ctx.JSON(http.StatusConflict, gin.H{"error": "processing is in progress"})

		return
	}

	if err := fs.session.Toggle(ctx.Param("name")); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"selected": fs.session.Selection()})
}

func (s *Server) startProcessing(ctx *gin.Context) {
	id := ctx.Param("id")

	fs, ok := s.lookup(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown file id"})

		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.state == StateRunning {
		ctx.JSON(http.StatusConflict, gin.H{"error": "processing is already in progress"})

		return
	}

	if s.geocoder == nil {
		ctx.JSON(http.StatusPreconditionFailed, gin.H{"error": "no geocoder available; configure an API key"})

		return
	}

	if len(fs.session.Selection()) == 0 {
		ctx.JSON(http.StatusPreconditionFailed, gin.H{"error": "no address columns selected"})

		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	fs.state = StateRunning
	fs.cancel = cancel
	fs.progress = 0
	fs.runErr = ""

	go func() {
		defer cancel()

		// Progress is mirrored into the guarded field; the session itself is
		// only touched by this goroutine until the state leaves running.
		err := fs.session.Process(runCtx, s.geocoder, func(percent int) {
			fs.mu.Lock()
			fs.progress = percent
			fs.mu.Unlock()
		})

		fs.mu.Lock()
		defer fs.mu.Unlock()

		fs.cancel = nil

		if err != nil {
			fs.state = StateFailed
			fs.runErr = err.Error()

			log.Printf("session %s: run failed: %v", id, err)

			return
		}

		fs.state = StateDone

		log.Printf("session %s: run finished (%d rows)", id, len(fs.session.Results()))
	}()

	ctx.JSON(http.StatusAccepted, gin.H{"state": StateRunning})
}

func (s *Server) getProgress(ctx *gin.Context) {
	fs, ok := s.lookup(ctx.Param("id"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown file id"})

		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	resp := gin.H{
		"progress": fs.progress,
		"state":    fs.state,
	}

	if fs.runErr != "" {
		resp["error"] = fs.runErr
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) getSummary(ctx *gin.Context) {
	fs, ok := s.lookup(ctx.Param("id"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown file id"})

		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.state == StateRunning || len(fs.session.Results()) == 0 {
		ctx.JSON(http.StatusPreconditionFailed, gin.H{"error": "no completed run"})

		return
	}

	summary, err := summarize(fs.session.Results())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// summarize aggregates one run through a throwaway in-memory repository.
func summarize(results []pipeline.RowResult) (*pipeline.Summary, error) {
	repo, err := pipeline.NewSQLResultRepository()
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	if err := repo.CreateSchema(); err != nil {
		return nil, err
	}

	if err := repo.SaveResults(results); err != nil {
		return nil, err
	}

	return repo.Summary()
}

func (s *Server) downloadResult(ctx *gin.Context) {
	fs, ok := s.lookup(ctx.Param("id"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown file id"})

		return
	}

	formatParam := ctx.DefaultQuery("format", string(pipeline.FormatSeparate))

	format, err := pipeline.ParseFormat(formatParam)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.state == StateRunning {
		ctx.JSON(http.StatusConflict, gin.H{"error": "processing is in progress"})

		return
	}

	text, err := fs.session.ExportCSV(format)
	if errors.Is(err, pipeline.ErrNothingToExport) {
		ctx.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})

		return
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	name := fs.session.OutputFilename()
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(text))
}

func (s *Server) deleteFile(ctx *gin.Context) {
	id := ctx.Param("id")

	s.mu.Lock()
	fs, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown file id"})

		return
	}

	fs.mu.Lock()
	if fs.cancel != nil {
		fs.cancel()
	}
	fs.mu.Unlock()

	ctx.Status(http.StatusNoContent)
}
