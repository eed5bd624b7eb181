package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-paper2pdf"
	"github.com/alnah/go-paper2pdf/internal/history"
	"github.com/alnah/go-paper2pdf/internal/observability"
)

// Response constants.
const (
	IndexMessage  = "IEEE Paper Generator API is running!"
	PDFFilename   = "ieee_conference_paper.pdf"
	TeXFilename   = "ieee_conference_paper.tex"
	contentPDF    = "application/pdf"
	contentTeX    = "application/x-tex"
	journalWrite  = 5 * time.Second
	errBodyTooBig = "request body too large"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": IndexMessage})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handleGeneratePDF converts a JSON submission. The response is the same for
// both renderers.
func (s *Server) handleGeneratePDF(c *gin.Context) {
	sub, ok := s.bindSubmission(c)
	if !ok {
		return
	}
	release, ok := s.acquire(c)
	if !ok {
		return
	}
	defer release()

	start := time.Now()
	res, err := s.conv.Convert(c.Request.Context(), sub)

	renderer, size := "", 0
	if res != nil {
		renderer, size = res.Renderer, len(res.PDF)
	}
	s.observe(c, sub, renderer, outcomeOf(err), size, time.Since(start))

	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", PDFFilename))
	c.Data(http.StatusOK, contentPDF, res.PDF)
}

// handleGenerateTeX returns the LaTeX source the engine would compile.
func (s *Server) handleGenerateTeX(c *gin.Context) {
	sub, ok := s.bindSubmission(c)
	if !ok {
		return
	}

	src, err := s.conv.Markup(c.Request.Context(), sub)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", TeXFilename))
	c.Data(http.StatusOK, contentTeX, src)
}

func (s *Server) handleListRenders(c *gin.Context) {
	limit := history.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > history.MaxListLimit {
			abortError(c, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", history.MaxListLimit))
			return
		}
		limit = n
	}

	entries, err := s.journal.List(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		abortError(c, http.StatusInternalServerError, "listing renders failed")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"renders": entries})
}

func (s *Server) handleRenderSummary(c *gin.Context) {
	st, err := s.journal.Summary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		abortError(c, http.StatusInternalServerError, "summarizing renders failed")
		return
	}
	c.JSON(http.StatusOK, st)
}

// bindSubmission decodes the body under the configured size limit. Unknown
// fields are ignored.
func (s *Server) bindSubmission(c *gin.Context) (paper2pdf.Submission, bool) {
	var sub paper2pdf.Submission

	body := c.Request.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, s.cfg.MaxBodyBytes)
	}

	if err := json.NewDecoder(body).Decode(&sub); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			abortError(c, http.StatusRequestEntityTooLarge, errBodyTooBig)
		case errors.Is(err, io.EOF):
			abortError(c, http.StatusBadRequest, "request body is empty")
		default:
			abortError(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		}
		_ = c.Error(err)
		return sub, false
	}
	return sub, true
}

// acquire waits for a conversion slot; it fails only when the client goes
// away first.
func (s *Server) acquire(c *gin.Context) (func(), bool) {
	if err := s.sem.Acquire(c.Request.Context(), 1); err != nil {
		_ = c.Error(err)
		abortError(c, http.StatusServiceUnavailable, "server busy")
		return nil, false
	}

	release := func() { s.sem.Release(1) }
	if s.metrics != nil {
		done := s.metrics.RenderStarted()
		return func() { done(); release() }, true
	}
	return release, true
}

// fail maps a conversion error to a status. Layout failures and unexpected
// errors are 500; only validation errors are the client's fault.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, paper2pdf.ErrInvalidSubmission):
		abortError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		abortError(c, http.StatusServiceUnavailable, "request canceled")
	default:
		abortError(c, http.StatusInternalServerError, err.Error())
	}
}

// observe feeds metrics and the journal. Journal writes outlive the request
// context so a disconnecting client is still recorded.
func (s *Server) observe(c *gin.Context, sub paper2pdf.Submission, renderer, outcome string, size int, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordRender(renderer, outcome, d)
	}
	if s.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), journalWrite)
	defer cancel()

	entry := history.Entry{
		RequestID: observability.RequestIDFrom(c),
		Time:      time.Now(),
		Title:     sub.Title,
		Authors:   len(sub.Authors),
		Renderer:  renderer,
		Outcome:   outcome,
		Bytes:     size,
		Duration:  d,
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("request_id", entry.RequestID).Msg("recording render failed")
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return history.OutcomeSuccess
	case errors.Is(err, paper2pdf.ErrInvalidSubmission):
		return history.OutcomeInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return history.OutcomeCanceled
	default:
		return history.OutcomeFailed
	}
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
