package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tattlecode/tattle/internal/output"
	"github.com/tattlecode/tattle/internal/scanner"
	"github.com/tattlecode/tattle/pkg/config"
	"github.com/tattlecode/tattle/pkg/detector"
	"github.com/tattlecode/tattle/pkg/source"
)

// safeName matches upload names that cannot escape the corpus directory.
var safeName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Handler holds dependencies for handlers.
type Handler struct {
	cfg *config.Config
}

// NewHandler creates a new handler.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Upload accepts a multipart form with an "assignment" name and one or more
// "files" parts, and stores them under the corpus directory.
func (h *Handler) Upload(c *gin.Context) {
	if c.Request.ContentLength > h.cfg.Server.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Server.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	assignment := c.PostForm("assignment")
	if !validName(assignment) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment name"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	corpusDir, err := filepath.Abs(h.cfg.Server.CorpusDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "corpus directory unavailable"})
		return
	}
	destDir := filepath.Join(corpusDir, assignment)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create assignment directory"})
		return
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		if !validName(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name", "file": fh.Filename})
			return
		}
		if !h.allowedUploadExt(filepath.Ext(name)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file type not allowed", "file": name})
			return
		}
		if fh.Size > h.cfg.Server.PerFileMaxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large", "file": name})
			return
		}

		dest := filepath.Join(destDir, name)
		// Joined path must stay inside the corpus tree.
		if !strings.HasPrefix(dest, corpusDir+string(filepath.Separator)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path", "file": name})
			return
		}

		if err := saveUpload(fh, dest, h.cfg.Server.PerFileMaxBytes); err != nil {
			if errors.Is(err, errFileTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large", "file": name})
				return
			}
			log.Error().Err(err).Str("file", name).Msg("saving upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "saving file failed", "file": name})
			return
		}
		saved = append(saved, name)
	}

	log.Info().Str("assignment", assignment).Int("files", len(saved)).Msg("assignment uploaded")
	c.JSON(http.StatusOK, gin.H{"assignment": assignment, "saved": saved})
}

// Check runs detection over the corpus directory and returns the parsed
// report along with the raw text output.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(),
		time.Duration(h.cfg.Server.CheckTimeoutSeconds)*time.Second)
	defer cancel()

	assignments, err := scanner.New(h.cfg).ScanCorpus(h.cfg.Server.CorpusDir)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpus not readable"})
		return
	}
	if len(assignments) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "need at least two assignments to compare"})
		return
	}

	analyzer := detector.New(
		detector.WithShingleSize(h.cfg.Detect.ShingleSize),
		detector.WithWindow(h.cfg.Detect.Window),
		detector.WithFileThreshold(h.cfg.Detect.FileThreshold),
		detector.WithAssignmentThreshold(h.cfg.Detect.AssignmentThreshold),
		detector.WithTopMatches(h.cfg.Detect.TopMatches),
		detector.WithWorkers(h.cfg.Detect.Workers),
	)

	report, err := analyzer.Analyze(ctx, assignments,
		source.NewFilesystemAt(h.cfg.Server.CorpusDir), nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "check timed out"})
			return
		}
		log.Error().Err(err).Msg("check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check failed"})
		return
	}

	var buf bytes.Buffer
	view := &output.ReportView{Report: report, ShowDetails: true}
	if err := view.RenderText(&buf, false); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rendering failed"})
		return
	}
	raw := buf.String()

	parsed, err := output.ParseText(strings.NewReader(raw))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "parsing output failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suspiciousPairs": parsed.SuspiciousPairs,
		"details":         parsed.Details,
		"raw_output":      raw,
	})
}

// Cleanup deletes uploaded assignments. With an "assignment" form field only
// that assignment is removed; otherwise the whole corpus is emptied.
func (h *Handler) Cleanup(c *gin.Context) {
	if name := c.PostForm("assignment"); name != "" {
		if !validName(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment name"})
			return
		}
		if err := os.RemoveAll(filepath.Join(h.cfg.Server.CorpusDir, name)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		log.Info().Str("assignment", name).Msg("assignment removed")
		c.JSON(http.StatusOK, gin.H{"status": "cleaned", "assignment": name})
		return
	}

	if err := os.RemoveAll(h.cfg.Server.CorpusDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}
	if err := os.MkdirAll(h.cfg.Server.CorpusDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}
	log.Info().Msg("corpus cleaned")
	c.JSON(http.StatusOK, gin.H{"status": "cleaned"})
}

func (h *Handler) allowedUploadExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range h.cfg.Server.UploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && safeName.MatchString(name)
}

var errFileTooLarge = errors.New("file exceeds per-file limit")

// saveUpload streams an upload part to dest, enforcing the per-file cap even
// when the declared size lies. An oversized part is removed, never kept
// truncated.
func saveUpload(fh *multipart.FileHeader, dest string, maxBytes int64) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(src, maxBytes+1))
	if err != nil {
		os.Remove(dest)
		return err
	}
	if n > maxBytes {
		os.Remove(dest)
		return errFileTooLarge
	}
	return nil
}
