package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal/config"
	"codeberg.org/snonux/dictlookup/internal/provider"
)

const htmlContentType = "text/html; charset=utf-8"

func (s *Server) lookup(c *gin.Context) {
	svc := s.app.Services()
	page, err := svc.Processor.Lookup(c.Request.Context(), c.Query("text"))
	if err != nil {
		s.logger.Error("lookup failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error during lookup: %v", err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(page))
}

func (s *Server) refresh(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.String(http.StatusOK, "Please provide text to translate via the 'text' query parameter.")
		return
	}

	svc := s.app.Services()
	page, err := svc.Processor.Refresh(c.Request.Context(), text)
	if err != nil {
		s.logger.Error("refresh failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error during refresh: %v", err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(page))
}

type noteRequest struct {
	Word               string `json:"word"`
	Definition         string `json:"definition"`
	Context            string `json:"context"`
	ContextTranslation string `json:"contextTranslation"`
}

func (s *Server) addNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}
	if req.Word == "" || req.Definition == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing word or definition"})
		return
	}

	svc := s.app.Services()
	id, err := svc.Notes.AddNote(c.Request.Context(), req.Word, req.Definition, req.Context, req.ContextTranslation)
	if err != nil {
		s.logger.Error("add note failed", zap.String("word", req.Word), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add note to Anki: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "Note added successfully", "noteId": id})
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, viewOf(s.app.Services().Config))
}

func (s *Server) updateSettings(c *gin.Context) {
	var u SettingsUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	if _, err := s.app.UpdateSettings(c.Request.Context(), u); err != nil {
		status := http.StatusInternalServerError
		var cfgErr *config.Error
		var unsupported *provider.UnsupportedError
		if errors.Is(err, ErrNoSettings) || errors.As(err, &cfgErr) || errors.As(err, &unsupported) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("settings update rejected", zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

// audioFile serves a synthesized file by base name only.
func (s *Server) audioFile(c *gin.Context) {
	name := c.Param("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsRune(name, '\\') {
		c.Status(http.StatusNotFound)
		return
	}

	path := filepath.Join(s.app.Services().AudioDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(path)
}
