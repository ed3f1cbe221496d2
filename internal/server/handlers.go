package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkime/avatarcast/internal/gateway"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// allowedExtensions lists the upload types the service accepts: text
// scripts and pre-recorded narration audio.
var allowedExtensions = map[string]bool{
	"txt":  true,
	"docx": true,
	"pdf":  true,
	"mp3":  true,
	"wav":  true,
}

// audioExtensions are uploads usable directly as narration.
var audioExtensions = map[string]bool{
	"mp3": true,
	"wav": true,
}

// handleHealth reports per-service status. All services are local in the
// development backend, so everything reports ok.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "avatarcast development backend running",
		"services": gin.H{
			"web_interface":         "ok",
			"tts_service":           "ok",
			"digital_human_service": "ok",
			"scene_service":         "ok",
		},
	})
}

// handleStartServices acknowledges a start request. The development backend
// has nothing to launch.
func (s *Server) handleStartServices(c *gin.Context) {
	s.logger.Info("Service start requested")
	c.JSON(http.StatusOK, gin.H{"message": "services started"})
}

func (s *Server) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": languages})
}

func (s *Server) handleVoices(c *gin.Context) {
	language := c.DefaultQuery("language", "zh-CN")
	gender := c.DefaultQuery("gender", "female")

	voices := lookupVoices(language, gender)
	if voices == nil {
		voices = []gateway.Voice{}
	}

	c.JSON(http.StatusOK, gin.H{"voices": voices})
}

func (s *Server) handleAvatars(c *gin.Context) {
	language := c.DefaultQuery("language", "zh-CN")
	gender := c.DefaultQuery("gender", "female")

	avatars := lookupAvatars(language, gender)
	if avatars == nil {
		avatars = []gateway.Avatar{}
	}

	c.JSON(http.StatusOK, gin.H{"avatars": avatars})
}

// handleUpload stores a multipart file under a fresh id. Plain-text scripts
// are read back as extracted text; richer extraction (docx, pdf) is owned by
// the real backend.
func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	if header.Size > s.config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	fileExt := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !allowedExtensions[fileExt] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	fileID := uuid.NewString()
	dst := s.uploadPath(fileID, fileExt)
	if err := c.SaveUploadedFile(header, dst); err != nil {
		s.logger.Error("Failed to save upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	text := ""
	if fileExt == "txt" {
		contents, err := os.ReadFile(dst)
		if err != nil {
			s.logger.Error("Failed to read uploaded text", "error", err)
		} else {
			text = string(contents)
		}
	}

	s.logger.Info("File uploaded", "file_id", fileID, "ext", fileExt, "bytes", header.Size)

	c.JSON(http.StatusOK, gin.H{
		"message":  "file uploaded",
		"file_id":  fileID,
		"file_ext": fileExt,
		"text":     text,
	})
}

// handleGenerate validates a generation request and fabricates a result.
// The placeholder output file stands in for the rendered video so the
// preview and download routes work.
func (s *Server) handleGenerate(c *gin.Context) {
	var req gateway.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing request data"})
		return
	}

	if req.Text == "" && !(req.FileID != "" && audioExtensions[req.FileExt]) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing text or audio file"})
		return
	}
	if req.VoiceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing voice selection"})
		return
	}
	if req.AvatarID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing avatar selection"})
		return
	}
	if req.VideoMode == "" {
		req.VideoMode = gateway.ModeSceneSwitching
	}

	// An audio upload must still be on disk to be narration input.
	if req.Text == "" {
		if _, err := os.Stat(s.uploadPath(req.FileID, req.FileExt)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file not found"})
			return
		}
	}

	finalVideoID := uuid.NewString()
	if err := os.WriteFile(s.outputPath(finalVideoID), []byte{}, 0o644); err != nil {
		s.logger.Error("Failed to create output file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create output"})
		return
	}

	s.logger.Info("Video generated",
		"final_video_id", finalVideoID,
		"voice_id", req.VoiceID,
		"avatar_id", req.AvatarID,
		"video_mode", req.VideoMode,
	)

	c.JSON(http.StatusOK, gin.H{
		"message":        "video generated",
		"final_video_id": finalVideoID,
		"preview_url":    "/api/video/" + finalVideoID,
		"download_url":   "/api/download/" + finalVideoID,
	})
}

func (s *Server) handleVideo(c *gin.Context) {
	videoID := c.Param("id")
	if strings.Contains(videoID, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	path := s.outputPath(videoID)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}

	c.Header("Content-Type", "video/mp4")
	c.File(path)
}

func (s *Server) handleDownload(c *gin.Context) {
	videoID := c.Param("id")
	if strings.Contains(videoID, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	path := s.outputPath(videoID)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}

	c.FileAttachment(path, "avatarcast_video_"+videoID+".mp4")
}
