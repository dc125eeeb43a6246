package server

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"malawi-news/pkg/domain"
	"malawi-news/pkg/snapshot"
)

const (
	defaultArchiveLimit = 20
	maxArchiveLimit     = 200
)

// ArchiveReader reads archived articles of one source, newest first
type ArchiveReader interface {
	GetArticlesBySource(ctx context.Context, source string, limit int64) ([]domain.Article, error)
}

// Server exposes the latest snapshot over HTTP and serves the static site around it
type Server struct {
	snapshotPath string
	publicDir    string
	archive      ArchiveReader
}

// NewServer creates a server. archive may be nil, in which case the archive route is not registered.
func NewServer(snapshotPath, publicDir string, archive ArchiveReader) *Server {
	return &Server{
		snapshotPath: snapshotPath,
		publicDir:    publicDir,
		archive:      archive,
	}
}

// RegisterRoutes attaches the API and the static file fallback to r
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.GET("/news", s.listNews)
		if s.archive != nil {
			api.GET("/archive/:source", s.listArchive)
		}
	}

	if s.publicDir != "" {
		files := http.FileServer(http.Dir(s.publicDir))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.Status(http.StatusNotFound)
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}
}

// Handler returns a gin engine with all routes registered
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s.RegisterRoutes(r)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listNews returns the snapshot, optionally narrowed to one source and to the first limit entries
func (s *Server) listNews(c *gin.Context) {
	entries, err := snapshot.Read(s.snapshotPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code":    "no_snapshot",
				"message": "no snapshot has been written yet",
			})
			return
		}
		log.Printf("Server: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	if source := c.Query("source"); source != "" {
		filtered := make([]domain.SnapshotEntry, 0, len(entries))
		for _, e := range entries {
			if strings.EqualFold(e.Source, source) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit >= 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    entries,
	})
}

func (s *Server) listArchive(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultArchiveLimit)))
	if err != nil || limit <= 0 {
		limit = defaultArchiveLimit
	}
	if limit > maxArchiveLimit {
		limit = maxArchiveLimit
	}

	articles, err := s.archive.GetArticlesBySource(c.Request.Context(), c.Param("source"), int64(limit))
	if err != nil {
		log.Printf("Server: archive query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	if articles == nil {
		articles = []domain.Article{}
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    articles,
	})
}
