package handlers

import (
	"net/http"
	"sync"

	"rentago/internal/config"
	"rentago/internal/http/middleware"
	"rentago/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "rentago backend berjalan"})
}

func (h *Handler) DBCheck(c *gin.Context) {
	if err := config.PingDB(c.Request.Context(), h.DB); err != nil {
		utils.LogError(middleware.GetRequestID(c), "system", "db_check", "ping gagal", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database tidak dapat dihubungi"})
		return
	}
	var count int
	if err := h.DB.QueryRowContext(c.Request.Context(), "SELECT COUNT(*) FROM vehicles").Scan(&count); err != nil {
		utils.LogError(middleware.GetRequestID(c), "system", "db_check", "query gagal", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal query ke database"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "koneksi database OK", "vehicles_in_db": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router belum siap"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
