package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"labattend/internal/attendance"
	"labattend/internal/model"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisHealth reports optional redis connectivity.
type RedisHealth interface {
	Healthy(ctx context.Context) bool
}

type Handler struct {
	svc   *attendance.Service
	db    Pinger
	redis RedisHealth // nil when redis is not configured
}

func New(svc *attendance.Service, db Pinger, redis RedisHealth) *Handler {
	return &Handler{svc: svc, db: db, redis: redis}
}

// Register mounts every /api route on api.
func (h *Handler) Register(api *gin.RouterGroup) {
	for _, k := range model.Kinds {
		group := api.Group("/" + k.Table)
		group.GET("", h.listSessions(k))
		group.POST("", h.createSession(k))
		group.PUT("/:id", h.updateSession(k))
		group.DELETE("/:id", h.deleteSession(k))
	}

	api.GET("/lab-attendance", h.ListLabAttendance)
	api.POST("/lab-attendance", h.recordAttendance(model.LabKind))
	api.GET("/class-attendance", h.ListClassAttendance)
	api.POST("/class-attendance", h.recordAttendance(model.ClassKind))

	api.GET("/dashboard", h.Dashboard)
}

// ---------- Health ----------

func (h *Handler) Health(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)
	body := gin.H{"status": "OK", "timestamp": now}
	if h.redis != nil {
		body["redis"] = h.redis.Healthy(c.Request.Context())
	}
	if err := h.db.Ping(c.Request.Context()); err != nil {
		body["status"] = "unavailable"
		body["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// ---------- Labs / Classes ----------

func (h *Handler) listSessions(k model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions, err := h.svc.ListSessions(c.Request.Context(), k)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessions)
	}
}

func (h *Handler) createSession(k model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in model.SessionInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess, err := h.svc.CreateSession(c.Request.Context(), k, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": sess.ID, "message": k.Label + " created successfully"})
	}
}

func (h *Handler) updateSession(k model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in model.SessionInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := h.svc.UpdateSession(c.Request.Context(), k, c.Param("id"), in); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": k.Label + " updated successfully"})
	}
}

func (h *Handler) deleteSession(k model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.svc.DeleteSession(c.Request.Context(), k, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": k.Label + " deleted successfully"})
	}
}

// ---------- Attendance ----------

// attendanceRequest accepts labId or classId; only the one matching the route is read.
type attendanceRequest struct {
	LabID       string       `json:"labId"`
	ClassID     string       `json:"classId"`
	StudentName string       `json:"studentName"`
	StudentID   string       `json:"studentId"`
	Status      model.Status `json:"status"`
	Date        string       `json:"date"`
}

func (r attendanceRequest) forKind(k model.Kind) model.NewAttendance {
	sessionID := r.LabID
	if k == model.ClassKind {
		sessionID = r.ClassID
	}
	return model.NewAttendance{
		SessionID:   sessionID,
		StudentName: r.StudentName,
		StudentID:   r.StudentID,
		Status:      r.Status,
		Date:        r.Date,
	}
}

func (h *Handler) recordAttendance(k model.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req attendanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id, err := h.svc.RecordAttendance(c.Request.Context(), k, req.forKind(k))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "message": k.Label + " attendance recorded successfully"})
	}
}

func (h *Handler) ListLabAttendance(c *gin.Context) {
	rows, err := h.svc.ListLabAttendance(c.Request.Context(), filterFrom(c, model.LabKind))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ListClassAttendance(c *gin.Context) {
	rows, err := h.svc.ListClassAttendance(c.Request.Context(), filterFrom(c, model.ClassKind))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func filterFrom(c *gin.Context, k model.Kind) model.AttendanceFilter {
	return model.AttendanceFilter{SessionID: c.Query(k.ForeignKey), Date: c.Query("date")}
}

// ---------- Dashboard ----------

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attendance.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, attendance.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
