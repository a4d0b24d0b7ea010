package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labattend_sessions_created_total",
		Help: "Sessions created, by kind.",
	}, []string{"kind"})

	sessionsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labattend_sessions_deleted_total",
		Help: "Sessions deleted, by kind.",
	}, []string{"kind"})

	attendanceRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "labattend_attendance_recorded_total",
		Help: "Attendance rows recorded, by kind and status.",
	}, []string{"kind", "status"})
)
