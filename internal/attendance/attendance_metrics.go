package attendance

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	marks *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		marks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_marks_total",
			Help: "Attendance writes by mark kind and resulting status.",
		}, []string{"mark", "status"}),
	}
	reg.MustRegister(m.marks)
	return m
}

func (m *Metrics) observe(mark, status string) {
	if m == nil {
		return
	}
	m.marks.WithLabelValues(mark, status).Inc()
}
