package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// maxLogEntries bounds the in-memory request log
const maxLogEntries = 10000

// LogEntry is one served request
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	RequestID    string        `json:"request_id,omitempty"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService keeps a rolling request log for the dashboard and feeds
// the Prometheus request metrics
type MonitoringService struct {
	logs    []LogEntry
	mu      sync.RWMutex
	metrics *Metrics
}

// NewMonitoringService creates the service. metrics may be nil.
func NewMonitoringService(metrics *Metrics) *MonitoringService {
	return &MonitoringService{
		logs:    make([]LogEntry, 0),
		metrics: metrics,
	}
}

// LogRequest appends an entry, dropping the oldest past the cap
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = append([]LogEntry(nil), s.logs[len(s.logs)-maxLogEntries:]...)
	}
}

// LoggingMiddleware records every request except the monitoring endpoints themselves
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), elapsed)

		if strings.HasPrefix(path, "/api/v1/monitoring") || path == "/metrics" {
			return
		}

		entry := LogEntry{
			Timestamp:    start,
			RequestID:    c.GetString("request_id"),
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: elapsed,
		}
		s.LogRequest(entry)

		fields := log.Fields{
			"method":     entry.Method,
			"path":       entry.Path,
			"status":     entry.StatusCode,
			"elapsed_ms": elapsed.Milliseconds(),
			"request_id": entry.RequestID,
		}
		if entry.StatusCode >= 500 {
			log.WithFields(fields).Warn("request failed")
		} else {
			log.WithFields(fields).Debug("request served")
		}
	}
}

// DashboardData is the aggregated view of the request log
type DashboardData struct {
	RequestsOverTime []map[string]interface{} `json:"requestsOverTime"`
	Endpoints        map[string]int           `json:"endpoints"`
	StatusCodes      []map[string]interface{} `json:"statusCodes"`
	AvgResponseTimes []map[string]interface{} `json:"avgResponseTimes"`
	RecentErrors     []LogEntry               `json:"recentErrors"`
}

// GetDashboardData aggregates the last periodHours of the log in hourly buckets (Paris time)
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	if periodHours < 1 {
		periodHours = 1
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		loc = time.UTC
	}

	now := time.Now().In(loc)
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	recent := make([]LogEntry, 0)
	for _, e := range s.logs {
		if e.Timestamp.After(since) {
			recent = append(recent, e)
		}
	}

	// oldest bucket first
	overTime := make([]map[string]interface{}, periodHours)
	bucketIndex := make(map[string]int, periodHours)
	for i := 0; i < periodHours; i++ {
		t := now.Add(-time.Duration(periodHours-1-i) * time.Hour)
		bucketIndex[t.Truncate(time.Hour).Format(time.RFC3339)] = i
		overTime[i] = map[string]interface{}{"time": t.Format("15:00"), "requests": 0}
	}
	for _, e := range recent {
		key := e.Timestamp.In(loc).Truncate(time.Hour).Format(time.RFC3339)
		if i, ok := bucketIndex[key]; ok {
			overTime[i]["requests"] = overTime[i]["requests"].(int) + 1
		}
	}

	endpoints := make(map[string]int)
	classes := map[string]int{"2xx Success": 0, "4xx Client Error": 0, "5xx Server Error": 0}
	sum := make(map[string]time.Duration)
	count := make(map[string]int)
	for _, e := range recent {
		endpoints[e.Path]++
		switch {
		case e.StatusCode >= 500:
			classes["5xx Server Error"]++
		case e.StatusCode >= 400:
			classes["4xx Client Error"]++
		case e.StatusCode >= 200 && e.StatusCode < 300:
			classes["2xx Success"]++
		}
		sum[e.Path] += e.ResponseTime
		count[e.Path]++
	}

	statusCodes := make([]map[string]interface{}, 0, len(classes))
	for _, name := range []string{"2xx Success", "4xx Client Error", "5xx Server Error"} {
		statusCodes = append(statusCodes, map[string]interface{}{"name": name, "value": classes[name]})
	}

	avgTimes := make([]map[string]interface{}, 0, len(sum))
	for path, total := range sum {
		avgTimes = append(avgTimes, map[string]interface{}{"endpoint": path, "responseTime": total.Milliseconds() / int64(count[path])})
	}

	recentErrors := make([]LogEntry, 0)
	for i := len(recent) - 1; i >= 0 && len(recentErrors) < 10; i-- {
		if recent[i].StatusCode >= 500 {
			recentErrors = append(recentErrors, recent[i])
		}
	}

	return DashboardData{
		RequestsOverTime: overTime,
		Endpoints:        endpoints,
		StatusCodes:      statusCodes,
		AvgResponseTimes: avgTimes,
		RecentErrors:     recentErrors,
	}
}
