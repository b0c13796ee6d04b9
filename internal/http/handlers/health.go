package handlers

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/jmylchreest/widgetd/pkg/httpclient"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	version   string
	startTime time.Time
	clients   *httpclient.Registry
	widgets   int
	themes    int
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
	}
}

// WithClients sets the registry whose circuit breakers are reported.
func (h *HealthHandler) WithClients(clients *httpclient.Registry) *HealthHandler {
	h.clients = clients
	return h
}

// WithRegistrySizes records how many widgets and themes are loaded.
func (h *HealthHandler) WithRegistrySizes(widgets, themes int) *HealthHandler {
	h.widgets = widgets
	h.themes = themes
	return h
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status        string                            `json:"status"`
	Timestamp     string                            `json:"timestamp"`
	Version       string                            `json:"version"`
	Uptime        string                            `json:"uptime"`
	UptimeSeconds float64                           `json:"uptime_seconds"`
	Widgets       int                               `json:"widgets"`
	Themes        int                               `json:"themes"`
	CPUInfo       CPUInfo                           `json:"cpu_info"`
	Memory        MemoryInfo                        `json:"memory"`
	Upstreams     []httpclient.CircuitBreakerStatus `json:"upstreams"`
}

// CPUInfo contains load averages.
type CPUInfo struct {
	Cores              int     `json:"cores"`
	Load1Min           float64 `json:"load_1min"`
	Load5Min           float64 `json:"load_5min"`
	Load15Min          float64 `json:"load_15min"`
	LoadPercentage1Min float64 `json:"load_percentage_1min"`
}

// MemoryInfo contains system and process memory figures in MB.
type MemoryInfo struct {
	TotalMemoryMB     float64 `json:"total_memory_mb"`
	UsedMemoryMB      float64 `json:"used_memory_mb"`
	AvailableMemoryMB float64 `json:"available_memory_mb"`
	ProcessMB         float64 `json:"process_mb"`
	HeapMB            float64 `json:"heap_mb"`
	Goroutines        int     `json:"goroutines"`
}

// HealthInput is the input for the health check endpoint.
type HealthInput struct{}

// HealthOutput is the output for the health check endpoint.
type HealthOutput struct {
	Body HealthResponse
}

// LivezOutput is the output for the liveness probe.
type LivezOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// Register registers the health routes with the API.
func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getHealth",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service including system metrics",
		Tags:        []string{"System"},
	}, h.GetHealth)

	huma.Register(api, huma.Operation{
		OperationID: "getLivez",
		Method:      "GET",
		Path:        "/livez",
		Summary:     "Liveness probe",
		Tags:        []string{"System"},
	}, h.GetLivez)
}

// GetHealth returns the health status of the service. An open upstream
// breaker degrades the status; the pages keep working without weather.
func (h *HealthHandler) GetHealth(ctx context.Context, input *HealthInput) (*HealthOutput, error) {
	now := time.Now()
	uptime := now.Sub(h.startTime)

	upstreams := []httpclient.CircuitBreakerStatus{}
	if h.clients != nil {
		upstreams = h.clients.GetCircuitBreakerStatuses()
	}

	status := "healthy"
	for _, u := range upstreams {
		if u.State == httpclient.CircuitOpen.String() {
			status = "degraded"
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:        status,
			Timestamp:     now.UTC().Format(time.RFC3339),
			Version:       h.version,
			Uptime:        uptime.Round(time.Second).String(),
			UptimeSeconds: uptime.Seconds(),
			Widgets:       h.widgets,
			Themes:        h.themes,
			CPUInfo:       getCPUInfo(),
			Memory:        getMemoryInfo(),
			Upstreams:     upstreams,
		},
	}, nil
}

// GetLivez always reports ok while the process serves requests.
func (h *HealthHandler) GetLivez(ctx context.Context, input *HealthInput) (*LivezOutput, error) {
	out := &LivezOutput{}
	out.Body.Status = "ok"
	return out, nil
}

func getCPUInfo() CPUInfo {
	cores := runtime.NumCPU()
	info := CPUInfo{Cores: cores}

	loadAvg, err := load.Avg()
	if err == nil && loadAvg != nil {
		info.Load1Min = loadAvg.Load1
		info.Load5Min = loadAvg.Load5
		info.Load15Min = loadAvg.Load15
		if cores > 0 {
			info.LoadPercentage1Min = (loadAvg.Load1 / float64(cores)) * 100
		}
	}

	return info
}

func getMemoryInfo() MemoryInfo {
	info := MemoryInfo{Goroutines: runtime.NumGoroutine()}

	vmStat, err := mem.VirtualMemory()
	if err == nil && vmStat != nil {
		info.TotalMemoryMB = float64(vmStat.Total) / 1024 / 1024
		info.UsedMemoryMB = float64(vmStat.Used) / 1024 / 1024
		info.AvailableMemoryMB = float64(vmStat.Available) / 1024 / 1024
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if m, err := proc.MemoryInfo(); err == nil && m != nil {
			info.ProcessMB = float64(m.RSS) / 1024 / 1024
		}
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	info.HeapMB = float64(ms.HeapAlloc) / 1024 / 1024

	return info
}
