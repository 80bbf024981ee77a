package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHealthResponse is the GET /api/system/health payload.
type SystemHealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Goroutines    int     `json:"goroutines"`
	AllocMB       uint64  `json:"alloc_mb"`
	InventorySize int     `json:"inventory_size"`
	CacheEnabled  bool    `json:"cache_enabled"`
}

// handleSystemHealth returns a process and host resource snapshot.
// GET /api/system/health
func (s *Server) handleSystemHealth(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPercent := s.resourceUsage()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := SystemHealthResponse{
		Status:        "running",
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		CPUPercent:    cpuAvg,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		AllocMB:       m.Alloc / 1024 / 1024,
		InventorySize: len(s.inventory),
		CacheEnabled:  s.cache != nil,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// resourceUsage samples host CPU and memory via gopsutil. Failures degrade
// to zeros rather than failing the health check.
func (s *Server) resourceUsage() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
