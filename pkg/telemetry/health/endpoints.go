package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// LivenessHandler returns an HTTP handler for the liveness endpoint.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler returns an HTTP handler for the readiness endpoint.
// It answers 503 when any registered check fails.
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "repository": {"status": "unhealthy", "message": "sqlite: has_node /: database is locked"}
//	    },
//	    "timestamp": "2026-10-17T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r) {
			return
		}

		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if status.Status != StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler returns an HTTP handler for the version information endpoint.
func VersionHandler(version, commit, buildTime string) http.HandlerFunc {
	info := VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r) {
			return
		}
		writeJSON(w, r, http.StatusOK, info)
	}
}

// Register mounts /health, /ready and /version on mux.
func Register(mux *http.ServeMux, checker *Checker, version, commit, buildTime string) {
	mux.HandleFunc("/health", checker.LivenessHandler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
	mux.HandleFunc("/version", VersionHandler(version, commit, buildTime))
}

func allowMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(body)
	}
}
