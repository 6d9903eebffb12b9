package api

import "net/http"

// handleGetLogging reports the active logging configuration. Changes are
// made through the config file, which is watched at runtime.
func (r *Router) handleGetLogging(w http.ResponseWriter, req *http.Request) {
	if r.logManager == nil {
		writeError(w, req, http.StatusServiceUnavailable, "logging manager not available")
		return
	}
	writeJSON(w, http.StatusOK, r.logManager.Config())
}
