package health

import (
	"encoding/json"
	"net/http"
)

type report struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Handler serves the aggregated readiness report: 200 when every component is OK, 503 otherwise.
func Handler(checker *Checker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := checker.Check(r.Context())

		body := report{Status: "ok", Components: results}
		code := http.StatusOK
		if !Healthy(results) {
			body.Status = "unavailable"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// LivenessHandler reports that the process is serving requests.
func LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
