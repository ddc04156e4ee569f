package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/careflow/care-orchestration/internal/analytics"
)

// reportHandler serves one report kind. Branch failures never surface here;
// an error means the aggregation itself could not run.
func reportHandler(agg *analytics.Aggregator, kind analytics.Kind, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := agg.BuildReport(r.Context(), kind)
		if err != nil {
			log.Error("report build failed",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "report_failed", "could not build report")
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}
