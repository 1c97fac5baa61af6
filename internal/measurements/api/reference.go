package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/bodymeasures/internal/measurements"
	"github.com/2beens/bodymeasures/internal/telemetry/tracing"
	"github.com/2beens/bodymeasures/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	oneHour               = 60 * 60
	referenceCacheExpire  = oneHour * 6
	referenceCacheHeader  = "X-Cache"
	referenceCacheHitVal  = "hit"
	referenceCacheMissVal = "miss"
)

type referenceResponse struct {
	Sex  measurements.Sex            `json:"sex"`
	Rows []measurements.ReferenceRow `json:"rows"`
}

func (handler *Handler) handleReference(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "measurementsHandler.reference")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	sex := measurements.NormalizeSex(r.URL.Query().Get("sex"))
	cacheKey := []byte(fmt.Sprintf("reference::%s", sex))

	if cached, err := handler.refCache.Get(cacheKey); err == nil {
		w.Header().Set(referenceCacheHeader, referenceCacheHitVal)
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	respBytes, err := json.Marshal(referenceResponse{
		Sex:  sex,
		Rows: measurements.ReferenceGrid(sex),
	})
	if err != nil {
		log.Errorf("marshal reference grid for %s: %s", sex, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := handler.refCache.Set(cacheKey, respBytes, referenceCacheExpire); err != nil {
		log.Errorf("failed to cache reference grid for %s: %s", sex, err)
	}

	w.Header().Set(referenceCacheHeader, referenceCacheMissVal)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
