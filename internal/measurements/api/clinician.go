package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/bodymeasures/internal/measurements"
	"github.com/2beens/bodymeasures/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type clinicianView struct {
	PatientID  string                      `json:"patientId"`
	Sex        measurements.Sex            `json:"sex"`
	History    measurements.History        `json:"history"`
	Rows       []measurements.TableRow     `json:"rows"`
	Reference  []measurements.ReferenceRow `json:"reference"`
	LoadFailed bool                        `json:"loadFailed,omitempty"`
}

func (handler *Handler) handleClinicianGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurementsHandler.clinician.get")
	defer span.End()

	patientID := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("patient.id", patientID))

	review := measurements.NewClinicianReview(handler.store, patientID)
	loadErr := review.Load(ctx)
	if loadErr != nil {
		handler.metrics.CounterDocumentLoadFailures.Inc()
	}

	writeJSON(w, clinicianView{
		PatientID:  patientID,
		Sex:        review.Sex(),
		History:    review.History(),
		Rows:       review.Rows(),
		Reference:  review.ReferenceGrid(),
		LoadFailed: loadErr != nil,
	}, http.StatusOK)
}

func (handler *Handler) handleClinicianUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurementsHandler.clinician.update")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, PUT, DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	patientID := mux.Vars(r)["id"]
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "error, date empty", http.StatusBadRequest)
		return
	}

	values, err := readFieldValues(r)
	if err != nil {
		log.Debugf("clinician update [%s] [%s], read input: %s", patientID, date, err)
		http.Error(w, "error, invalid measurements", http.StatusBadRequest)
		return
	}

	review := measurements.NewClinicianReview(handler.store, patientID)
	if err := review.Load(ctx); err != nil {
		handler.metrics.CounterDocumentLoadFailures.Inc()
		http.Error(w, "error, failed to load measurements", http.StatusInternalServerError)
		return
	}

	rec, found := findByDate(review.History(), date)
	if !found {
		http.Error(w, "error, no measurements for that date", http.StatusNotFound)
		return
	}

	review.BeginEdit(rec)
	for f, v := range values {
		if err := review.SetEditValue(f, v); err != nil {
			log.Errorf("clinician update [%s], set %s: %s", patientID, f, err)
		}
	}

	replaced, err := review.ConfirmEdit(ctx)
	if err != nil {
		handler.metrics.CounterPersistenceFailures.WithLabelValues("update").Inc()
		http.Error(w, "error, failed to update measurements", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMeasurementsUpdated.Add(float64(replaced))
	log.Printf("clinician updated %d record(s) of patient [%s] dated [%s]", replaced, patientID, date)
	writeJSON(w, map[string]int{"replaced": replaced}, http.StatusOK)
}

func (handler *Handler) handleClinicianDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurementsHandler.clinician.delete")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, PUT, DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	patientID := mux.Vars(r)["id"]
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "error, date empty", http.StatusBadRequest)
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"

	review := measurements.NewClinicianReview(handler.store, patientID)
	if err := review.Load(ctx); err != nil {
		handler.metrics.CounterDocumentLoadFailures.Inc()
		http.Error(w, "error, failed to load measurements", http.StatusInternalServerError)
		return
	}

	confirmer := measurements.ConfirmFunc(func(_ context.Context, prompt string) bool {
		log.Debugf("clinician delete [%s]: %s -> %t", patientID, prompt, confirmed)
		return confirmed
	})

	deleted, err := review.Delete(ctx, date, confirmer)
	if err != nil {
		if errors.Is(err, measurements.ErrPersistFailed) {
			handler.metrics.CounterPersistenceFailures.WithLabelValues("delete").Inc()
		}
		http.Error(w, "error, failed to delete measurements", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMeasurementsDeleted.Add(float64(deleted))
	writeJSON(w, struct {
		Deleted   int  `json:"deleted"`
		Confirmed bool `json:"confirmed"`
	}{
		Deleted:   deleted,
		Confirmed: confirmed,
	}, http.StatusOK)
}

func findByDate(history measurements.History, date string) (measurements.Record, bool) {
	for _, rec := range history {
		if rec.Date == date {
			return rec, true
		}
	}
	return measurements.Record{}, false
}
