package api

import (
	"errors"
	"net/http"

	"github.com/2beens/bodymeasures/internal/measurements"
	"github.com/2beens/bodymeasures/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

type patientView struct {
	Sex        measurements.Sex            `json:"sex"`
	History    measurements.History        `json:"history"`
	Rows       []measurements.TableRow     `json:"rows"`
	PhotoPanel measurements.PhotoPanel     `json:"photoPanel"`
	Reference  []measurements.ReferenceRow `json:"reference"`
	LoadFailed bool                        `json:"loadFailed,omitempty"`
}

func (handler *Handler) newPatientEntry(patientID string) *measurements.PatientEntry {
	return measurements.NewPatientEntry(handler.store, patientID, measurements.WithClock(handler.now))
}

func (handler *Handler) handlePatientGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurementsHandler.patient.get")
	defer span.End()

	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	entry := handler.newPatientEntry(session.UserID)
	loadErr := entry.Load(ctx)
	if loadErr != nil {
		// the view still renders, with the default state
		handler.metrics.CounterDocumentLoadFailures.Inc()
	}

	writeJSON(w, patientView{
		Sex:        entry.Sex(),
		History:    entry.History(),
		Rows:       entry.Rows(),
		PhotoPanel: entry.PhotoPanel(),
		Reference:  measurements.ReferenceGrid(entry.Sex()),
		LoadFailed: loadErr != nil,
	}, http.StatusOK)
}

func (handler *Handler) handlePatientSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurementsHandler.patient.save")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	values, err := readFieldValues(r)
	if err != nil {
		log.Debugf("patient save [%s], read input: %s", session.UserID, err)
		http.Error(w, "error, invalid measurements", http.StatusBadRequest)
		return
	}

	entry := handler.newPatientEntry(session.UserID)
	// without the current history, saving would overwrite it with one record
	if err := entry.Load(ctx); err != nil {
		handler.metrics.CounterDocumentLoadFailures.Inc()
		http.Error(w, "error, failed to load measurements", http.StatusInternalServerError)
		return
	}

	for f, v := range values {
		entry.SetDraftValue(f, v)
	}

	rec, err := entry.Save(ctx)
	switch {
	case errors.Is(err, measurements.ErrEmptyDraft):
		handler.metrics.CounterValidationFailures.Inc()
		http.Error(w, "error, enter at least one measurement", http.StatusBadRequest)
		return
	case err != nil:
		handler.metrics.CounterPersistenceFailures.WithLabelValues("save").Inc()
		http.Error(w, "error, failed to save measurements", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMeasurementsSaved.Inc()
	log.Printf("patient [%s] added measurements for [%s]", session.UserID, rec.Date)
	writeJSON(w, rec, http.StatusCreated)
}

func (handler *Handler) handlePhotos(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	session, ok := mustSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, handler.newPatientEntry(session.UserID).PhotoPanel(), http.StatusNotImplemented)
}
