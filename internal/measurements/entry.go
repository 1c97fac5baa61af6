package measurements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/bodymeasures/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// PhotoPanel is the progress photos block shown next to the history.
// Upload is not available yet, so the panel is always disabled.
type PhotoPanel struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

type PatientEntryOption func(*PatientEntry)

func WithClock(now func() time.Time) PatientEntryOption {
	return func(pe *PatientEntry) {
		pe.now = now
	}
}

// PatientEntry is the self-service view where a signed-in patient appends
// records to their own history. One instance per request/view; not safe for
// concurrent use.
type PatientEntry struct {
	store     DocumentStore
	patientID string
	now       func() time.Time

	sex     Sex
	draft   Draft
	history History
}

func NewPatientEntry(store DocumentStore, patientID string, opts ...PatientEntryOption) *PatientEntry {
	pe := &PatientEntry{
		store:     store,
		patientID: patientID,
		now:       time.Now,
		sex:       DefaultSex,
		draft:     NewDraft(),
		history:   History{},
	}
	for _, opt := range opts {
		opt(pe)
	}
	return pe
}

// Load reads the patient document. A missing document leaves the defaults
// in place. On failure the error is logged and returned, and the view keeps
// the default (empty) state.
func (pe *PatientEntry) Load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "view.patient.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sex, history, err := loadDocument(ctx, pe.store, pe.patientID)
	if err != nil {
		log.Errorf("patient entry, load [%s]: %s", pe.patientID, err)
		pe.sex = DefaultSex
		pe.history = History{}
		return err
	}

	pe.sex = sex
	pe.history = history
	span.SetAttributes(attribute.Int("history.len", len(history)))
	return nil
}

func (pe *PatientEntry) SetDraftField(f Field, raw string) {
	pe.draft.Set(f, raw)
}

func (pe *PatientEntry) SetDraftValue(f Field, v float64) {
	pe.draft.SetValue(f, v)
}

// Save turns the draft into a new record dated today and writes the whole
// history, new record first. The local history and draft change only after
// the store acknowledged the write.
func (pe *PatientEntry) Save(ctx context.Context) (_ Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "view.patient.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if pe.draft.IsEmpty() {
		return Record{}, ErrEmptyDraft
	}

	rec := pe.draft.ToRecord(FormatDate(pe.now()))
	if rec.IsEmpty() {
		return Record{}, ErrEmptyDraft
	}
	updated := pe.history.Prepend(rec)

	if err := pe.store.OverwriteMeasurements(ctx, pe.patientID, updated); err != nil {
		log.Errorf("patient entry, save [%s] [%s]: %s", pe.patientID, rec.Date, err)
		return Record{}, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	pe.history = updated
	pe.draft.Clear()
	log.Debugf("patient [%s] saved measurements for [%s], history len %d", pe.patientID, rec.Date, len(updated))
	return rec, nil
}

func (pe *PatientEntry) Sex() Sex {
	return pe.sex
}

func (pe *PatientEntry) History() History {
	return pe.history.Clone()
}

// Draft returns a copy; changing it does not touch the entry's draft.
func (pe *PatientEntry) Draft() Draft {
	return pe.draft.Clone()
}

func (pe *PatientEntry) Rows() []TableRow {
	return RenderRows(pe.history, "")
}

func (pe *PatientEntry) PhotoPanel() PhotoPanel {
	return PhotoPanel{
		Enabled: false,
		Message: "Fotos de progreso: próximamente",
	}
}

// loadDocument reads and normalizes a patient document. Not found is not an
// error: the caller gets defaults.
func loadDocument(ctx context.Context, store DocumentStore, patientID string) (Sex, History, error) {
	doc, err := store.ReadDocument(ctx, patientID)
	if errors.Is(err, ErrDocumentNotFound) {
		log.Debugf("patient document [%s] not found, using defaults", patientID)
		return DefaultSex, History{}, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	history := doc.Measurements
	if history == nil {
		history = History{}
	}
	return NormalizeSex(doc.Sexo), history, nil
}
