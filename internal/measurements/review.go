package measurements

import (
	"context"
	"fmt"

	"github.com/2beens/bodymeasures/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Confirmer asks the clinician to confirm an irreversible action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// ClinicianReview is the view where a clinician inspects one patient's
// history against the reference catalog and edits or deletes records.
// Records are matched by date, so duplicates are edited and deleted together.
type ClinicianReview struct {
	store     DocumentStore
	patientID string

	sex        Sex
	history    History
	editingKey *string
	editBuffer Record
}

func NewClinicianReview(store DocumentStore, patientID string) *ClinicianReview {
	return &ClinicianReview{
		store:     store,
		patientID: patientID,
		sex:       DefaultSex,
		history:   History{},
	}
}

// Load reads the patient document. On failure the error is logged and the
// previous state is kept.
func (cr *ClinicianReview) Load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "view.clinician.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sex, history, err := loadDocument(ctx, cr.store, cr.patientID)
	if err != nil {
		log.Errorf("clinician review, load [%s]: %s", cr.patientID, err)
		return err
	}

	cr.sex = sex
	cr.history = history
	span.SetAttributes(attribute.Int("history.len", len(history)))
	return nil
}

// BeginEdit puts rec in edit mode, replacing any edit in progress.
func (cr *ClinicianReview) BeginEdit(rec Record) {
	key := rec.Date
	cr.editingKey = &key
	cr.editBuffer = rec
}

// EditingKey returns the date being edited, if any.
func (cr *ClinicianReview) EditingKey() (string, bool) {
	if cr.editingKey == nil {
		return "", false
	}
	return *cr.editingKey, true
}

func (cr *ClinicianReview) EditBuffer() (Record, bool) {
	if cr.editingKey == nil {
		return Record{}, false
	}
	return cr.editBuffer, true
}

func (cr *ClinicianReview) SetEditField(f Field, raw string) error {
	return cr.SetEditValue(f, ParseValue(raw))
}

func (cr *ClinicianReview) SetEditValue(f Field, v float64) error {
	if cr.editingKey == nil {
		return ErrNotEditing
	}
	cr.editBuffer = cr.editBuffer.WithValue(f, v)
	return nil
}

// ConfirmEdit writes the edit buffer over every record sharing the edited
// date. Values are not validated; an all-zero record is allowed here.
// On persistence failure the local history and the edit mode are kept.
func (cr *ClinicianReview) ConfirmEdit(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "view.clinician.edit.confirm")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if cr.editingKey == nil {
		return 0, ErrNotEditing
	}
	key := *cr.editingKey

	updated, replaced := cr.history.ReplaceByDate(key, cr.editBuffer)
	span.SetAttributes(attribute.Int("replaced", replaced))

	if err := cr.store.OverwriteMeasurements(ctx, cr.patientID, updated); err != nil {
		log.Errorf("clinician review, confirm edit [%s] [%s]: %s", cr.patientID, key, err)
		return 0, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	cr.history = updated
	cr.CancelEdit()
	log.Debugf("clinician review [%s]: replaced %d record(s) dated [%s]", cr.patientID, replaced, key)
	return replaced, nil
}

// CancelEdit drops the edit buffer without touching the store.
func (cr *ClinicianReview) CancelEdit() {
	cr.editingKey = nil
	cr.editBuffer = Record{}
}

// Delete removes every record dated date after the confirmer agreed.
// A declined confirmation, or a date with no records, is a no-op that
// returns (0, nil) without calling the store.
func (cr *ClinicianReview) Delete(ctx context.Context, date string, confirmer Confirmer) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "view.clinician.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !confirmer.Confirm(ctx, fmt.Sprintf("¿Eliminar la medición del %s?", date)) {
		log.Debugf("clinician review [%s]: delete [%s] not confirmed", cr.patientID, date)
		return 0, nil
	}

	updated, removed := cr.history.RemoveByDate(date)
	span.SetAttributes(attribute.Int("removed", removed))
	if removed == 0 {
		return 0, nil
	}

	if err := cr.store.OverwriteMeasurements(ctx, cr.patientID, updated); err != nil {
		log.Errorf("clinician review, delete [%s] [%s]: %s", cr.patientID, date, err)
		return 0, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	cr.history = updated
	return removed, nil
}

func (cr *ClinicianReview) Sex() Sex {
	return cr.sex
}

func (cr *ClinicianReview) History() History {
	return cr.history.Clone()
}

func (cr *ClinicianReview) ReferenceGrid() []ReferenceRow {
	return ReferenceGrid(cr.sex)
}

// Rows renders the history with reference status; rows matching the edit
// key carry the edit buffer instead of static values.
func (cr *ClinicianReview) Rows() []TableRow {
	rows := RenderRows(cr.history, cr.sex)
	if cr.editingKey == nil {
		return rows
	}
	for i := range rows {
		if rows[i].Date == *cr.editingKey {
			buf := cr.editBuffer
			rows[i].Editing = true
			rows[i].Edit = &buf
		}
	}
	return rows
}
