package psql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/bodymeasures/internal/measurements"
	"github.com/2beens/bodymeasures/internal/telemetry/tracing"
	"github.com/2beens/bodymeasures/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrPatientExists = errors.New("patient already exists")

var _ measurements.DocumentStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS patient (
	id           TEXT PRIMARY KEY,
	sexo         TEXT NOT NULL DEFAULT '',
	measurements JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Store keeps one row per patient; the measurements array lives in a JSONB
// column and is always rewritten as a whole.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) Migrate(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create patient table: %w", err)
	}
	return nil
}

// CreatePatient inserts an empty document for id.
func (s *Store) CreatePatient(ctx context.Context, id, sexo string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.patient.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("patient.id", id))

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO patient (id, sexo) VALUES ($1, $2);`,
		id, sexo,
	)
	if pkg.IsUniqueViolationError(err) {
		return ErrPatientExists
	}
	return err
}

func (s *Store) ReadDocument(ctx context.Context, userID string) (_ *measurements.PatientDocument, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.read")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("patient.id", userID))

	var sexo string
	var rawMeasurements []byte
	err = s.db.
		QueryRow(ctx, `SELECT sexo, measurements FROM patient WHERE id = $1;`, userID).
		Scan(&sexo, &rawMeasurements)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, measurements.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	doc := &measurements.PatientDocument{
		Sexo:         sexo,
		Measurements: measurements.History{},
	}
	if len(rawMeasurements) > 0 {
		if err := json.Unmarshal(rawMeasurements, &doc.Measurements); err != nil {
			return nil, fmt.Errorf("unmarshal measurements: %w", err)
		}
	}
	span.SetAttributes(attribute.Int("history.len", len(doc.Measurements)))

	return doc, nil
}

// OverwriteMeasurements replaces the stored array with history. No version
// check is made: concurrent writers overwrite each other.
func (s *Store) OverwriteMeasurements(ctx context.Context, userID string, history measurements.History) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.overwrite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("patient.id", userID),
		attribute.Int("history.len", len(history)),
	)

	if history == nil {
		history = measurements.History{}
	}
	historyJson, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal measurements: %w", err)
	}

	tag, err := s.db.Exec(
		ctx,
		`UPDATE patient SET measurements = $2::jsonb, updated_at = now() WHERE id = $1;`,
		userID, string(historyJson),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return measurements.ErrDocumentNotFound
	}

	return nil
}
