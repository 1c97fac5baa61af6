package measurements_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/bodymeasures/internal/measurements"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

func TestPatientEntry_Load(t *testing.T) {
	ctx := context.Background()
	store := measurements.NewMemoryStore()
	patientID := gofakeit.UUID()
	history := measurements.History{
		{Date: "2/2/2024", Cintura: 72},
		{Date: "1/1/2024", Cintura: 74, Pecho: 90},
	}
	store.Put(patientID, measurements.PatientDocument{Sexo: "Mujer", Measurements: history})

	pe := measurements.NewPatientEntry(store, patientID)
	assert.Equal(t, measurements.SexHombre, pe.Sex())
	assert.Empty(t, pe.History())

	require.NoError(t, pe.Load(ctx))
	assert.Equal(t, measurements.SexMujer, pe.Sex())
	assert.Equal(t, history, pe.History())

	// render right after load shows exactly what is stored, in order
	rows := pe.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "2/2/2024", rows[0].Date)
	assert.Equal(t, "1/1/2024", rows[1].Date)
	assert.Equal(t, "74", rows[1].Cells[1].Text)
}

func TestPatientEntry_Load_MissingDocumentAndFields(t *testing.T) {
	ctx := context.Background()
	store := measurements.NewMemoryStore()

	pe := measurements.NewPatientEntry(store, "nobody")
	require.NoError(t, pe.Load(ctx))
	assert.Equal(t, measurements.SexHombre, pe.Sex())
	assert.Empty(t, pe.History())

	store.Put("no-sex", measurements.PatientDocument{})
	pe = measurements.NewPatientEntry(store, "no-sex")
	require.NoError(t, pe.Load(ctx))
	assert.Equal(t, measurements.SexHombre, pe.Sex())
	assert.NotNil(t, pe.History())
	assert.Empty(t, pe.History())
}

func TestPatientEntry_Load_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockDocumentStore(ctrl)

	storeMock.EXPECT().
		ReadDocument(gomock.Any(), "p1").
		Return(nil, errors.New("network down"))

	pe := measurements.NewPatientEntry(storeMock, "p1")
	err := pe.Load(context.Background())
	require.ErrorIs(t, err, measurements.ErrLoadFailed)
	assert.Equal(t, measurements.SexHombre, pe.Sex())
	assert.Empty(t, pe.History())
	assert.Empty(t, pe.Rows())
}

func TestPatientEntry_Save_EmptyDraftRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockDocumentStore(ctrl)
	// no store calls expected

	pe := measurements.NewPatientEntry(storeMock, "p1", measurements.WithClock(fixedClock))
	_, err := pe.Save(context.Background())
	assert.ErrorIs(t, err, measurements.ErrEmptyDraft)

	for _, f := range measurements.AllFields {
		pe.SetDraftField(f, "0")
	}
	pe.SetDraftField(measurements.FieldCintura, "abc")
	_, err = pe.Save(context.Background())
	assert.ErrorIs(t, err, measurements.ErrEmptyDraft)
	assert.Empty(t, pe.History())
}

func TestPatientEntry_Save_UnknownFieldOnlyRejected(t *testing.T) {
	ctx := context.Background()
	store := measurements.NewMemoryStore()
	store.Put("p1", measurements.PatientDocument{Sexo: "Hombre"})

	pe := measurements.NewPatientEntry(store, "p1", measurements.WithClock(fixedClock))
	require.NoError(t, pe.Load(ctx))

	pe.SetDraftField(measurements.Field("cuello"), "40")
	pe.SetDraftValue(measurements.Field("muneca"), 17)
	assert.True(t, pe.Draft().IsEmpty())

	_, err := pe.Save(ctx)
	require.ErrorIs(t, err, measurements.ErrEmptyDraft)
	assert.Empty(t, pe.History())

	doc, err := store.ReadDocument(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, doc.Measurements)
}

func TestPatientEntry_DraftReturnsCopy(t *testing.T) {
	pe := measurements.NewPatientEntry(measurements.NewMemoryStore(), "p1", measurements.WithClock(fixedClock))
	pe.SetDraftField(measurements.FieldPecho, "100")

	d := pe.Draft()
	d.SetValue(measurements.FieldPecho, 1)
	d.SetValue(measurements.FieldCintura, 80)

	v, ok := pe.Draft().Get(measurements.FieldPecho)
	assert.True(t, ok)
	assert.Equal(t, float64(100), v)
	_, ok = pe.Draft().Get(measurements.FieldCintura)
	assert.False(t, ok)
}

func TestPatientEntry_Save_MujerScenario(t *testing.T) {
	ctx := context.Background()
	store := measurements.NewMemoryStore()
	store.Put("p1", measurements.PatientDocument{Sexo: "Mujer", Measurements: measurements.History{}})

	pe := measurements.NewPatientEntry(store, "p1", measurements.WithClock(fixedClock))
	require.NoError(t, pe.Load(ctx))

	pe.SetDraftField(measurements.FieldCintura, "70")
	rec, err := pe.Save(ctx)
	require.NoError(t, err)

	expected := measurements.Record{Date: "5/3/2024", Cintura: 70}
	assert.Equal(t, expected, rec)
	assert.Equal(t, measurements.History{expected}, pe.History())
	assert.True(t, pe.Draft().IsEmpty())

	doc, err := store.ReadDocument(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, measurements.History{expected}, doc.Measurements)

	rr, ok := measurements.LookupRange(pe.Sex(), measurements.FieldCintura)
	require.True(t, ok)
	assert.Equal(t, measurements.ReferenceRange{Min: 60, Max: 85}, rr)
}

func TestPatientEntry_Save_PrependsExactlyOne(t *testing.T) {
	ctx := context.Background()
	existing := measurements.History{
		{Date: "1/2/2024", Pecho: 100},
		{Date: "1/1/2024", Pecho: 101},
	}

	ctrl := gomock.NewController(t)
	storeMock := NewMockDocumentStore(ctrl)
	storeMock.EXPECT().
		ReadDocument(gomock.Any(), "p1").
		Return(&measurements.PatientDocument{Sexo: "hombre", Measurements: existing}, nil)
	storeMock.EXPECT().
		OverwriteMeasurements(gomock.Any(), "p1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, h measurements.History) error {
			require.Len(t, h, 3)
			assert.Equal(t, measurements.Record{Date: "5/3/2024", Pecho: 99, MusloAlto: 55.5}, h[0])
			assert.Equal(t, existing, h[1:])
			return nil
		}).Times(1)

	pe := measurements.NewPatientEntry(storeMock, "p1", measurements.WithClock(fixedClock))
	require.NoError(t, pe.Load(ctx))

	pe.SetDraftValue(measurements.FieldPecho, 99)
	pe.SetDraftField(measurements.FieldMusloAlto, "55.5")
	_, err := pe.Save(ctx)
	require.NoError(t, err)
	assert.Len(t, pe.History(), len(existing)+1)
}

func TestPatientEntry_Save_PersistFailureKeepsLocalState(t *testing.T) {
	ctx := context.Background()
	store := measurements.NewMemoryStore()
	store.Put("p1", measurements.PatientDocument{Sexo: "Hombre"})

	pe := measurements.NewPatientEntry(store, "p1", measurements.WithClock(fixedClock))
	require.NoError(t, pe.Load(ctx))

	store.FailWrites = errors.New("quota exceeded")
	pe.SetDraftField(measurements.FieldCadera, "98")
	_, err := pe.Save(ctx)
	require.ErrorIs(t, err, measurements.ErrPersistFailed)
	assert.Empty(t, pe.History())
	// draft kept so the patient can retry
	v, ok := pe.Draft().Get(measurements.FieldCadera)
	assert.True(t, ok)
	assert.Equal(t, float64(98), v)

	store.FailWrites = nil
	_, err = pe.Save(ctx)
	require.NoError(t, err)
	assert.Len(t, pe.History(), 1)
}

func TestPatientEntry_PhotoPanelDisabled(t *testing.T) {
	pe := measurements.NewPatientEntry(measurements.NewMemoryStore(), "p1")
	panel := pe.PhotoPanel()
	assert.False(t, panel.Enabled)
	assert.NotEmpty(t, panel.Message)
}
