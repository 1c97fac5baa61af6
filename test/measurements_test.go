//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/bodymeasures/internal/auth"
	"github.com/2beens/bodymeasures/internal/measurements"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type measurementsView struct {
	Sex       measurements.Sex            `json:"sex"`
	History   measurements.History        `json:"history"`
	Rows      []measurements.TableRow     `json:"rows"`
	Reference []measurements.ReferenceRow `json:"reference"`
}

func (s *IntegrationTestSuite) TestPatientAndClinicianFlow() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	t := s.T()

	patientID := gofakeit.UUID()
	s.seedPatient(ctx, patientID, "Mujer")
	patientToken := s.newSession(ctx, patientID, auth.RolePatient)
	clinicianToken := s.newSession(ctx, gofakeit.UUID(), auth.RoleClinician)

	// empty history, mujer reference ranges
	status, body := s.doRequest(ctx, "GET", "/measurements", patientToken, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var view measurementsView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, measurements.SexMujer, view.Sex)
	assert.Empty(t, view.History)
	require.NotNil(t, view.Reference[1].Range)
	assert.Equal(t, float64(60), view.Reference[1].Range.Min)
	assert.Equal(t, float64(85), view.Reference[1].Range.Max)

	// empty draft is rejected
	status, _ = s.doRequest(ctx, "POST", "/measurements", patientToken, map[string]string{"pecho": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	// two saves on the same day produce duplicate dates
	status, body = s.doRequest(ctx, "POST", "/measurements", patientToken, map[string]string{"cintura": "70"})
	require.Equal(t, http.StatusCreated, status, string(body))
	status, body = s.doRequest(ctx, "POST", "/measurements", patientToken, map[string]any{"cintura": 72})
	require.Equal(t, http.StatusCreated, status, string(body))

	var saved measurements.Record
	require.NoError(t, json.Unmarshal(body, &saved))
	today := saved.Date
	assert.Equal(t, measurements.FormatDate(time.Now()), today)

	// clinician sees both, newest first
	path := "/patients/" + patientID + "/measurements"
	status, body = s.doRequest(ctx, "GET", path, clinicianToken, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	view = measurementsView{}
	require.NoError(t, json.Unmarshal(body, &view))
	require.Len(t, view.History, 2)
	assert.Equal(t, float64(72), view.History[0].Cintura)
	assert.Equal(t, measurements.StatusWithin, view.Rows[0].Cells[1].Status)

	// a patient cannot use the clinician routes
	status, _ = s.doRequest(ctx, "GET", path, patientToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// editing one record updates every record with that date
	dateQuery := "?date=" + url.QueryEscape(today)
	status, body = s.doRequest(ctx, "PUT", path+dateQuery, clinicianToken, map[string]string{"cintura": "90"})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"replaced": 2}`, string(body))

	doc, err := s.store.ReadDocument(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, doc.Measurements, 2)
	for _, rec := range doc.Measurements {
		assert.Equal(t, float64(90), rec.Cintura)
	}

	// delete needs confirmation
	status, body = s.doRequest(ctx, "DELETE", path+dateQuery, clinicianToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted": 0, "confirmed": false}`, string(body))

	status, body = s.doRequest(ctx, "DELETE", path+dateQuery+"&confirm=true", clinicianToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deleted": 2, "confirmed": true}`, string(body))

	doc, err = s.store.ReadDocument(ctx, patientID)
	require.NoError(t, err)
	assert.Empty(t, doc.Measurements)
}

func (s *IntegrationTestSuite) TestLogout() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	t := s.T()

	patientID := gofakeit.UUID()
	s.seedPatient(ctx, patientID, "")
	token := s.newSession(ctx, patientID, auth.RolePatient)

	status, body := s.doRequest(ctx, "GET", "/measurements", token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var view measurementsView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, measurements.DefaultSex, view.Sex)

	status, _ = s.doRequest(ctx, "POST", "/a/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.doRequest(ctx, "GET", "/measurements", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestReferenceIsPublic() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	status, body := s.doRequest(ctx, "GET", "/reference?sex=hombre", "", nil)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Contains(s.T(), string(body), `"sex":"hombre"`)
}
