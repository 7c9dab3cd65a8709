package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/docbuddy/docbuddy/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patientResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	WhatsAppNumber string `json:"whatsappNumber"`
	UpdatedAt      string `json:"updatedAt"`
}

func doJSON(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestPatientHandler_CRUD(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewDoctorBuilder().BuildAndAuthenticate(t, ts)

	// Create
	resp := doJSON(t, http.MethodPost, ts.APIURL("/patients"), token, map[string]interface{}{
		"name": "Jane",
		"age":  30,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created patientResponse
	testutil.AssertJSONResponse(t, resp, &created)
	assert.Equal(t, "Jane", created.Name)
	assert.NotEmpty(t, created.ID)

	// List includes it
	resp = doJSON(t, http.MethodGet, ts.APIURL("/patients"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var listed []patientResponse
	testutil.AssertJSONResponse(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// Get
	resp = doJSON(t, http.MethodGet, ts.APIURL("/patients/"+created.ID), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Update
	resp = doJSON(t, http.MethodPut, ts.APIURL("/patients/"+created.ID), token, map[string]interface{}{
		"name": "Jane",
		"age":  31,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated patientResponse
	testutil.AssertJSONResponse(t, resp, &updated)
	assert.Equal(t, 31, updated.Age)

	// Delete
	resp = doJSON(t, http.MethodDelete, ts.APIURL("/patients/"+created.ID), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Gone
	resp = doJSON(t, http.MethodGet, ts.APIURL("/patients/"+created.ID), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestPatientHandler_CrossOwner(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner, ownerToken := testutil.NewDoctorBuilder().BuildAndAuthenticate(t, ts)
	_, intruderToken := testutil.NewDoctorBuilder().BuildAndAuthenticate(t, ts)

	patient := testutil.NewPatientBuilder(owner.ID).WithName("Secret").Build(t, ts.DB.DB)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{name: "get", method: http.MethodGet, path: "/patients/" + patient.ID.String()},
		{name: "update", method: http.MethodPut, path: "/patients/" + patient.ID.String(),
			body: map[string]interface{}{"name": "Hijacked", "age": 1}},
		{name: "delete", method: http.MethodDelete, path: "/patients/" + patient.ID.String()},
		{name: "prescribe", method: http.MethodPost, path: "/patients/" + patient.ID.String() + "/prescription",
			body: map[string]interface{}{"medication": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, tt.method, ts.APIURL(tt.path), intruderToken, tt.body)
			defer resp.Body.Close()
			testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Patient not found")
		})
	}

	// Owner still has the record
	resp := doJSON(t, http.MethodGet, ts.APIURL("/patients/"+patient.ID.String()), ownerToken, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}

func TestPatientHandler_Search(t *testing.T) {
	ts := testutil.NewTestServer(t)
	doctor, token := testutil.NewDoctorBuilder().BuildAndAuthenticate(t, ts)

	testutil.NewPatientBuilder(doctor.ID).
		WithName("Jane Roberts").
		WithWhatsAppNumber("+15551230001").
		Build(t, ts.DB.DB)
	testutil.NewPatientBuilder(doctor.ID).
		WithName("John Smith").
		WithWhatsAppNumber("+15559870002").
		Build(t, ts.DB.DB)

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{
			name:      "name filter",
			query:     "name=Robert",
			wantCount: 1,
		},
		{
			name:      "phone filter",
			query:     "phone=555987",
			wantCount: 1,
		},
		{
			name:      "no filters",
			query:     "",
			wantCount: 2,
		},
		{
			name:      "injection attempt returns nothing and breaks nothing",
			query:     "name=" + url.QueryEscape("Robert'); DROP TABLE patients;--"),
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, ts.APIURL("/patients/search?"+tt.query), token, nil)
			defer resp.Body.Close()
			testutil.AssertStatusCode(t, resp, http.StatusOK)

			var results []patientResponse
			testutil.AssertJSONResponse(t, resp, &results)
			assert.Len(t, results, tt.wantCount)
		})
	}

	// Table survived the injection attempt
	resp := doJSON(t, http.MethodGet, ts.APIURL("/patients"), token, nil)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var all []patientResponse
	testutil.AssertJSONResponse(t, resp, &all)
	assert.Len(t, all, 2)
}

func TestPatientHandler_ListLimit(t *testing.T) {
	ts := testutil.NewTestServer(t)
	doctor, token := testutil.NewDoctorBuilder().BuildAndAuthenticate(t, ts)

	for i := 0; i < 12; i++ {
		testutil.NewPatientBuilder(doctor.ID).Build(t, ts.DB.DB)
	}

	// Default page size applies
	resp := doJSON(t, http.MethodGet, ts.APIURL("/patients"), token, nil)
	defer resp.Body.Close()
	var defaulted []patientResponse
	testutil.AssertJSONResponse(t, resp, &defaulted)
	assert.Len(t, defaulted, ts.Config.DefaultPageSize)

	// Explicit limit applies
	resp = doJSON(t, http.MethodGet, ts.APIURL(fmt.Sprintf("/patients?limit=%d", 3)), token, nil)
	defer resp.Body.Close()
	var limited []patientResponse
	testutil.AssertJSONResponse(t, resp, &limited)
	assert.Len(t, limited, 3)
}

func TestPatientHandler_RequiresAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/patients"))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestPatientHandler_Prescribe(t *testing.T) {
	ts := testutil.NewTestServer(t)
	doctor, token := testutil.NewDoctorBuilder().BuildAndAuthenticate(t, ts)

	patient := testutil.NewPatientBuilder(doctor.ID).WithName("Rx Patient").Build(t, ts.DB.DB)

	resp := doJSON(t, http.MethodPost, ts.APIURL("/patients/"+patient.ID.String()+"/prescription"), token, map[string]interface{}{
		"medication":   "Amoxicillin",
		"dosage":       "500mg",
		"instructions": "Three times daily",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result struct {
		Patient    patientResponse `json:"patient"`
		Medication string          `json:"medication"`
		IssuedAt   string          `json:"issuedAt"`
	}
	testutil.AssertJSONResponse(t, resp, &result)
	assert.Equal(t, "Rx Patient", result.Patient.Name)
	assert.Equal(t, "Amoxicillin", result.Medication)
	assert.NotEmpty(t, result.IssuedAt)
}
