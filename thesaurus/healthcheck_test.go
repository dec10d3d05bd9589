package thesaurus

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

const expectedContentType = "application/json"

func TestAdminHandlersHealthy(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "thesaurus_data.json")
	indexPath := filepath.Join(dir, "keyword_index.json")
	assert.NoError(t, os.WriteFile(dataPath, []byte("{}"), 0644))
	assert.NoError(t, os.WriteFile(indexPath, []byte("[]"), 0644))

	handler := NewServerHandler(dir, dataPath, indexPath, createLogger())
	router := mux.NewRouter()
	handler.RegisterAdminHandlers(router, "thesaurus-graph-transformer", "Thesaurus Graph Transformer", "My first app")

	type testStruct struct {
		endpoint           string
		expectedStatusCode int
		expectedBody       string
	}

	buildInfoChecker := testStruct{endpoint: "/__build-info", expectedStatusCode: 200, expectedBody: "Version  is not a semantic version"}
	gtgChecker := testStruct{endpoint: "/__gtg", expectedStatusCode: 200, expectedBody: ""}
	healthChecker := testStruct{endpoint: "/__health", expectedStatusCode: 200, expectedBody: ""}

	testScenarios := []testStruct{buildInfoChecker, gtgChecker, healthChecker}

	for _, scenario := range testScenarios {
		rec := httptest.NewRecorder()
		http.DefaultServeMux.ServeHTTP(rec, newRequest("GET", scenario.endpoint, ""))
		assert.Equal(t, scenario.expectedStatusCode, rec.Code)
		assert.Contains(t, rec.Body.String(), scenario.expectedBody)
	}
}

func TestGtgFailsWhenArtifactsMissing(t *testing.T) {
	handler := NewServerHandler(".", "/nonexistent/thesaurus_data.json", "/nonexistent/keyword_index.json", createLogger())

	status := handler.gtg()

	assert.False(t, status.GoodToGo)
	assert.Contains(t, status.Message, "not available")
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.json")
	assert.NoError(t, os.WriteFile(present, []byte("{}"), 0644))

	type testStruct struct {
		testName      string
		path          string
		expectedError bool
	}

	fileIsPresent := testStruct{testName: "fileIsPresent", path: present, expectedError: false}
	fileIsMissing := testStruct{testName: "fileIsMissing", path: filepath.Join(dir, "missing.json"), expectedError: true}
	fileIsDirectory := testStruct{testName: "fileIsDirectory", path: dir, expectedError: true}

	testScenarios := []testStruct{fileIsPresent, fileIsMissing, fileIsDirectory}

	for _, scenario := range testScenarios {
		_, err := checkFile(scenario.path)
		if scenario.expectedError {
			assert.Error(t, err, "Scenario: "+scenario.testName+" failed")
		} else {
			assert.NoError(t, err, "Scenario: "+scenario.testName+" failed")
		}
	}
}

func newRequest(method, url string, body string) *http.Request {
	var payload io.Reader
	if body != "" {
		payload = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, payload)
	req.Header = map[string][]string{
		"Content-Type": {expectedContentType},
	}
	if err != nil {
		panic(err)
	}
	return req
}
