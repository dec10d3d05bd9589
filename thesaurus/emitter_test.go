package thesaurus

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func transformFixture(t *testing.T) (map[string]Concept, []KeywordIndexEntry) {
	bag, err := LoadThesaurus("../resources/thesaurus.rdf", createLogger())
	assert.NoError(t, err)
	concepts, index, _ := Normalize(bag, "en", "tid_test", createLogger())
	return concepts, index
}

func TestEmitDeterministicOutput(t *testing.T) {
	concepts, index := transformFixture(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "thesaurus_data.json")
	indexPath := filepath.Join(dir, "keyword_index.json")

	assert.NoError(t, Emit(concepts, index, dataPath, indexPath))
	firstData, err := os.ReadFile(dataPath)
	assert.NoError(t, err)
	firstIndex, err := os.ReadFile(indexPath)
	assert.NoError(t, err)

	assert.NoError(t, Emit(concepts, index, dataPath, indexPath))
	secondData, err := os.ReadFile(dataPath)
	assert.NoError(t, err)
	secondIndex, err := os.ReadFile(indexPath)
	assert.NoError(t, err)

	assert.Equal(t, firstData, secondData, "regenerating without source changes must produce no diff")
	assert.Equal(t, firstIndex, secondIndex, "regenerating without source changes must produce no diff")
}

func TestEmitDataFileKeyedByIDInSortedOrder(t *testing.T) {
	concepts, index := transformFixture(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "thesaurus_data.json")

	assert.NoError(t, Emit(concepts, index, dataPath, filepath.Join(dir, "keyword_index.json")))
	raw, err := os.ReadFile(dataPath)
	assert.NoError(t, err)

	content := string(raw)
	var previous int
	for _, id := range []string{"duty", "embargo", "quota", "tariff", "trade-measures", "trade-policy"} {
		position := strings.Index(content, "\n  \""+id+"\": {")
		assert.True(t, position > previous, "key "+id+" out of order")
		previous = position
	}
}

func TestEmitRoundTrip(t *testing.T) {
	concepts, index := transformFixture(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "thesaurus_data.json")
	indexPath := filepath.Join(dir, "keyword_index.json")

	assert.NoError(t, Emit(concepts, index, dataPath, indexPath))

	rawData, err := os.ReadFile(dataPath)
	assert.NoError(t, err)
	var decodedConcepts map[string]Concept
	assert.NoError(t, json.Unmarshal(rawData, &decodedConcepts))
	assert.Equal(t, concepts, decodedConcepts, "the data file must load back without further transformation")

	rawIndex, err := os.ReadFile(indexPath)
	assert.NoError(t, err)
	var decodedIndex []KeywordIndexEntry
	assert.NoError(t, json.Unmarshal(rawIndex, &decodedIndex))
	assert.Equal(t, index, decodedIndex)
}

func TestEmitWriteErrorLeavesNoPartialOutput(t *testing.T) {
	concepts, index := transformFixture(t)
	dir := t.TempDir()

	type testStruct struct {
		testName  string
		dataPath  string
		indexPath string
	}

	unwritableDataPath := testStruct{testName: "unwritableDataPath", dataPath: filepath.Join(dir, "missing", "thesaurus_data.json"), indexPath: filepath.Join(dir, "keyword_index.json")}
	unwritableIndexPath := testStruct{testName: "unwritableIndexPath", dataPath: filepath.Join(dir, "thesaurus_data.json"), indexPath: filepath.Join(dir, "missing", "keyword_index.json")}

	testScenarios := []testStruct{unwritableDataPath, unwritableIndexPath}

	for _, scenario := range testScenarios {
		err := Emit(concepts, index, scenario.dataPath, scenario.indexPath)

		var writeErr *WriteError
		assert.True(t, errors.As(err, &writeErr), "Scenario: "+scenario.testName+" failed")

		_, statErr := os.Stat(scenario.dataPath)
		assert.True(t, os.IsNotExist(statErr), "Scenario: "+scenario.testName+" failed: data file should not exist")
		_, statErr = os.Stat(scenario.indexPath)
		assert.True(t, os.IsNotExist(statErr), "Scenario: "+scenario.testName+" failed: index file should not exist")
	}

	leftovers, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, leftovers, "failed runs must not leave temp files behind")
}

func TestEmitFailedIndexRenameKeepsPreviousSnapshot(t *testing.T) {
	concepts, index := transformFixture(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "thesaurus_data.json")
	indexPath := filepath.Join(dir, "keyword_index.json")

	assert.NoError(t, Emit(concepts, index, dataPath, indexPath))
	previousData, err := os.ReadFile(dataPath)
	assert.NoError(t, err)

	// A directory at the index path makes its rename fail after the data
	// file has already been staged.
	assert.NoError(t, os.Remove(indexPath))
	assert.NoError(t, os.Mkdir(indexPath, 0755))

	changed := map[string]Concept{}
	for id, concept := range concepts {
		if id != "duty" {
			changed[id] = concept
		}
	}

	err = Emit(changed, index, dataPath, indexPath)
	var writeErr *WriteError
	assert.True(t, errors.As(err, &writeErr))

	currentData, err := os.ReadFile(dataPath)
	assert.NoError(t, err)
	assert.Equal(t, previousData, currentData, "data file must roll back when the index cannot be replaced")

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{"thesaurus_data.json", "keyword_index.json"}, names, "no backup or temp files may remain")
}
