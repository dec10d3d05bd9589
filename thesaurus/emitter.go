package thesaurus

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Emit serializes the concept set and the keyword index to their output
// paths. Output is byte-for-byte deterministic for identical input: map keys
// are marshalled in sorted order and every array arrives pre-sorted from the
// normalizer. Both artifacts are staged as temp files in their destination
// directories and only renamed into place once both writes have succeeded,
// so a failed run never leaves a partial file behind and never replaces one
// artifact of the pair without the other.
func Emit(concepts map[string]Concept, index []KeywordIndexEntry, dataPath string, indexPath string) error {
	dataJSON, err := json.MarshalIndent(concepts, "", "  ")
	if err != nil {
		return &WriteError{Path: dataPath, Err: err}
	}
	indexJSON, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return &WriteError{Path: indexPath, Err: err}
	}

	dataTemp, err := stageTemp(dataPath, append(dataJSON, '\n'))
	if err != nil {
		return err
	}
	indexTemp, err := stageTemp(indexPath, append(indexJSON, '\n'))
	if err != nil {
		os.Remove(dataTemp)
		return err
	}

	// The previous data file is parked under a backup name until the index
	// rename has also succeeded, so readers never see a new data file paired
	// with a stale index.
	dataBackup := dataPath + ".bak"
	hadData := true
	if err := os.Rename(dataPath, dataBackup); err != nil {
		if !os.IsNotExist(err) {
			os.Remove(dataTemp)
			os.Remove(indexTemp)
			return &WriteError{Path: dataPath, Err: err}
		}
		hadData = false
	}

	if err := os.Rename(dataTemp, dataPath); err != nil {
		if hadData {
			os.Rename(dataBackup, dataPath)
		}
		os.Remove(dataTemp)
		os.Remove(indexTemp)
		return &WriteError{Path: dataPath, Err: err}
	}
	if err := os.Rename(indexTemp, indexPath); err != nil {
		os.Remove(dataPath)
		if hadData {
			os.Rename(dataBackup, dataPath)
		}
		os.Remove(indexTemp)
		return &WriteError{Path: indexPath, Err: err}
	}

	if hadData {
		os.Remove(dataBackup)
	}
	return nil
}

func stageTemp(dest string, content []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp*")
	if err != nil {
		return "", &WriteError{Path: dest, Err: err}
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", &WriteError{Path: dest, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", &WriteError{Path: dest, Err: err}
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		os.Remove(f.Name())
		return "", &WriteError{Path: dest, Err: err}
	}
	return f.Name(), nil
}
