package thesaurus

import (
	logger "github.com/Financial-Times/go-logger/v2"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
)

// TransformerService runs the full Loader -> Normalizer -> Emitter pipeline.
// The concept set lives only for the duration of a run; each run fully
// regenerates both output files from the source document.
type TransformerService struct {
	inputPath       string
	dataOutputPath  string
	indexOutputPath string
	displayLanguage string
	log             *logger.UPPLogger
}

func NewTransformerService(inputPath string, dataOutputPath string, indexOutputPath string, displayLanguage string, log *logger.UPPLogger) TransformerService {
	return TransformerService{
		inputPath:       inputPath,
		dataOutputPath:  dataOutputPath,
		indexOutputPath: indexOutputPath,
		displayLanguage: displayLanguage,
		log:             log,
	}
}

func (ts *TransformerService) Run() (Report, error) {
	tid := transactionidutils.NewTransactionID()
	ts.log.WithFields(map[string]interface{}{"transaction_id": tid, "input": ts.inputPath}).Info("Loading thesaurus document")

	bag, err := LoadThesaurus(ts.inputPath, ts.log)
	if err != nil {
		ts.log.WithError(err).WithField("transaction_id", tid).Error("Failed to load thesaurus document")
		return Report{}, err
	}

	concepts, index, report := Normalize(bag, ts.displayLanguage, tid, ts.log)

	if err := Emit(concepts, index, ts.dataOutputPath, ts.indexOutputPath); err != nil {
		ts.log.WithError(err).WithField("transaction_id", tid).Error("Failed to write output files")
		return report, err
	}

	ts.log.WithFields(map[string]interface{}{
		"transaction_id":         tid,
		"concepts":               report.Concepts,
		"collections":            report.Collections,
		"droppedEdges":           report.DroppedEdges,
		"duplicateLabels":        report.DuplicateLabels,
		"withoutTranslations":    report.WithoutTranslations,
		"withoutRelationships":   report.WithoutRelationships,
		"excludedNoLabels":       report.ExcludedNoLabels,
		"unrecognizedPredicates": report.UnrecognizedPredicates,
	}).Infof("Thesaurus transform complete; wrote %s and %s", ts.dataOutputPath, ts.indexOutputPath)

	return report, nil
}
