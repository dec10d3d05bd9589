package thesaurus

import (
	"fmt"
	"net/http"
	"os"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/http-handlers-go/httphandlers"
	"github.com/Financial-Times/service-status-go/gtg"
	serviceStatus "github.com/Financial-Times/service-status-go/httphandlers"
	"github.com/gorilla/mux"
	metrics "github.com/rcrowley/go-metrics"
)

const (
	panicGuideURL  = "https://github.com/cbv-explorer/thesaurus-graph-transformer"
	businessImpact = "The keyword relationship graph cannot be browsed until the generated data files are available again"
)

func (h *ThesaurusServerHandler) RegisterAdminHandlers(router *mux.Router, appSystemCode string, appName string, appDescription string) {
	h.log.Info("Registering admin handlers")

	var monitoringRouter http.Handler = router
	monitoringRouter = httphandlers.TransactionAwareRequestLoggingHandler(h.log.Logger, monitoringRouter)
	monitoringRouter = httphandlers.HTTPMetricsHandler(metrics.DefaultRegistry, monitoringRouter)

	var checks = []fthealth.Check{h.dataFileHealthCheck(), h.indexFileHealthCheck()}

	timedHC := fthealth.TimedHealthCheck{
		HealthCheck: fthealth.HealthCheck{
			SystemCode:  appSystemCode,
			Description: appDescription,
			Name:        appName,
			Checks:      checks,
		},
		Timeout: 10 * time.Second,
	}

	http.HandleFunc("/__health", fthealth.Handler(&timedHC))
	http.HandleFunc(serviceStatus.GTGPath, serviceStatus.NewGoodToGoHandler(gtg.StatusChecker(h.gtg)))
	http.HandleFunc(serviceStatus.BuildInfoPath, serviceStatus.BuildInfoHandler)

	http.Handle("/", monitoringRouter)
}

func (h *ThesaurusServerHandler) gtg() gtg.Status {
	dataFileCheck := func() gtg.Status {
		return gtgCheck(h.checkDataFile)
	}

	indexFileCheck := func() gtg.Status {
		return gtgCheck(h.checkIndexFile)
	}

	return gtg.FailFastParallelCheck([]gtg.StatusChecker{
		dataFileCheck,
		indexFileCheck,
	})()
}

func gtgCheck(handler func() (string, error)) gtg.Status {
	if _, err := handler(); err != nil {
		return gtg.Status{GoodToGo: false, Message: err.Error()}
	}
	return gtg.Status{GoodToGo: true}
}

func (h *ThesaurusServerHandler) dataFileHealthCheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   businessImpact,
		Name:             "Check presence of the unified concept data file",
		PanicGuide:       panicGuideURL,
		Severity:         3,
		TechnicalSummary: `Check that the transform has been run and that its output directory is readable; rerun the transform if the file is missing`,
		Checker:          h.checkDataFile,
	}
}

func (h *ThesaurusServerHandler) indexFileHealthCheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   businessImpact,
		Name:             "Check presence of the keyword index file",
		PanicGuide:       panicGuideURL,
		Severity:         3,
		TechnicalSummary: `Check that the transform has been run and that its output directory is readable; rerun the transform if the file is missing`,
		Checker:          h.checkIndexFile,
	}
}

func (h *ThesaurusServerHandler) checkDataFile() (string, error) {
	return checkFile(h.dataPath)
}

func (h *ThesaurusServerHandler) checkIndexFile() (string, error) {
	return checkFile(h.indexPath)
}

func checkFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("generated file %s is not available: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("generated file %s is a directory", path)
	}
	return fmt.Sprintf("Found %s (%d bytes)", path, info.Size()), nil
}
