package thesaurus

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/Financial-Times/go-logger/v2"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Browsers fetch the generated JSON from a file:// rendered page in local
// setups, so every response carries permissive CORS headers.
var contentTypes = map[string]string{
	".json": "application/json",
	".html": "text/html",
	".js":   "application/javascript",
	".css":  "text/css",
}

// ThesaurusServerHandler serves the generated data files and the static
// browser assets. It never writes; the output files are immutable snapshots
// regenerated only by a transform run.
type ThesaurusServerHandler struct {
	staticDir string
	dataPath  string
	indexPath string
	log       *logger.UPPLogger
}

func NewServerHandler(staticDir string, dataPath string, indexPath string, log *logger.UPPLogger) ThesaurusServerHandler {
	return ThesaurusServerHandler{
		staticDir: staticDir,
		dataPath:  dataPath,
		indexPath: indexPath,
		log:       log,
	}
}

func (h *ThesaurusServerHandler) ServeFileHandler(rw http.ResponseWriter, req *http.Request) {
	tid := transactionidutils.GetTransactionIDFromRequest(req)
	rw.Header().Set("X-Request-Id", tid)
	setCORSHeaders(rw)

	urlPath := req.URL.Path
	if urlPath == "/" {
		urlPath = "/index.html"
	}
	cleaned := filepath.Clean(urlPath)
	if strings.Contains(cleaned, "..") {
		http.NotFound(rw, req)
		return
	}

	f, err := os.Open(filepath.Join(h.staticDir, cleaned))
	if err != nil {
		http.NotFound(rw, req)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(rw, req)
		return
	}

	if contentType, ok := contentTypes[filepath.Ext(cleaned)]; ok {
		rw.Header().Set("Content-Type", contentType)
	}
	http.ServeContent(rw, req, cleaned, info.ModTime(), f)
}

func (h *ThesaurusServerHandler) PreflightHandler(rw http.ResponseWriter, req *http.Request) {
	setCORSHeaders(rw)
	rw.WriteHeader(http.StatusNoContent)
}

func setCORSHeaders(rw http.ResponseWriter) {
	rw.Header().Set("Access-Control-Allow-Origin", "*")
	rw.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	rw.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (h *ThesaurusServerHandler) RegisterHandlers(router *mux.Router) {
	h.log.Info("Registering handlers")
	staticFiles := handlers.MethodHandler{
		"GET":     http.HandlerFunc(h.ServeFileHandler),
		"HEAD":    http.HandlerFunc(h.ServeFileHandler),
		"OPTIONS": http.HandlerFunc(h.PreflightHandler),
	}
	router.PathPrefix("/").Handler(staticFiles)
}
