package main

import (
	"errors"
	"net/http"
	"os"

	logger "github.com/Financial-Times/go-logger/v2"
	"github.com/cbv-explorer/thesaurus-graph-transformer/thesaurus"
	"github.com/gorilla/mux"
	cli "github.com/jawher/mow.cli"
)

const appDescription = "Converts a SKOS/RDF multilingual thesaurus into a unified keyword relationship graph and serves the generated artifacts for browser-side rendering"

func main() {
	app := cli.App("thesaurus-graph-transformer", appDescription)

	appSystemCode := app.String(cli.StringOpt{
		Name:   "app-system-code",
		Value:  "thesaurus-graph-transformer",
		Desc:   "System Code of the application",
		EnvVar: "APP_SYSTEM_CODE",
	})
	appName := app.String(cli.StringOpt{
		Name:   "app-name",
		Value:  "Thesaurus Graph Transformer",
		Desc:   "Application name",
		EnvVar: "APP_NAME",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "INFO",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})
	input := app.String(cli.StringOpt{
		Name:   "input",
		Value:  "thesaurus.rdf",
		Desc:   "Path to the SKOS RDF/XML source document",
		EnvVar: "THESAURUS_INPUT",
	})
	dataOutput := app.String(cli.StringOpt{
		Name:   "dataOutput",
		Value:  "thesaurus_data.json",
		Desc:   "Path of the unified concept data file to generate",
		EnvVar: "THESAURUS_DATA_OUTPUT",
	})
	indexOutput := app.String(cli.StringOpt{
		Name:   "indexOutput",
		Value:  "keyword_index.json",
		Desc:   "Path of the keyword search index file to generate",
		EnvVar: "THESAURUS_INDEX_OUTPUT",
	})
	displayLanguage := app.String(cli.StringOpt{
		Name:   "displayLanguage",
		Value:  "en",
		Desc:   "Language code used for primary labels; other languages become translations",
		EnvVar: "THESAURUS_DISPLAY_LANGUAGE",
	})
	port := app.String(cli.StringOpt{
		Name:   "port",
		Value:  "8000",
		Desc:   "Port to listen on when serving",
		EnvVar: "APP_PORT",
	})
	staticDir := app.String(cli.StringOpt{
		Name:   "staticDir",
		Value:  ".",
		Desc:   "Directory of static assets served alongside the generated data files",
		EnvVar: "STATIC_DIR",
	})

	runTransform := func() {
		log := logger.NewUPPLogger(*appName, *logLevel)
		log.Infof("[Startup] %s is starting a transform run", *appName)
		log.Infof("System code: %s, App Name: %s", *appSystemCode, *appName)

		transformer := thesaurus.NewTransformerService(*input, *dataOutput, *indexOutput, *displayLanguage, log)
		if _, err := transformer.Run(); err != nil {
			log.WithError(err).Error("Thesaurus transform failed")
			cli.Exit(exitCode(err))
		}
	}

	runServe := func() {
		log := logger.NewUPPLogger(*appName, *logLevel)
		log.Infof("[Startup] %s is starting on port %s", *appName, *port)

		for _, required := range []string{*dataOutput, *indexOutput} {
			if _, err := os.Stat(required); err != nil {
				log.Warnf("Required file %s is missing; run a transform first", required)
			}
		}

		handler := thesaurus.NewServerHandler(*staticDir, *dataOutput, *indexOutput, log)
		router := mux.NewRouter()
		handler.RegisterAdminHandlers(router, *appSystemCode, *appName, appDescription)
		handler.RegisterHandlers(router)

		if err := http.ListenAndServe(":"+*port, nil); err != nil {
			log.WithError(err).Fatal("Unable to start server")
		}
	}

	app.Command("transform", "Parse the thesaurus document and regenerate the graph data files", func(cmd *cli.Cmd) {
		cmd.Action = runTransform
	})
	app.Command("serve", "Serve the generated data files and static assets over HTTP", func(cmd *cli.Cmd) {
		cmd.Action = runServe
	})
	app.Action = runTransform

	if runErr := app.Run(os.Args); runErr != nil {
		logger.NewUPPLogger(*appName, *logLevel).Errorf("App could not start, error=[%s]\n", runErr)
		os.Exit(1)
	}
}

func exitCode(err error) int {
	var parseErr *thesaurus.ParseError
	var writeErr *thesaurus.WriteError
	switch {
	case errors.As(err, &parseErr):
		return 2
	case errors.Is(err, thesaurus.ErrEmptySource):
		return 3
	case errors.As(err, &writeErr):
		return 4
	}
	return 1
}
