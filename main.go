package main

import (
	"net/http"
	"os"

	"facet-config-service/config"
	"facet-config-service/router"
	"facet-config-service/services"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "facet-config-service",
	Short: "Serve facet set rendering for Solr and Elasticsearch",
	RunE:  runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the TOML config file")
	rootCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address, overrides the config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	qb, err := services.LoadFieldMappings(cfg.MappingsFile)
	if err != nil {
		return err
	}
	svc := services.NewFacetService(qb, cfg.PresetOptions())

	r := router.NewRouter(svc, cfg.Index)

	log.WithFields(log.Fields{
		"listen":  cfg.Listen,
		"presets": len(cfg.Presets),
		"fields":  len(qb.FieldMappings),
	}).Info("Server is running")
	return http.ListenAndServe(cfg.Listen, r)
}
