// Command facetctl renders a configured facet set preset without starting
// the service.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"facet-config-service/config"
	"facet-config-service/models"
	"facet-config-service/services"

	"github.com/spf13/cobra"
)

var (
	configPath string
	preset     string
	format     string
	index      string
)

var rootCmd = &cobra.Command{
	Use:          "facetctl",
	Short:        "Inspect facet set presets",
	SilenceUsage: true,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a preset as Solr parameters or an Elasticsearch request",
	RunE:  runRender,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured presets",
	RunE:  runList,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the TOML config file")
	renderCmd.Flags().StringVarP(&preset, "preset", "p", "default", "preset to render")
	renderCmd.Flags().StringVarP(&format, "format", "f", services.FormatSolr, "output format: solr or elasticsearch")
	renderCmd.Flags().StringVar(&index, "index", "", "Elasticsearch index, defaults to the configured index")
	rootCmd.AddCommand(renderCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newService() (*services.FacetService, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	qb, err := services.LoadFieldMappings(cfg.MappingsFile)
	if err != nil {
		return nil, nil, err
	}
	return services.NewFacetService(qb, cfg.PresetOptions()), cfg, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	for _, name := range svc.Presets() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}
	fs, err := svc.Preset(preset)
	if err != nil {
		return fmt.Errorf("failed to build preset: %w", err)
	}

	switch format {
	case services.FormatSolr:
		params, err := svc.RenderSolr(fs)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), params.Encode())
		return nil
	case services.FormatElasticsearch:
		if index == "" {
			index = cfg.Index
		}
		req, err := svc.RenderElasticsearch(models.GetIndexInfo(models.IndexName{Index: index}), fs)
		if err != nil {
			return err
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(map[string]interface{}{
			"index": req.Index,
			"body":  json.RawMessage(body),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
