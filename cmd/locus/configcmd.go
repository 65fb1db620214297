package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configInitOutput string
	configInitForce  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default configuration file",
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "config.yaml", "output file")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if !configInitForce {
		if _, err := os.Stat(configInitOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configInitOutput)
		}
	}

	data, err := yaml.Marshal(defaultConfigDocument())
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}

	if err := os.WriteFile(configInitOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configInitOutput, err)
	}

	fmt.Printf("wrote %s\n", configInitOutput)
	return nil
}

// defaultConfigDocument builds the default configuration as a yaml.Node tree
// so every section carries an explanatory comment in the output.
func defaultConfigDocument() *yaml.Node {
	doc := mapping()
	doc.HeadComment = "Locus configuration. All values can be overridden with LOCUS_* environment\nvariables, e.g. LOCUS_SERVER_PORT=9000."

	addSection(doc, "server", "HTTP server", mappingOf(
		"host", "0.0.0.0",
		"port", 8080,
		"read_timeout", "30s",
		"write_timeout", "30s",
		"shutdown_timeout", "10s",
	))
	addSection(doc, "storage", "Where geoset (.wkt) files come from: local, s3, azure or http", mappingOf(
		"type", "local",
		"local_path", "./data",
	))
	addSection(doc, "index", "SQLite spatial index. Empty path keeps the index in memory", mappingOf(
		"path", "",
	))
	addSection(doc, "query", "Query behavior", mappingOf(
		"default_srid", 4326,
		"max_matches", 1000,
		"with_wkt", false,
	))
	addSection(doc, "sync", "Periodic storage synchronization", mappingOf(
		"enabled", false,
		"interval", "5m",
	))
	addSection(doc, "tls", "Automatic TLS via Let's Encrypt (requires public DNS)", mappingOf(
		"enabled", false,
		"domains", []string{},
		"email", "",
	))
	addSection(doc, "metrics", "Prometheus metrics endpoint on a separate port", mappingOf(
		"enabled", false,
		"port", 9090,
		"path", "/metrics",
	))
	addSection(doc, "logging", "Log level (debug, info, warn, error) and format (json, text)", mappingOf(
		"level", "info",
		"format", "json",
	))

	return doc
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func mappingOf(pairs ...any) *yaml.Node {
	m := mapping()
	for i := 0; i+1 < len(pairs); i += 2 {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: pairs[i].(string)}
		value := &yaml.Node{}
		if err := value.Encode(pairs[i+1]); err != nil {
			value = &yaml.Node{Kind: yaml.ScalarNode, Value: ""}
		}
		m.Content = append(m.Content, key, value)
	}
	return m
}

func addSection(doc *yaml.Node, name, comment string, value *yaml.Node) {
	key := &yaml.Node{Kind: yaml.ScalarNode, Value: name, HeadComment: comment}
	doc.Content = append(doc.Content, key, value)
}
