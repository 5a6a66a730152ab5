package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/telekom/das-schiff-irr-resolver/pkg/helpers/slice"
	"github.com/telekom/das-schiff-irr-resolver/pkg/prefixlist"
	"sigs.k8s.io/yaml"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var outputFormats = []string{outputText, outputJSON, outputYAML}

// printOutput writes v in the requested format. The text format prints one
// record per line.
func printOutput(w io.Writer, format string, v interface{}) error {
	if !slice.Contains(outputFormats, format) {
		return fmt.Errorf("unsupported output format %q", format)
	}

	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshalling output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("error marshalling output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return printText(w, v)
	}
}

func printText(w io.Writer, v interface{}) error {
	switch value := v.(type) {
	case []string:
		for _, line := range value {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	case *prefixlist.PrefixSet:
		for _, section := range []struct {
			name    string
			entries []string
		}{{"ipv6", value.IPv6}, {"ipv4", value.IPv4}} {
			if _, err := fmt.Fprintf(w, "# %s\n", section.name); err != nil {
				return err
			}
			if err := printText(w, section.entries); err != nil {
				return err
			}
		}
	default:
		_, err := fmt.Fprintf(w, "%v\n", value)
		return err
	}
	return nil
}
