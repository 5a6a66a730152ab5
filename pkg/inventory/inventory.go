// Package inventory collects the prefixes of a list of autonomous systems in
// one run.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/telekom/das-schiff-irr-resolver/pkg/prefixlist"
	"gopkg.in/yaml.v2"
	"sigs.k8s.io/controller-runtime/pkg/log"
	sigsyaml "sigs.k8s.io/yaml"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type Inventory struct {
	AutonomousSystems []AutonomousSystem `yaml:"autonomousSystems"`
}

type AutonomousSystem struct {
	ASN      uint32 `yaml:"asn"`
	Name     string `yaml:"name"`
	IRRAsSet string `yaml:"irrAsSet"`
}

type Result struct {
	ASN      uint32                `json:"asn"`
	Name     string                `json:"name,omitempty"`
	Prefixes *prefixlist.PrefixSet `json:"prefixes,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// PrefixCollector resolves both address families of an AS.
type PrefixCollector interface {
	AllPrefixes(ctx context.Context, asn uint32, rawAsSet string) (*prefixlist.PrefixSet, error)
}

// Load reads an inventory file.
func Load(path string) (*Inventory, error) {
	read, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading inventory %s: %w", path, err)
	}
	inv := &Inventory{}
	if err := yaml.UnmarshalStrict(read, inv); err != nil {
		return nil, fmt.Errorf("error unmarshalling inventory %s: %w", path, err)
	}
	for i, as := range inv.AutonomousSystems {
		if as.ASN == 0 {
			return nil, fmt.Errorf("autonomous system #%d has no asn", i)
		}
	}
	return inv, nil
}

type Runner struct {
	logr.Logger
	collector PrefixCollector
}

func NewRunner(collector PrefixCollector) *Runner {
	return &Runner{
		Logger:    log.Log.WithName("inventory"),
		collector: collector,
	}
}

// Run collects the prefixes of every autonomous system one after the other.
// A failing AS is recorded in its result and does not stop the run.
func (r *Runner) Run(ctx context.Context, inv *Inventory) []Result {
	r.Logger.Info("getting prefixes for autonomous systems with IRR AS-SETs", "count", len(inv.AutonomousSystems))

	results := make([]Result, 0, len(inv.AutonomousSystems))
	for _, as := range inv.AutonomousSystems {
		if ctx.Err() != nil {
			results = append(results, Result{ASN: as.ASN, Name: as.Name, Error: ctx.Err().Error()})
			continue
		}

		start := time.Now()
		set, err := r.collector.AllPrefixes(ctx, as.ASN, as.IRRAsSet)
		if err != nil {
			r.Logger.Error(err, "error getting prefixes", "asn", as.ASN, "name", as.Name)
			results = append(results, Result{ASN: as.ASN, Name: as.Name, Error: err.Error()})
			continue
		}
		r.Logger.Info("got prefixes", "asn", as.ASN, "ipv6", len(set.IPv6), "ipv4", len(set.IPv4),
			"duration", time.Since(start))
		results = append(results, Result{ASN: as.ASN, Name: as.Name, Prefixes: set})
	}
	return results
}

// Failed returns the number of results holding an error.
func Failed(results []Result) int {
	failed := 0
	for i := range results {
		if results[i].Error != "" {
			failed++
		}
	}
	return failed
}

// Write encodes results as YAML or JSON.
func Write(w io.Writer, results []Result, format string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling results: %w", err)
	}
	switch format {
	case FormatJSON:
		data = append(data, '\n')
	case FormatYAML, "":
		if data, err = sigsyaml.JSONToYAML(data); err != nil {
			return fmt.Errorf("error converting results to yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	return nil
}
