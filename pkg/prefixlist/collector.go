// Package prefixlist builds prefix lists and member lists of autonomous
// systems out of their IRR AS-SETs.
package prefixlist

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/go-logr/logr"
	"github.com/telekom/das-schiff-irr-resolver/pkg/config"
	"github.com/telekom/das-schiff-irr-resolver/pkg/helpers/slice"
	"github.com/telekom/das-schiff-irr-resolver/pkg/irr"
	"go4.org/netipx"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Resolver runs a single IRR expansion.
type Resolver interface {
	Resolve(ctx context.Context, op irr.Operation, subject string, family irr.AddressFamily) ([]string, error)
}

type Options struct {
	// Concurrency is the maximum number of lookups running at once.
	Concurrency int
	// Deduplicate drops repeated records, keeping the first occurrence.
	Deduplicate bool
	// Aggregate collapses prefixes into the smallest covering set.
	Aggregate bool
}

func OptionsFromConfig(cfg config.CollectorConfig) Options {
	return Options{
		Concurrency: cfg.Concurrency,
		Deduplicate: cfg.Deduplicate,
		Aggregate:   cfg.Aggregate,
	}
}

// PrefixSet holds the prefixes of an autonomous system for both families.
type PrefixSet struct {
	ASN    uint32   `json:"asn"`
	AsSets []string `json:"asSets"`
	IPv6   []string `json:"ipv6"`
	IPv4   []string `json:"ipv4"`
}

type Collector struct {
	logr.Logger
	normalizer *irr.Normalizer
	resolver   Resolver
	options    Options
}

func NewCollector(normalizer *irr.Normalizer, resolver Resolver, options Options) *Collector {
	if options.Concurrency < 1 {
		options.Concurrency = 1
	}
	return &Collector{
		Logger:     log.Log.WithName("collector"),
		normalizer: normalizer,
		resolver:   resolver,
		options:    options,
	}
}

type lookup struct {
	operation irr.Operation
	subject   string
	family    irr.AddressFamily
}

// Normalize returns the AS-SET tokens that would be resolved for an AS.
func (c *Collector) Normalize(asn uint32, rawAsSet string) []string {
	return c.normalizer.Normalize(asn, rawAsSet)
}

// Prefixes resolves every AS-SET of an AS for one family and concatenates
// the results in AS-SET order.
func (c *Collector) Prefixes(ctx context.Context, asn uint32, rawAsSet string, family irr.AddressFamily) ([]string, error) {
	asSets := c.Normalize(asn, rawAsSet)
	lookups := slice.Map(asSets, func(asSet string) lookup {
		return lookup{operation: irr.ExpandPrefixes, subject: asSet, family: family}
	})

	results, err := c.run(ctx, lookups)
	if err != nil {
		return nil, err
	}
	return c.finishPrefixes(slice.Concat(results...))
}

// AllPrefixes resolves the prefixes of an AS for both families.
func (c *Collector) AllPrefixes(ctx context.Context, asn uint32, rawAsSet string) (*PrefixSet, error) {
	asSets := c.Normalize(asn, rawAsSet)

	var lookups []lookup
	for _, asSet := range asSets {
		for _, family := range irr.Families {
			lookups = append(lookups, lookup{operation: irr.ExpandPrefixes, subject: asSet, family: family})
		}
	}

	results, err := c.run(ctx, lookups)
	if err != nil {
		return nil, err
	}

	var ipv4, ipv6 []string
	for i, l := range lookups {
		if l.family == irr.IPv6 {
			ipv6 = append(ipv6, results[i]...)
		} else {
			ipv4 = append(ipv4, results[i]...)
		}
	}

	set := &PrefixSet{ASN: asn, AsSets: asSets}
	if set.IPv6, err = c.finishPrefixes(ipv6); err != nil {
		return nil, err
	}
	if set.IPv4, err = c.finishPrefixes(ipv4); err != nil {
		return nil, err
	}
	return set, nil
}

// Members resolves the member ASNs of every AS-SET of an AS.
func (c *Collector) Members(ctx context.Context, asn uint32, rawAsSet string, family irr.AddressFamily) ([]string, error) {
	asSets := c.Normalize(asn, rawAsSet)
	lookups := slice.Map(asSets, func(asSet string) lookup {
		return lookup{operation: irr.ExpandMembers, subject: asSet, family: family}
	})

	results, err := c.run(ctx, lookups)
	if err != nil {
		return nil, err
	}
	members := slice.Concat(results...)
	if c.options.Deduplicate {
		members = slice.Deduplicate(members)
	}
	return members, nil
}

// run executes the lookups with bounded parallelism. Results are returned in
// lookup order.
func (c *Collector) run(ctx context.Context, lookups []lookup) ([][]string, error) {
	results := make([][]string, len(lookups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.options.Concurrency)
	for i := range lookups {
		i := i
		l := lookups[i]
		g.Go(func() error {
			start := time.Now()
			records, err := c.resolver.Resolve(gctx, l.operation, l.subject, l.family)
			RecordLookup(l.operation, l.family, len(records), err, time.Since(start))
			if err != nil {
				c.Logger.Error(err, "lookup failed", "operation", l.operation.String(), "subject", l.subject, "family", l.family.String())
				return fmt.Errorf("error resolving %s of %s: %w", l.operation, l.subject, err)
			}
			c.Logger.V(1).Info("lookup done", "operation", l.operation.String(), "subject", l.subject,
				"family", l.family.String(), "records", len(records), "duration", time.Since(start))
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return results, nil
}

func (c *Collector) finishPrefixes(prefixes []string) ([]string, error) {
	if c.options.Aggregate {
		return Aggregate(prefixes)
	}
	if c.options.Deduplicate {
		return slice.Deduplicate(prefixes), nil
	}
	if prefixes == nil {
		return []string{}, nil
	}
	return prefixes, nil
}

// Aggregate returns the smallest sorted set of prefixes covering the input.
func Aggregate(prefixes []string) ([]string, error) {
	var builder netipx.IPSetBuilder
	for _, p := range prefixes {
		prefix, err := netip.ParsePrefix(p)
		if err != nil {
			return nil, fmt.Errorf("cannot aggregate %q: %w", p, err)
		}
		builder.AddPrefix(prefix.Masked())
	}
	set, err := builder.IPSet()
	if err != nil {
		return nil, fmt.Errorf("failed to build prefix set: %w", err)
	}
	return slice.Map(set.Prefixes(), netip.Prefix.String), nil
}
