package irr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/telekom/das-schiff-irr-resolver/pkg/bgpq"
	"github.com/telekom/das-schiff-irr-resolver/pkg/config"
)

// ObjectListKey labels the result list in the tool's JSON output.
const ObjectListKey = "object_list"

// Resolver expands AS-SETs and ASNs by running the query tool once per call.
// It keeps no state between calls.
type Resolver struct {
	path      string
	host      string
	sources   string
	extraArgs map[AddressFamily][]string
	runner    bgpq.Runner
}

func NewResolver(cfg *config.Config, runner bgpq.Runner) *Resolver {
	return &Resolver{
		path:    cfg.BGPQ.Path,
		host:    cfg.BGPQ.Host,
		sources: strings.Join(cfg.Sources(), ","),
		extraArgs: map[AddressFamily][]string{
			IPv4: cfg.ExtraArgs(int(IPv4)),
			IPv6: cfg.ExtraArgs(int(IPv6)),
		},
		runner: runner,
	}
}

// BuildCommand returns the command line for a request. The second return
// value is false for operations the tool cannot perform.
func (r *Resolver) BuildCommand(req Request) (bgpq.Command, bool) {
	args := []string{
		"-h", r.host,
		"-S", r.sources,
	}

	switch req.Operation {
	case ExpandPrefixes:
		args = append(args, "-"+strconv.Itoa(int(req.Family)), "-A")
	case ExpandMembers:
		args = append(args, "-f", "1")
	default:
		return bgpq.Command{}, false
	}

	args = append(args, "-j", "-l", ObjectListKey, req.Subject)

	// vendor arguments have to precede the output flags and the subject
	if req.Operation == ExpandPrefixes {
		if extra := r.extraArgs[req.Family]; len(extra) > 0 {
			index := len(args) - 3
			spliced := make([]string, 0, len(args)+len(extra))
			spliced = append(spliced, args[:index]...)
			spliced = append(spliced, extra...)
			args = append(spliced, args[index:]...)
		}
	}

	return bgpq.Command{Path: r.path, Args: args}, true
}

// Resolve runs a single expansion of subject and returns the records in the
// order emitted by the tool.
func (r *Resolver) Resolve(ctx context.Context, op Operation, subject string, family AddressFamily) ([]string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, nil
	}
	if op == ExpandPrefixes && !family.Valid() {
		return nil, InvalidRequestError{Reason: fmt.Sprintf("address family %s", family)}
	}

	cmd, ok := r.BuildCommand(Request{Operation: op, Subject: subject, Family: family})
	if !ok {
		return nil, nil
	}

	tool := filepath.Base(cmd.Path)
	invocation, err := r.runner.Run(ctx, cmd)
	if err != nil {
		failure := ExternalToolFailureError{Tool: tool, ExitCode: -1, Err: err}
		if invocation != nil {
			failure.Stderr = string(invocation.Stderr)
		}
		return nil, failure
	}
	if invocation.ExitCode != 0 {
		return nil, ExternalToolFailureError{
			Tool:     tool,
			ExitCode: invocation.ExitCode,
			Stderr:   string(invocation.Stderr),
		}
	}

	return decodeObjectList(tool, invocation.Stdout)
}

func decodeObjectList(tool string, stdout []byte) ([]string, error) {
	var output map[string]json.RawMessage
	if err := json.Unmarshal(stdout, &output); err != nil {
		return nil, MalformedOutputError{Tool: tool, Err: err}
	}
	raw, ok := output[ObjectListKey]
	if !ok {
		return nil, MalformedOutputError{Tool: tool, Err: errors.New("missing key " + ObjectListKey)}
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, MalformedOutputError{Tool: tool, Err: fmt.Errorf("decoding %s: %w", ObjectListKey, err)}
	}
	objects := make([]string, 0, len(records))
	for i, record := range records {
		object, err := decodeRecord(record)
		if err != nil {
			return nil, MalformedOutputError{Tool: tool, Err: fmt.Errorf("decoding %s[%d]: %w", ObjectListKey, i, err)}
		}
		objects = append(objects, object)
	}
	return objects, nil
}

// decodeRecord accepts strings and, as emitted for member lists, unsigned
// integers.
func decodeRecord(record json.RawMessage) (string, error) {
	if string(record) == "null" {
		return "", errors.New("unexpected null record")
	}
	var object string
	if err := json.Unmarshal(record, &object); err == nil {
		return object, nil
	}
	var number uint64
	if err := json.Unmarshal(record, &number); err != nil {
		return "", fmt.Errorf("unexpected record %s", record)
	}
	return strconv.FormatUint(number, 10), nil
}

// ResolveAsSetPrefixes expands an AS-SET into the prefixes of a family.
func (r *Resolver) ResolveAsSetPrefixes(ctx context.Context, asSet string, family AddressFamily) ([]string, error) {
	return r.Resolve(ctx, ExpandPrefixes, asSet, family)
}

// ResolveASNPrefixes expands the prefixes originated by an AS. Both "64500"
// and "AS64500" are accepted.
func (r *Resolver) ResolveASNPrefixes(ctx context.Context, asn string, family AddressFamily) ([]string, error) {
	if strings.TrimSpace(asn) == "" {
		return nil, nil
	}
	return r.Resolve(ctx, ExpandPrefixes, ASNSubject(strings.TrimSpace(asn)), family)
}

// ResolveAsSetMembers expands an AS-SET into its member ASNs.
func (r *Resolver) ResolveAsSetMembers(ctx context.Context, asSet string, family AddressFamily) ([]string, error) {
	if strings.TrimSpace(asSet) == "" {
		return nil, nil
	}
	return r.Resolve(ctx, ExpandMembers, asSet, family)
}

// ASNSubject formats asn as AS<number> unless it already starts with "AS".
func ASNSubject(asn string) string {
	if strings.HasPrefix(asn, "AS") {
		return asn
	}
	return "AS" + asn
}

func FormatASN(asn uint32) string {
	return "AS" + strconv.FormatUint(uint64(asn), 10)
}
