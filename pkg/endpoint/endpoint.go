// Package endpoint exposes the prefix collector over HTTP.
package endpoint

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-logr/logr"
	"github.com/telekom/das-schiff-irr-resolver/pkg/irr"
	"github.com/telekom/das-schiff-irr-resolver/pkg/prefixlist"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

//go:generate mockgen -destination ./mock/mock_endpoint.go . Collector
type Collector interface {
	Normalize(asn uint32, rawAsSet string) []string
	Prefixes(ctx context.Context, asn uint32, rawAsSet string, family irr.AddressFamily) ([]string, error)
	AllPrefixes(ctx context.Context, asn uint32, rawAsSet string) (*prefixlist.PrefixSet, error)
	Members(ctx context.Context, asn uint32, rawAsSet string, family irr.AddressFamily) ([]string, error)
}

type Endpoint struct {
	collector Collector
	logr.Logger
}

type NormalizeResponse struct {
	ASN    uint32   `json:"asn"`
	AsSets []string `json:"asSets"`
}

type PrefixesResponse struct {
	ASN      uint32   `json:"asn"`
	AsSets   []string `json:"asSets"`
	Family   string   `json:"family"`
	Prefixes []string `json:"prefixes"`
}

type MembersResponse struct {
	AsSets  []string `json:"asSets"`
	Members []string `json:"members"`
}

type ErrorResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason"`
	ExitCode *int   `json:"exitCode,omitempty"`
}

func NewEndpoint(collector Collector) *Endpoint {
	return &Endpoint{
		collector: collector,
		Logger:    log.Log.WithName("endpoint"),
	}
}

// CreateRouter returns a router with all handlers registered.
func (e *Endpoint) CreateRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", e.Healthz)
	r.Get("/normalize", e.Normalize)
	r.Get("/prefixes", e.Prefixes)
	r.Get("/members", e.Members)
	return r
}

func (e *Endpoint) Healthz(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "ok")
}

func (e *Endpoint) Normalize(w http.ResponseWriter, r *http.Request) {
	asn, err := irr.ParseASN(r.URL.Query().Get("asn"))
	if err != nil {
		e.badRequest(w, r, err)
		return
	}
	render.JSON(w, r, NormalizeResponse{
		ASN:    asn,
		AsSets: e.collector.Normalize(asn, r.URL.Query().Get("as-set")),
	})
}

func (e *Endpoint) Prefixes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	asn, err := irr.ParseASN(query.Get("asn"))
	if err != nil {
		e.badRequest(w, r, err)
		return
	}
	rawAsSet := query.Get("as-set")

	if query.Get("family") == "" {
		set, err := e.collector.AllPrefixes(r.Context(), asn, rawAsSet)
		if err != nil {
			e.writeError(w, r, err)
			return
		}
		render.JSON(w, r, set)
		return
	}

	family, err := irr.ParseAddressFamily(query.Get("family"))
	if err != nil {
		e.badRequest(w, r, err)
		return
	}
	prefixes, err := e.collector.Prefixes(r.Context(), asn, rawAsSet, family)
	if err != nil {
		e.writeError(w, r, err)
		return
	}
	render.JSON(w, r, PrefixesResponse{
		ASN:      asn,
		AsSets:   e.collector.Normalize(asn, rawAsSet),
		Family:   family.String(),
		Prefixes: prefixes,
	})
}

func (e *Endpoint) Members(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rawAsSet := query.Get("as-set")

	var asn uint32
	if query.Get("asn") != "" || strings.TrimSpace(rawAsSet) == "" {
		var err error
		if asn, err = irr.ParseASN(query.Get("asn")); err != nil {
			e.badRequest(w, r, err)
			return
		}
	}

	// an AS-SET of separators and markers only falls back to the origin AS
	asSets := e.collector.Normalize(asn, rawAsSet)
	if asn == 0 && len(asSets) == 1 && asSets[0] == irr.FormatASN(0) {
		e.badRequest(w, r, errors.New("asn is required when the AS-SET holds no AS-SET name"))
		return
	}

	family := irr.IPv6
	if query.Get("family") != "" {
		var err error
		if family, err = irr.ParseAddressFamily(query.Get("family")); err != nil {
			e.badRequest(w, r, err)
			return
		}
	}

	members, err := e.collector.Members(r.Context(), asn, rawAsSet, family)
	if err != nil {
		e.writeError(w, r, err)
		return
	}
	render.JSON(w, r, MembersResponse{
		AsSets:  asSets,
		Members: members,
	})
}

func (e *Endpoint) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: err.Error(), Reason: "bad-request"})
}

func (e *Endpoint) writeError(w http.ResponseWriter, r *http.Request, err error) {
	response := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	switch irr.KindOf(err) {
	case irr.KindExternalToolFailure:
		status = http.StatusBadGateway
		response.Reason = irr.KindExternalToolFailure.String()
		var failure irr.ExternalToolFailureError
		if errors.As(err, &failure) {
			exitCode := failure.ExitCode
			response.ExitCode = &exitCode
		}
	case irr.KindMalformedOutput:
		status = http.StatusBadGateway
		response.Reason = irr.KindMalformedOutput.String()
	case irr.KindInvalidRequest:
		status = http.StatusBadRequest
		response.Reason = irr.KindInvalidRequest.String()
	default:
		response.Reason = "internal"
	}

	e.Logger.Error(err, "request failed", "path", r.URL.Path, "status", status)
	render.Status(r, status)
	render.JSON(w, r, response)
}
