// Package irr resolves Internet Routing Registry AS-SETs into prefix lists
// and member ASNs.
package irr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type AddressFamily int

const (
	IPv4 AddressFamily = 4
	IPv6 AddressFamily = 6
)

// Families lists the families in the order they are collected.
var Families = []AddressFamily{IPv6, IPv4}

func (af AddressFamily) Valid() bool {
	return af == IPv4 || af == IPv6
}

func (af AddressFamily) String() string {
	if af.Valid() {
		return "ipv" + strconv.Itoa(int(af))
	}
	return "unknown(" + strconv.Itoa(int(af)) + ")"
}

// ParseAddressFamily accepts "4", "6", "ipv4" and "ipv6" in any case.
func ParseAddressFamily(s string) (AddressFamily, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "4", "ipv4":
		return IPv4, nil
	case "6", "ipv6":
		return IPv6, nil
	}
	return 0, fmt.Errorf("unsupported address family %q", s)
}

type Operation int

const (
	// ExpandPrefixes resolves a subject into its aggregated prefixes.
	ExpandPrefixes Operation = iota + 1
	// ExpandMembers resolves a subject into its member ASNs.
	ExpandMembers
)

func (o Operation) String() string {
	switch o {
	case ExpandPrefixes:
		return "prefixes"
	case ExpandMembers:
		return "members"
	}
	return "unsupported"
}

// Request is a single resolution handed to the Resolver.
type Request struct {
	Operation Operation
	Subject   string
	Family    AddressFamily
}

// ParseASN accepts "64500" as well as "AS64500" in any case.
func ParseASN(value string) (uint32, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("asn is required")
	}
	if len(value) > 2 && strings.EqualFold(value[:2], "AS") {
		value = value[2:]
	}
	asn, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid asn %q", value)
	}
	return uint32(asn), nil
}
