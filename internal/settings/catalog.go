package settings

import (
	"slices"
	"strings"
)

// ServerOption is a pre-configured node the wallet can talk to.
type ServerOption struct {
	Name  string
	Value string
	API   string
	WS    string
	// Auth is sent as the RPC authorization token when non-empty.
	Auth         string
	ShouldRandom bool
}

var serverCatalog = []ServerOption{
	{
		Name:         "Random",
		Value:        ServerRandom,
		ShouldRandom: false,
	},
	{
		Name:         "Peering node",
		Value:        "peer",
		API:          "https://rpc.paw.digital",
		WS:           "wss://ws.paw.digital",
		ShouldRandom: true,
	},
	{
		Name:         "Peering node #2",
		Value:        "peer2",
		API:          "https://rpc3.paw.digital",
		WS:           "wss://ws3.paw.digital",
		ShouldRandom: true,
	},
	{
		Name:         "Peering node #3",
		Value:        "peer3",
		API:          "https://rpc2.paw.digital",
		WS:           "wss://ws2.paw.digital",
		ShouldRandom: true,
	},
}

// seeded ahead of the catalog hosts
const legacyPeeringHost = "peering.paw.digital"

var knownAPIEndpoints = buildKnownAPIEndpoints(serverCatalog)

// ServerOptions returns the catalog in display order.
func ServerOptions() []ServerOption {
	return slices.Clone(serverCatalog)
}

// FindServer looks up a catalog entry by its value.
func FindServer(value string) (ServerOption, bool) {
	i := slices.IndexFunc(serverCatalog, func(o ServerOption) bool { return o.Value == value })
	if i < 0 {
		return ServerOption{}, false
	}

	return serverCatalog[i], true
}

func randomEligible() []ServerOption {
	var out []ServerOption
	for _, o := range serverCatalog {
		if o.ShouldRandom {
			out = append(out, o)
		}
	}

	return out
}

// KnownAPIEndpoints lists first-party API hosts without scheme, e.g.
// "rpc.paw.digital".
func KnownAPIEndpoints() []string {
	return slices.Clone(knownAPIEndpoints)
}

// IsKnownAPIEndpoint reports whether endpoint (with or without scheme)
// points at a first-party node.
func IsKnownAPIEndpoint(endpoint string) bool {
	return slices.Contains(knownAPIEndpoints, stripScheme(strings.TrimSpace(endpoint)))
}

func buildKnownAPIEndpoints(catalog []ServerOption) []string {
	out := []string{legacyPeeringHost}
	for _, o := range catalog {
		if o.API == "" {
			continue
		}
		out = append(out, stripScheme(o.API))
	}

	return out
}

func stripScheme(endpoint string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if rest, ok := strings.CutPrefix(endpoint, prefix); ok {
			return rest
		}
	}

	return endpoint
}
