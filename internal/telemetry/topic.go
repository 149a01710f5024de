package telemetry

import "strings"

// Scope kinds produced by the parser.
type ScopeKind int

const (
	// ScopeDevice addresses one device individually (root/device-id/metric).
	ScopeDevice ScopeKind = iota

	// ScopeType addresses the singleton device of a root (root/metric).
	ScopeType
)

// ParsedTopic is the result of matching a topic against the telemetry shapes.
type ParsedTopic struct {
	// Kind selects the resolution strategy.
	Kind ScopeKind

	// Root is the configured two-segment root (e.g. "acme/humidifier").
	Root string

	// Scope is the resolution key: root/device-id for device scope,
	// the root itself for type scope.
	Scope string

	// DeviceID is the device segment for device scope, "" for type scope.
	DeviceID string

	// Metric is the final topic segment.
	Metric string
}

// Parser matches inbound topics against the configured telemetry roots.
//
// The bus carries traffic from other subsystems, so an unmatched topic is
// not an error. Parse returns ok=false and the caller drops the message
// silently.
type Parser struct {
	roots map[string]struct{}
}

// NewParser creates a parser for the given telemetry roots.
// Each root must be exactly two segments (vendor/product).
func NewParser(roots []string) *Parser {
	set := make(map[string]struct{}, len(roots))
	for _, r := range roots {
		set[r] = struct{}{}
	}
	return &Parser{roots: set}
}

// Parse matches a topic against the two accepted telemetry shapes:
//
//	root/device-id/metric  (4 segments, device scope)
//	root/metric            (3 segments, type scope)
//
// Any other segment count, an unconfigured root, or an empty segment
// yields ok=false.
func (p *Parser) Parse(topic string) (ParsedTopic, bool) {
	parts := strings.Split(topic, "/")

	for _, part := range parts {
		if part == "" {
			return ParsedTopic{}, false
		}
	}

	switch len(parts) {
	case 3:
		root := parts[0] + "/" + parts[1]
		if _, ok := p.roots[root]; !ok {
			return ParsedTopic{}, false
		}
		return ParsedTopic{
			Kind:   ScopeType,
			Root:   root,
			Scope:  root,
			Metric: parts[2],
		}, true

	case 4:
		root := parts[0] + "/" + parts[1]
		if _, ok := p.roots[root]; !ok {
			return ParsedTopic{}, false
		}
		return ParsedTopic{
			Kind:     ScopeDevice,
			Root:     root,
			Scope:    root + "/" + parts[2],
			DeviceID: parts[2],
			Metric:   parts[3],
		}, true

	default:
		return ParsedTopic{}, false
	}
}
