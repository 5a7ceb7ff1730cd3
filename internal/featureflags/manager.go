// Package featureflags evaluates rollout flags from a comma-separated
// config string, e.g. "live_feed=on,image_thumbnails=25%".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

type rule struct {
	kind    ruleKind
	percent int
}

// Manager evaluates feature flags. Rules are parsed once at
// construction; unknown flags evaluate to disabled.
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated flag list. Malformed pairs are
// skipped rather than rejected so a typo in one flag cannot take the
// whole config down.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := normalize(parts[0])
		r, ok := parseRule(normalize(parts[1]))
		if name == "" || !ok {
			continue
		}
		rules[name] = r
	}

	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{kind: ruleOn}, true
	case "off", "false", "0":
		return rule{kind: ruleOff}, true
	}
	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil || pct < 0 || pct > 100 {
			return rule{}, false
		}
		return rule{kind: rulePercent, percent: pct}, true
	}
	return rule{}, false
}

// Enabled reports whether a flag is on for the given user. Percentage
// rollouts bucket deterministically by flag name and user ID, so a user
// stays in or out of a rollout across requests. Anonymous visitors
// (userID 0) are excluded from partial rollouts.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		if r.percent >= 100 {
			return true
		}
		if r.percent <= 0 || userID == 0 {
			return false
		}
		return rolloutBucket(name, userID) < r.percent
	default:
		return false
	}
}

// Snapshot returns the evaluated state of every configured flag for one
// user, for surfacing in diagnostics endpoints.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
