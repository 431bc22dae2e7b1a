// Package location infers the home data center of inventory resources from
// the scattered availability-zone and DC hints of the source dataset.
package location

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

var (
	validDCPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

	placeholderTokens = []string{"идентификатор", "суности", "placeholder"}
)

type nameSet map[string]struct{}

func (s nameSet) add(name string) { s[name] = struct{}{} }

func (s nameSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

// Resolver answers DC lookups for subnets, VPCs and raw hints.
// It is built once per run and read-only afterwards.
type Resolver struct {
	prefix      string
	subnetHints map[string]nameSet
	vpcHints    map[string]nameSet
	aliases     map[string]nameSet
}

// New indexes every hint found in src.
func New(src *models.SourceBundle, prefix string) *Resolver {
	r := &Resolver{
		prefix:      prefix,
		subnetHints: map[string]nameSet{},
		vpcHints:    map[string]nameSet{},
		aliases:     map[string]nameSet{},
	}
	r.index(src)
	return r
}

func (r *Resolver) Prefix() string {
	return r.prefix
}

// IsValidDCName reports whether name can serve as a DC identifier.
func IsValidDCName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	lowered := strings.ToLower(name)
	for _, token := range placeholderTokens {
		if strings.Contains(lowered, token) {
			return false
		}
	}
	if strings.ContainsFunc(name, unicode.IsSpace) || strings.Contains(name, "/") {
		return false
	}
	if !strings.ContainsFunc(name, unicode.IsDigit) {
		return false
	}
	return validDCPattern.MatchString(name)
}

// Normalize extracts a DC name from a raw hint such as "ru-moscow-1a",
// "dc.ru-moscow-1a" or "<prefix>.dc.ru-moscow-1a". It returns "" when the
// result is not a valid DC name.
func (r *Resolver) Normalize(value string) string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return ""
	}
	candidate := cleaned
	switch {
	case strings.HasPrefix(cleaned, r.prefix+".dc."):
		candidate = strings.TrimPrefix(cleaned, r.prefix+".dc.")
	case strings.Contains(cleaned, ".dc."):
		_, candidate, _ = strings.Cut(cleaned, ".dc.")
	case strings.HasPrefix(cleaned, "dc."):
		candidate = strings.TrimPrefix(cleaned, "dc.")
	}
	if !IsValidDCName(candidate) {
		return ""
	}
	return candidate
}

// DCForSubnet returns the best DC for a subnet id, bare or qualified.
func (r *Resolver) DCForSubnet(id string) string {
	direct := r.direct(r.subnetHints, id)
	return pickBest(r.expand(direct), direct)
}

// DCNamesForVPC returns every DC associated with a VPC, best first.
func (r *Resolver) DCNamesForVPC(id string) []string {
	direct := r.direct(r.vpcHints, id)
	if len(direct) == 0 {
		return nil
	}
	return rank(r.expand(direct), direct)
}

// ResolveDCName normalizes a string or a list of strings and returns the best DC.
func (r *Resolver) ResolveDCName(raw any) string {
	direct := nameSet{}
	for _, value := range hintValues(raw) {
		if name := r.Normalize(value); name != "" {
			direct.add(name)
		}
	}
	if len(direct) == 0 {
		return ""
	}
	return pickBest(r.expand(direct), direct)
}

func (r *Resolver) direct(hints map[string]nameSet, id string) nameSet {
	direct := nameSet{}
	for _, key := range ids.Variants(id) {
		for name := range hints[key] {
			direct.add(name)
		}
	}
	return direct
}

func (r *Resolver) expand(direct nameSet) nameSet {
	expanded := nameSet{}
	queue := make([]string, 0, len(direct))
	for name := range direct {
		expanded.add(name)
		queue = append(queue, name)
	}
	for len(queue) > 0 {
		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for alias := range r.aliases[current] {
			if !expanded.has(alias) {
				expanded.add(alias)
				queue = append(queue, alias)
			}
		}
	}
	return expanded
}

func score(name string, direct nameSet) int {
	s := 0
	if direct.has(name) {
		s += 10
	}
	if strings.ContainsFunc(name, unicode.IsLetter) {
		s += 3
	}
	if strings.Contains(name, "-") {
		s++
	}
	if name != "" && strings.IndexFunc(name, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		s -= 2
	}
	return s
}

func rank(candidates, direct nameSet) []string {
	out := make([]string, 0, len(candidates))
	for name := range candidates {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := score(out[i], direct), score(out[j], direct)
		if si != sj {
			return si > sj
		}
		return out[i] < out[j]
	})
	return out
}

func pickBest(candidates, direct nameSet) string {
	if len(direct) == 0 {
		return ""
	}
	ranked := rank(candidates, direct)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0]
}

// hintValues returns the trimmed non-empty strings of a scalar or sequence hint.
func hintValues(value any) []string {
	switch v := value.(type) {
	case string:
		if cleaned := strings.TrimSpace(v); cleaned != "" {
			return []string{cleaned}
		}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				if cleaned := strings.TrimSpace(s); cleaned != "" {
					out = append(out, cleaned)
				}
			}
		}
		return out
	case []string:
		var out []string
		for _, s := range v {
			if cleaned := strings.TrimSpace(s); cleaned != "" {
				out = append(out, cleaned)
			}
		}
		return out
	}
	return nil
}
