// internal/pkg/config/domains.go
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// MergeDomains overlays raw domain entries onto base. An entry whose name
// matches a base domain only replaces the keys it sets; other entries are
// appended as new domains. Lists and maps in an entry replace the base value.
func MergeDomains(base []domain.DomainConfig, raw []interface{}) ([]domain.DomainConfig, error) {
	out := make([]domain.DomainConfig, len(base))
	index := make(map[string]int, len(base))
	for i, d := range base {
		out[i] = d.Clone()
		index[d.Name] = i
	}

	for n, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: domains[%d] is not a mapping", domain.ErrInvalidConfig, n)
		}
		name, _ := m["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: domains[%d] has no name", domain.ErrInvalidConfig, n)
		}

		var target domain.DomainConfig
		i, exists := index[name]
		if exists {
			target = out[i]
		}
		if err := decodeDomain(m, &target); err != nil {
			return nil, fmt.Errorf("%w: domains[%d] (%s): %v", domain.ErrInvalidConfig, n, name, err)
		}

		if exists {
			out[i] = target
		} else {
			index[name] = len(out)
			out = append(out, target)
		}
	}
	return out, nil
}

func decodeDomain(m map[string]interface{}, target *domain.DomainConfig) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return err
	}
	target.Aliases = canonicalAliases(target.Aliases)
	return nil
}

var canonicalFields = []string{
	domain.FieldID, domain.FieldTitle, domain.FieldCreator, domain.FieldCategory,
	domain.FieldSecondaryGroup, domain.FieldPrice, domain.FieldOriginalPrice,
	domain.FieldRating, domain.FieldPopularity, domain.FieldReleaseDate,
	domain.FieldBadge, domain.FieldImageRef,
}

// canonicalAliases restores the camel-cased field names that YAML readers
// may have lower-cased.
func canonicalAliases(a domain.FieldAliases) domain.FieldAliases {
	if a == nil {
		return nil
	}
	out := make(domain.FieldAliases, len(a))
	for k, v := range a {
		key := k
		for _, f := range canonicalFields {
			if strings.EqualFold(k, f) {
				key = f
				break
			}
		}
		out[key] = append(out[key], v...)
	}
	return out
}
