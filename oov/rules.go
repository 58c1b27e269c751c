// Package oov recovers dialect words that are missing from the trained
// vocabulary before a sentence is decoded.
package oov

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// VowelRule maps a dialect spelling pattern to the standard spellings it
// commonly corresponds to. A compounding rule also marks a participle or
// compound prefix that the dialect shortens ("gmocht" for "gemacht").
type VowelRule struct {
	Pattern      string   `yaml:"pattern"`
	Replacements []string `yaml:"replacements"`
	Compounding  bool     `yaml:"compounding,omitempty"`
}

// ErrInvalidRule is returned for a rule without pattern or replacements.
var ErrInvalidRule = errors.New("oov: invalid vowel rule")

// DefaultRules returns the built-in Viennese spelling rules in the order
// they are tried.
func DefaultRules() []VowelRule {
	return []VowelRule{
		{Pattern: "ää", Replacements: []string{"ei", "ai"}},
		{Pattern: "aa", Replacements: []string{"ei", "ai"}},
		{Pattern: "oo", Replacements: []string{"au"}},
		{Pattern: "öö", Replacements: []string{"el", "eil"}},
		{Pattern: "oi", Replacements: []string{"all", "oll"}},
		{Pattern: "ue", Replacements: []string{"u"}},
		{Pattern: "o", Replacements: []string{"a"}},
		{Pattern: "g", Replacements: []string{"ge"}, Compounding: true},
		{Pattern: "w", Replacements: []string{"b"}},
	}
}

type ruleFile struct {
	Rules []VowelRule `yaml:"rules"`
}

// LoadRules reads rules from YAML of the form
//
//	rules:
//	  - pattern: oo
//	    replacements: [au]
func LoadRules(r io.Reader) ([]VowelRule, error) {
	var f ruleFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty rule file", ErrInvalidRule)
		}
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if err := ValidateRules(f.Rules); err != nil {
		return nil, err
	}
	return f.Rules, nil
}

// ValidateRules checks that every rule has a pattern and at least one
// replacement.
func ValidateRules(rules []VowelRule) error {
	for i, rule := range rules {
		if rule.Pattern == "" || len(rule.Replacements) == 0 {
			return fmt.Errorf("%w: rule %d (%q)", ErrInvalidRule, i, rule.Pattern)
		}
	}
	return nil
}

// LoadRulesFile reads rules from a YAML file.
func LoadRulesFile(path string) ([]VowelRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rules, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}
