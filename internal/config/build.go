package config

import (
	"fmt"

	"github.com/roach88/randseq/internal/random"
	"github.com/roach88/randseq/internal/rule"
)

// Build turns cfg into Settings. extra rules (for example an exclusion
// registry) are appended after the configured ones. src is only used by
// rules whose construction is itself random (alphanumeric without counts).
func Build(cfg *Config, src random.Source, extra ...rule.Rule) (*rule.Settings, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	rules := make([]rule.Rule, 0, len(cfg.Rules)+len(extra))
	for i, spec := range cfg.Rules {
		r, err := buildRule(spec, cfg.Length, src)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		rules = append(rules, r)
	}
	rules = append(rules, extra...)

	excludes := make([]rule.ExcludeRule, 0, len(cfg.Exclude))
	for i, spec := range cfg.Exclude {
		r, err := buildRule(spec, cfg.Length, src)
		if err != nil {
			return nil, fmt.Errorf("exclude[%d]: %w", i, err)
		}
		excludes = append(excludes, rule.Exclude(r))
	}

	opts := []rule.SettingsOption{rule.WithExcludeRules(excludes...)}
	if cfg.MaxAttempts > 0 {
		opts = append(opts, rule.WithMaxAttempts(cfg.MaxAttempts))
	}
	if cfg.MaxMatchAttempts > 0 {
		opts = append(opts, rule.WithMaxMatchAttempts(cfg.MaxMatchAttempts))
	}
	if cfg.ErrorThreshold > 0 {
		opts = append(opts, rule.WithErrorThreshold(cfg.ErrorThreshold))
	}

	return rule.NewSettings(rules, cfg.Length, opts...)
}

func buildRule(spec RuleSpec, length int, src random.Source) (rule.Rule, error) {
	switch spec.Kind {
	case KindRandomNumber:
		return rule.RandomNumber(), nil

	case KindNumberRange:
		if len(spec.Ranges) > 0 {
			ranges := make([]rule.IndexRange, len(spec.Ranges))
			for i, r := range spec.Ranges {
				ranges[i] = rule.IndexRange{Indexes: r.Indexes, Bounds: rule.Bounds{Min: r.Min, Max: r.Max}}
			}
			return rule.NumberRangeByIndex(ranges...), nil
		}
		if spec.Min == nil || spec.Max == nil {
			return nil, missing(rule.NameNumberRange, "min and max, or ranges, are required")
		}
		return rule.NumberRangeAll(*spec.Min, *spec.Max), nil

	case KindNoDuplicate:
		return rule.NoDuplicate(), nil

	case KindNumberPool:
		if len(spec.Pools) == 0 {
			return nil, missing(rule.NameNumberPool, "pools are required")
		}
		items := make([]rule.PoolItem, len(spec.Pools))
		for i, p := range spec.Pools {
			pool, err := buildPool(rule.NameNumberPool, p)
			if err != nil {
				return nil, err
			}
			items[i] = rule.PoolItem{Key: p.Key, Pool: pool, Needs: p.Needs}
		}
		return rule.NewNumberPool(items...), nil

	case KindNumberPoolByIndex:
		if len(spec.Pools) == 0 {
			return nil, missing(rule.NameNumberPoolByIndex, "pools are required")
		}
		items := make([]rule.IndexedPool, len(spec.Pools))
		for i, p := range spec.Pools {
			if len(p.Indexes) == 0 {
				return nil, missing(rule.NameNumberPoolByIndex, fmt.Sprintf("pool %q has no indexes", p.Key))
			}
			pool, err := buildPool(rule.NameNumberPoolByIndex, p)
			if err != nil {
				return nil, err
			}
			items[i] = rule.IndexedPool{Key: p.Key, Pool: pool, Indexes: p.Indexes}
		}
		return rule.NewNumberPoolByIndex(items...), nil

	case KindOddEven:
		if spec.Odd == nil || spec.Even == nil {
			return nil, missing(rule.NameOddEven, "odd and even are required")
		}
		return rule.NewOddEven(*spec.Odd, *spec.Even), nil

	case KindOddEvenByIndex:
		if len(spec.OddIndexes) == 0 && len(spec.EvenIndexes) == 0 {
			return nil, missing(rule.NameOddEvenByIndex, "odd_indexes or even_indexes are required")
		}
		return rule.NewOddEvenByIndex(spec.OddIndexes, spec.EvenIndexes), nil

	case KindSequential:
		return rule.NewSequential(spec.Not, spec.Runs...), nil

	case KindNumberSpace:
		if len(spec.Spaces) == 0 {
			return nil, missing(rule.NameNumberSpace, "spaces are required")
		}
		items := make([]rule.SpaceItem, len(spec.Spaces))
		for i, s := range spec.Spaces {
			kind, err := spaceKind(s.Kind)
			if err != nil {
				return nil, err
			}
			items[i] = rule.SpaceItem{Kind: kind, Value: s.Value, Upper: s.Upper, Needs: s.Needs}
		}
		return rule.NewNumberSpace(items...), nil

	case KindExcludeNumberSets:
		sets := make([][]int, 0, len(spec.Sets)+len(spec.Strings))
		sets = append(sets, spec.Sets...)
		for _, s := range spec.Strings {
			sets = append(sets, rule.CodePoints(s))
		}
		if len(sets) == 0 {
			return nil, missing(rule.NameExcludeNumberSets, "sets or strings are required")
		}
		return rule.NewExcludeNumberSets(sets...), nil

	case KindAlphanumeric:
		if spec.Counts != nil {
			return rule.AlphanumericSpecs(spec.Counts.Alpha, spec.Counts.Numeric, spec.Counts.Special), nil
		}
		pool, err := rule.Alphanumeric(length, spec.Special, src)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}

	return nil, &rule.ConfigError{Message: fmt.Sprintf("unknown rule kind %q", spec.Kind)}
}

// buildPool resolves the member source of a pool spec.
func buildPool(ruleName string, p PoolSpec) (rule.Pool, error) {
	sources := 0
	if len(p.Values) > 0 {
		sources++
	}
	if p.Chars != "" {
		sources++
	}
	if p.Builtin != "" {
		sources++
	}
	if p.Min != nil || p.Max != nil {
		sources++
	}
	if sources != 1 {
		return nil, missing(ruleName, fmt.Sprintf("pool %q needs exactly one of values, chars, builtin or min/max", p.Key))
	}

	switch {
	case len(p.Values) > 0:
		return rule.NewSetPool(p.Values...), nil
	case p.Chars != "":
		return rule.PoolFromChars(p.Chars), nil
	case p.Builtin != "":
		switch p.Builtin {
		case "alpha":
			return rule.PoolFromChars(rule.AlphabetChars), nil
		case "numeric":
			return rule.PoolFromChars(rule.NumericChars), nil
		case "special":
			return rule.PoolFromChars(rule.SpecialChars), nil
		}
		return nil, missing(ruleName, fmt.Sprintf("pool %q: unknown builtin %q", p.Key, p.Builtin))
	}

	if p.Min == nil || p.Max == nil {
		return nil, missing(ruleName, fmt.Sprintf("pool %q needs both min and max", p.Key))
	}
	if *p.Min > *p.Max {
		return nil, missing(ruleName, fmt.Sprintf("pool %q: min %d > max %d", p.Key, *p.Min, *p.Max))
	}
	return rule.RangePool{Min: *p.Min, Max: *p.Max}, nil
}

func spaceKind(s string) (rule.SpaceKind, error) {
	switch s {
	case "lt":
		return rule.SpaceLt, nil
	case "lte":
		return rule.SpaceLte, nil
	case "eq":
		return rule.SpaceEq, nil
	case "gte":
		return rule.SpaceGte, nil
	case "gt":
		return rule.SpaceGt, nil
	case "between":
		return rule.SpaceBetween, nil
	}
	return 0, missing(rule.NameNumberSpace, fmt.Sprintf("unknown space kind %q", s))
}

func missing(ruleName, msg string) *rule.ConfigError {
	return &rule.ConfigError{Rule: ruleName, Message: msg}
}
