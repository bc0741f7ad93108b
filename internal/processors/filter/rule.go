package filter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/bakkerme/pagewatch/internal/config"
)

// RuleFilter evaluates a boolean expression against each snapshot key. With
// result "keep" only matching keys survive; with result "drop" matching keys
// are removed.
type RuleFilter struct {
	name    string
	config  config.KeyRule
	program *vm.Program
}

func NewRuleFilter(cfg *config.KeyRule) (*RuleFilter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("key rule config is required")
	}
	if cfg.Name == "" || cfg.Rule == "" {
		return nil, fmt.Errorf("key rule name and expression are required")
	}
	if cfg.Result != "keep" && cfg.Result != "drop" {
		return nil, fmt.Errorf("key rule result must be keep or drop")
	}
	program, err := expr.Compile(cfg.Rule, expr.Env(map[string]interface{}{}))
	if err != nil {
		return nil, fmt.Errorf("compile key rule: %w", err)
	}
	return &RuleFilter{
		name:    cfg.Name,
		config:  *cfg,
		program: program,
	}, nil
}

func (f *RuleFilter) Name() string {
	return f.name
}

func (f *RuleFilter) Apply(ctx context.Context, keys []string) ([]string, error) {
	_ = ctx
	kept := make([]string, 0, len(keys))
	for _, key := range keys {
		result, err := expr.Run(f.program, keyEnv(key))
		if err != nil {
			return nil, fmt.Errorf("run key rule %s: %w", f.name, err)
		}
		matched, ok := result.(bool)
		if !ok {
			return nil, fmt.Errorf("key rule %s did not return bool", f.name)
		}

		if f.config.Result == "drop" {
			if !matched {
				kept = append(kept, key)
			}
			continue
		}
		if matched {
			kept = append(kept, key)
		}
	}
	return kept, nil
}

func keyEnv(key string) map[string]interface{} {
	env := map[string]interface{}{
		"key": map[string]interface{}{
			"value":  key,
			"length": len(key),
		},
		"host": "",
		"path": "",
	}
	if u, err := url.Parse(key); err == nil {
		env["host"] = u.Host
		env["path"] = u.Path
	}
	return env
}
