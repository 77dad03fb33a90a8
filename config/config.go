// Package config loads the model service configuration from an HCL file.
// The file is optional; every field has a default. Expressions may reference
// process environment variables through the `env` map, e.g.
//
//	listen     = "0.0.0.0:${env.PORT}"
//	store_path = "${env.HOME}/.archmodel/snapshots.db"
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Config holds the server settings.
type Config struct {
	Listen    string `hcl:"listen,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	StorePath string `hcl:"store_path,optional"`
	CacheSize int    `hcl:"cache_size,optional"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:    "127.0.0.1:8080",
		LogLevel:  "info",
		StorePath: "snapshots.db",
		CacheSize: 64,
	}
}

// Load reads and decodes an HCL configuration file, applying defaults for
// any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()

	src, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return parse(src, path)
}

// parse decodes HCL source against the env-aware evaluation context.
func parse(src []byte, filename string) (Config, error) {
	cfg := Default()

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("parse config: %s", diags.Error())
	}

	diags = gohcl.DecodeBody(file.Body, evalContext(), &cfg)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("decode config: %s", diags.Error())
	}
	return cfg, nil
}

// evalContext exposes the process environment as the `env` variable.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}
