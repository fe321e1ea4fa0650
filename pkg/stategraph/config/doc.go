/*
Package config provides configuration and graph-definition loading.

# Overview

config wraps a map[string]any and provides typed accessor methods that
handle missing keys and type mismatches gracefully by returning default
values, and loads serialized GraphDefinition documents from YAML or JSON.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "journal_path": "./journal.db",
	    "max_steps":    100,
	    "tracing":      true,
	})

	path := cfg.String("journal_path", ":memory:") // "./journal.db"
	steps := cfg.Int("max_steps", 0)               // 100
	traced := cfg.Bool("tracing", false)           // true

All methods return the default value if the key is missing, the value
cannot be converted to the requested type, or the conversion would lose
precision.

# Definition Loading

Graph definitions transport as YAML or JSON and round-trip losslessly;
node and edge order and exact path labels are preserved, since they
participate in the definition fingerprint:

	def, err := config.DefinitionFromFile("workflow.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	compiled, err := cache.GetOrCompile(def, bindings)

Loading only parses; the compiler performs structural validation and
reports every violation in one joined error.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
