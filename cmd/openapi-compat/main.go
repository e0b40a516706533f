// Command openapi-compat fails when a revised swagger.yaml breaks clients of the base one.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type document struct {
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

type parameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

type operation struct {
	Parameters []parameter          `yaml:"parameters"`
	Responses  map[string]yaml.Node `yaml:"responses"`
}

// api maps "METHOD path" to its operation.
type api map[string]operation

var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true, "patch": true, "head": true, "options": true,
}

func main() {
	basePath := flag.String("base", "", "base swagger.yaml path")
	revisionPath := flag.String("revision", "docs/swagger.yaml", "revision swagger.yaml path")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> [-revision <path>]")
		os.Exit(2)
	}

	base, err := load(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base spec: %v\n", err)
		os.Exit(1)
	}
	revision, err := load(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision spec: %v\n", err)
		os.Exit(1)
	}

	if issues := breakingChanges(base, revision); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}
	fmt.Println("openapi compatibility check passed")
}

func load(path string) (api, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func parse(raw []byte) (api, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, fmt.Errorf("missing top-level paths field")
	}

	out := make(api)
	for path, methods := range doc.Paths {
		for method, node := range methods {
			m := strings.ToLower(strings.TrimSpace(method))
			if !httpMethods[m] {
				continue
			}
			var op operation
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(m), path, err)
			}
			out[strings.ToUpper(m)+" "+path] = op
		}
	}
	return out, nil
}

// breakingChanges lists removed operations, removed response codes and parameters that
// became required.
func breakingChanges(base, revision api) []string {
	var issues []string
	for key, baseOp := range base {
		revOp, ok := revision[key]
		if !ok {
			issues = append(issues, "removed operation: "+key)
			continue
		}
		for code := range baseOp.Responses {
			if _, ok := revOp.Responses[code]; !ok {
				issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", key, code))
			}
		}

		wasRequired := make(map[string]bool)
		for _, p := range baseOp.Parameters {
			wasRequired[p.In+":"+p.Name] = p.Required
		}
		for _, p := range revOp.Parameters {
			if p.Required && !wasRequired[p.In+":"+p.Name] {
				issues = append(issues, fmt.Sprintf("new required parameter: %s -> %s (%s)", key, p.Name, p.In))
			}
		}
	}
	sort.Strings(issues)
	return issues
}
