package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillgraph-dev/skillgraph/internal/catalog"
	"github.com/skillgraph-dev/skillgraph/internal/refs"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return false, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func OptionalStringSliceFlag(cmd *cobra.Command, name string) ([]string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return nil, nil
	}
	value, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// ParseResourceTypes reads --resource-types as a csv of resource kinds.
func ParseResourceTypes(cmd *cobra.Command) ([]catalog.ResourceKind, error) {
	raw, err := OptionalStringFlag(cmd, "resource-types")
	if err != nil || raw == "" {
		return nil, err
	}

	kinds := make([]catalog.ResourceKind, 0)
	for _, part := range splitCSV(raw) {
		kind, err := catalog.ParseResourceKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// ParseDepTypes reads --dep-types as a csv of reference types.
func ParseDepTypes(cmd *cobra.Command) ([]refs.Type, error) {
	raw, err := OptionalStringFlag(cmd, "dep-types")
	if err != nil || raw == "" {
		return nil, err
	}

	known := make(map[refs.Type]bool)
	for _, t := range refs.AllTypes() {
		known[t] = true
	}

	types := make([]refs.Type, 0)
	for _, part := range splitCSV(raw) {
		t := refs.Type(strings.ToLower(part))
		if !known[t] {
			return nil, fmt.Errorf("unknown reference type %q (supported: script, skill, import, path, implements)", part)
		}
		types = append(types, t)
	}
	return types, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
