// Package tools exposes the verdict-stage generation tools as a name-keyed
// registry. The verdict agent dispatches through it during normal operation
// and the HTTP layer serves it for direct diagnostic invocation.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// Tool is a directly invokable generation operation
type Tool interface {
	// Name is the registry key
	Name() string

	// Description explains what the tool does
	Description() string

	// ArgsSchema maps argument names to short descriptions
	ArgsSchema() map[string]string

	// Execute runs the tool with keyword arguments
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// Info describes a registered tool for the introspection endpoint
type Info struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ArgsSchema  map[string]string `json:"args_schema"`
}

// Registry holds the available tools. It implements core.ToolExecutor.
type Registry struct {
	tools  map[string]Tool
	logger *zap.Logger
}

// NewRegistry creates a registry serving the standard gateway tools
func NewRegistry(generator core.TextGenerator, prompts *core.PromptBuilder, logger *zap.Logger) *Registry {
	r := &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
	r.register(&spamAnalyzerTool{generator: generator})
	r.register(&quickVerdictTool{generator: generator})
	r.register(&detailedAnalyzerTool{generator: generator, prompts: prompts})
	return r
}

func (r *Registry) register(t Tool) {
	r.tools[t.Name()] = t
}

// Execute runs the named tool, or returns ErrToolNotFound
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %q (available: %v)", core.ErrToolNotFound, name, r.List())
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		r.logger.Error("Tool execution failed", zap.String("tool", name), zap.Error(err))
		return "", fmt.Errorf("tool %q failed: %w", name, err)
	}

	r.logger.Info("Tool executed", zap.String("tool", name))
	return result, nil
}

// List returns the registered tool names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info returns metadata for a registered tool
func (r *Registry) Info(name string) (*Info, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrToolNotFound, name)
	}
	return &Info{
		Name:        tool.Name(),
		Description: tool.Description(),
		ArgsSchema:  tool.ArgsSchema(),
	}, nil
}

// decodeArgs converts loosely-typed keyword arguments into a typed struct.
// Arguments arrive either as native Go values (agent dispatch) or as decoded
// JSON maps (direct HTTP invocation); a JSON round trip handles both.
func decodeArgs(args map[string]interface{}, dst interface{}) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}
