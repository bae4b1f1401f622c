package builders

import (
	"canvas-studio-backend/internal/models"
	"context"
	"fmt"
	"sort"
	"sync"
)

// Builder turns a loosely typed input (toolbar payload or tool call
// arguments) into a new board object. Id and zIndex are assigned by the
// caller.
type Builder func(ctx context.Context, input map[string]interface{}) (models.BoardObject, error)

// builders is the registry that maps builder name -> Builder.
var (
	buildersMu sync.RWMutex
	builders   = make(map[string]Builder)
)

func init() {
	RegisterDefaultBuilders()
}

// RegisterBuilder registers a Builder under the given name.
// If a builder already exists, it will be overwritten.
func RegisterBuilder(name string, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[name] = b
}

// UnregisterBuilder removes a registered builder.
func UnregisterBuilder(name string) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	delete(builders, name)
}

// GetBuilder returns a builder and a boolean indicating presence.
func GetBuilder(name string) (Builder, bool) {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	b, ok := builders[name]
	return b, ok
}

// Names lists the registered builders in alphabetical order.
func Names() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build runs the named builder.
func Build(ctx context.Context, name string, input map[string]interface{}) (models.BoardObject, error) {
	b, ok := GetBuilder(name)
	if !ok {
		return models.BoardObject{}, fmt.Errorf("unknown builder %q", name)
	}
	if input == nil {
		input = map[string]interface{}{}
	}
	return b(ctx, input)
}
