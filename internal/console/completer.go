// Package console provides the line IO adapters eggshell reads commands through:
// an ishell shell, a bare readline instance, a plain reader for scripts and pipes,
// and a scripted fake for tests.
package console

import (
	"slices"
	"sort"
	"sync"

	"github.com/chzyer/readline"

	"eggshell/pkg/shelltypes"
)

// Completer is a readline.AutoCompleter whose candidates are replaced before
// every read.
type Completer struct {
	mu   sync.Mutex
	root *readline.PrefixCompleter
}

// NewCompleter creates an empty completer.
func NewCompleter() *Completer {
	return &Completer{}
}

// Set replaces the candidates. Nested hint trees become follow-up items.
// PrefixCompleter lists labels only, so Description and Meta are dropped here.
func (c *Completer) Set(completions []shelltypes.Completion) {
	items := make([]readline.PrefixCompleterInterface, 0, len(completions))
	for _, comp := range completions {
		items = append(items, readline.PcItem(comp.Label, NestedItems(comp.Nested)...))
	}
	c.mu.Lock()
	c.root = readline.NewPrefixCompleter(items...)
	c.mu.Unlock()
}

// Do implements readline.AutoCompleter.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	c.mu.Lock()
	root := c.root
	c.mu.Unlock()
	if root == nil {
		return nil, 0
	}
	return root.Do(line, pos)
}

// NestedItems converts a hint tree into completer items. Supported trees are
// map[string]any (values are subtrees or nil), map[string][]string,
// map[string]struct{} sets and []string leaves. Other values yield no items.
func NestedItems(tree any) []readline.PrefixCompleterInterface {
	switch t := tree.(type) {
	case map[string]any:
		keys := sortedKeys(t)
		items := make([]readline.PrefixCompleterInterface, len(keys))
		for i, k := range keys {
			items[i] = readline.PcItem(k, NestedItems(t[k])...)
		}
		return items
	case map[string][]string:
		keys := sortedKeys(t)
		items := make([]readline.PrefixCompleterInterface, len(keys))
		for i, k := range keys {
			items[i] = readline.PcItem(k, NestedItems(t[k])...)
		}
		return items
	case map[string]struct{}:
		return NestedItems(sortedKeys(t))
	case []string:
		leaves := slices.Clone(t)
		sort.Strings(leaves)
		items := make([]readline.PrefixCompleterInterface, len(leaves))
		for i, k := range leaves {
			items[i] = readline.PcItem(k)
		}
		return items
	default:
		return nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
