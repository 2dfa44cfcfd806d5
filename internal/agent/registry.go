package agent

import "fmt"

// BuiltinPlugins returns every plugin the agent knows how to run, in a
// fixed order so report output is stable across runs.
func BuiltinPlugins() []CheckPlugin {
	return []CheckPlugin{
		PerimeterScan{},
		RateLimitScan{},
		AuthzScan{},
		MobileBuildScan{},
	}
}

// PluginByName looks up a single built-in plugin for `agent scan <name>`.
func PluginByName(name string) (CheckPlugin, error) {
	for _, p := range BuiltinPlugins() {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("agent: unknown plugin %q", name)
}
