package env

import (
	"os"
	"strings"
)

// VariablePrefix marks OS environment variables that become form variables:
// FORMPOST_VAR_token=abc makes {{token}} resolve to abc.
const VariablePrefix = "FORMPOST_VAR_"

// LoadVariables collects the variables available to a submission. Later
// sources win: prefixed OS environment variables, then the .env file (when
// envFile is set), then explicit overrides.
func LoadVariables(envFile string, overrides map[string]string) (map[string]any, error) {
	var fileVars map[string]any
	if envFile != "" {
		vars, err := LoadAndExportDotEnv(envFile)
		if err != nil {
			return nil, err
		}
		fileVars = toAny(vars)
	}
	return MergeVariables(LoadSystemEnv(VariablePrefix), fileVars, toAny(overrides)), nil
}

func toAny(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}
