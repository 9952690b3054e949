package env

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadDotEnv reads KEY=value pairs from a .env file without touching the
// process environment. Lines may start with "export", values may be single
// or double quoted, and " #" starts a comment after an unquoted value.
func LoadDotEnv(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer f.Close()

	vars, err := parseDotEnv(f)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return vars, nil
}

func parseDotEnv(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if key, value, ok := parseDotEnvLine(scanner.Text()); ok {
			vars[key] = value
		}
	}
	return vars, scanner.Err()
}

func parseDotEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, ok = strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", false
	}
	return key, unquoteDotEnv(strings.TrimSpace(value)), true
}

func unquoteDotEnv(v string) string {
	if len(v) >= 2 {
		switch q := v[0]; {
		case q == '\'' && v[len(v)-1] == q:
			return v[1 : len(v)-1]
		case q == '"' && v[len(v)-1] == q:
			return strings.NewReplacer(`\n`, "\n", `\"`, `"`).Replace(v[1 : len(v)-1])
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v
}

// LoadAndExportDotEnv loads a .env file and also sets each variable in the
// process environment, unless it is already set there, so {{$NAME}}
// references see it.
func LoadAndExportDotEnv(path string) (map[string]string, error) {
	vars, err := LoadDotEnv(path)
	if err != nil {
		return nil, err
	}
	for k, v := range vars {
		if os.Getenv(k) == "" {
			_ = os.Setenv(k, v)
		}
	}
	return vars, nil
}
