package loader

import "os"

// EnvLoader reads configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "LEXI_")
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "LEXI_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
	}
}

// NewEnvLoaderWithLookup creates a loader reading variables through lookup.
func NewEnvLoaderWithLookup(prefix string, lookup func(string) (string, bool)) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.lookup = lookup
	return l
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "WORD_DICT":         "user.word_dict",
		prefix + "AUTO_SAVE":         "user.auto_save",
		prefix + "LOG_LEVEL":         "logging.level",
		prefix + "LOG_ENABLED":       "logging.enabled",
		prefix + "HISTORY_MAX_DEPTH": "history.max_depth",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load returns the raw value of every mapped variable that is set, keyed
// by config path. Empty values count as set.
func (l *EnvLoader) Load() map[string]string {
	out := make(map[string]string)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			out[path] = val
		}
	}
	return out
}
