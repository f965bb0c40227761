package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix marks the environment variables that override configuration.
const EnvPrefix = "HTTPKIT_"

// FileSystem abstracts the file operations of the loader for tests.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem is the FileSystem backed by the operating system.
type OSFileSystem struct{}

// Exists reports whether path can be stat'ed.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file into the process environment. Variables that
// are already set win.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

type options struct {
	name       string
	fs         FileSystem
	configFile string
	envFile    string
}

// Option customises Load and LoadInto.
type Option func(*options)

// WithName sets the name used to search for files. Defaults to DefaultName.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithFileSystem replaces the operating system file access.
func WithFileSystem(fs FileSystem) Option {
	return func(o *options) { o.fs = fs }
}

// WithConfigFile sets the YAML file instead of searching for one. The file
// must exist.
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithEnvFile sets the .env file instead of searching for one. The file
// must exist.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// Load reads, defaults and validates the CLI configuration.
func Load(opts ...Option) (*Config, error) {
	var cfg Config
	if err := LoadInto(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadInto unmarshals the configuration sources into cfg without applying
// defaults or validating.
func LoadInto(cfg any, opts ...Option) error {
	o := options{name: DefaultName, fs: OSFileSystem{}}
	for _, opt := range opts {
		opt(&o)
	}

	configFile, err := resolve(o.fs, o.configFile, configCandidates(o.name))
	if err != nil {
		return err
	}
	envFile, err := resolve(o.fs, o.envFile, envCandidates(o.name))
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetDefault("observability.tracing.sample_rate", 1.0)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}
	if envFile != "" {
		if err := o.fs.LoadEnv(envFile); err != nil {
			return fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	bindEnv(v, os.Environ(), leafKeys(reflect.TypeOf(cfg)))

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	return nil
}

// resolve returns explicit when set and present, otherwise the first
// existing candidate, or "" when there is none.
func resolve(fs FileSystem, explicit string, candidates []string) (string, error) {
	if explicit != "" {
		if !fs.Exists(explicit) {
			return "", fmt.Errorf("config: file %s not found", explicit)
		}
		return explicit, nil
	}
	for _, path := range candidates {
		if fs.Exists(path) {
			return path, nil
		}
	}
	return "", nil
}

func configCandidates(name string) []string {
	var paths []string
	for _, dir := range []string{"./cmd/" + name, "./config", "."} {
		paths = append(paths, dir+"/config.yml", dir+"/config.yaml")
	}
	return append(paths, "./"+name+".yml", "./"+name+".yaml")
}

func envCandidates(name string) []string {
	return []string{"./cmd/" + name + "/.env", "./.env." + name, "./.env"}
}

// bindEnv copies HTTPKIT_ variables into v. The underscores of a variable
// may separate nesting levels or belong to a key, so each split is tried
// against the scalar keys of the target.
func bindEnv(v *viper.Viper, environ []string, known map[string]struct{}) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		for _, k := range keyVariants(strings.TrimPrefix(key, EnvPrefix)) {
			if _, ok := known[k]; ok {
				v.Set(k, value)
			}
		}
	}
}

// leafKeys lists the dotted mapstructure paths of the scalar and slice
// fields reachable from t. Maps and funcs cannot be set from the environment.
func leafKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{})
	collectKeys(t, "", keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys map[string]struct{}) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		key := prefix
		if !strings.Contains(opts, "squash") {
			if name == "" {
				name = strings.ToLower(f.Name)
			}
			if prefix != "" {
				key = prefix + "." + name
			} else {
				key = name
			}
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Struct:
			collectKeys(ft, key, keys)
		case reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		default:
			keys[key] = struct{}{}
		}
	}
}

const maxEnvKeyParts = 8

// keyVariants expands CLIENT_BASE_URL into client.base.url, client.base_url,
// client_base.url and client_base_url.
func keyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	if len(parts) > maxEnvKeyParts {
		return []string{strings.Join(parts, "_")}
	}
	n := len(parts) - 1
	variants := make([]string, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		var b strings.Builder
		b.WriteString(parts[0])
		for i := 1; i <= n; i++ {
			if mask&(1<<(i-1)) != 0 {
				b.WriteByte('_')
			} else {
				b.WriteByte('.')
			}
			b.WriteString(parts[i])
		}
		variants = append(variants, b.String())
	}
	return variants
}
