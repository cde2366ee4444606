package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"taskdash/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskdash.db"
	DefaultStorageKey     = "tasks"
	EnvConfigPath         = "TASKDASH_CONFIG"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Edit           string `toml:"edit"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	NextField      string `toml:"next_field"`
	PrevField      string `toml:"prev_field"`
	FilterStatus   string `toml:"filter_status"`
	FilterPriority string `toml:"filter_priority"`
	ToggleSort     string `toml:"toggle_sort"`
}

type Storage struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

type Config struct {
	Storage               Storage `toml:"storage"`
	DefaultStatusFilter   string  `toml:"default_status_filter"`
	DefaultPriorityFilter string  `toml:"default_priority_filter"`
	DefaultSort           string  `toml:"default_sort"`
	LogFile               string  `toml:"log_file"`
	Keys                  Keymap  `toml:"keys"`
}

// ResolveConfigPath picks the config file location: $TASKDASH_CONFIG, then the
// user config directory, then the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "taskdash", DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.backfill()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch strings.ToLower(c.DefaultSort) {
	case "asc", "ascending", "desc", "descending":
	default:
		return fmt.Errorf("unknown default_sort %q", c.DefaultSort)
	}
	if !isAll(c.DefaultStatusFilter) {
		if _, err := task.ParseStatus(c.DefaultStatusFilter); err != nil {
			return fmt.Errorf("default_status_filter: %w", err)
		}
	}
	if !isAll(c.DefaultPriorityFilter) {
		if _, err := task.ParsePriority(c.DefaultPriorityFilter); err != nil {
			return fmt.Errorf("default_priority_filter: %w", err)
		}
	}
	return nil
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

func (c *Config) backfill() {
	def := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.Path == "" && c.Storage.Backend != BackendMemory {
		c.Storage.Path = def.Storage.Path
	}
	if c.Storage.Key == "" {
		c.Storage.Key = def.Storage.Key
	}
	if c.DefaultStatusFilter == "" {
		c.DefaultStatusFilter = def.DefaultStatusFilter
	}
	if c.DefaultPriorityFilter == "" {
		c.DefaultPriorityFilter = def.DefaultPriorityFilter
	}
	if c.DefaultSort == "" {
		c.DefaultSort = def.DefaultSort
	}
	c.Keys = c.Keys.withDefaults(def.Keys)
}

func (k Keymap) withDefaults(def Keymap) Keymap {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Keymap{
		Quit:           pick(k.Quit, def.Quit),
		Add:            pick(k.Add, def.Add),
		Up:             pick(k.Up, def.Up),
		Down:           pick(k.Down, def.Down),
		Edit:           pick(k.Edit, def.Edit),
		Delete:         pick(k.Delete, def.Delete),
		Confirm:        pick(k.Confirm, def.Confirm),
		Cancel:         pick(k.Cancel, def.Cancel),
		NextField:      pick(k.NextField, def.NextField),
		PrevField:      pick(k.PrevField, def.PrevField),
		FilterStatus:   pick(k.FilterStatus, def.FilterStatus),
		FilterPriority: pick(k.FilterPriority, def.FilterPriority),
		ToggleSort:     pick(k.ToggleSort, def.ToggleSort),
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		Storage: Storage{
			Backend: BackendSQLite,
			Path:    DefaultDBName,
			Key:     DefaultStorageKey,
		},
		DefaultStatusFilter:   "All",
		DefaultPriorityFilter: "All",
		DefaultSort:           "asc",
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Edit:           "e",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			NextField:      "tab",
			PrevField:      "shift+tab",
			FilterStatus:   "s",
			FilterPriority: "p",
			ToggleSort:     "o",
		},
	}
}
