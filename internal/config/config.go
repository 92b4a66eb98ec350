// Package config loads the run configuration from a TOML file. Every
// section is optional; absent sections fall back to the built-in
// defaults (pattern vocabulary, timings, waits).
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/loykin/hallfill/internal/prompt"
	"github.com/loykin/hallfill/internal/transcript"
	"github.com/loykin/hallfill/internal/workflow"
)

// DefaultCandidates are the well-known locations probed when no
// executable path is configured.
var DefaultCandidates = []string{
	"mobile_system.exe",
	"main.exe",
	"MobileBusinessHallSystem.exe",
	"./mobile_system",
	"./main",
}

// FileConfig represents the top-level TOML structure.
type FileConfig struct {
	Executable string   `toml:"executable" mapstructure:"executable"`
	Candidates []string `toml:"candidates" mapstructure:"candidates"`
	Count      int      `toml:"count" mapstructure:"count"`

	Timings  *TimingsConfig  `toml:"timings" mapstructure:"timings"`
	Waits    *WaitsConfig    `toml:"waits" mapstructure:"waits"`
	Log      *LogConfig      `toml:"log" mapstructure:"log"`
	History  *HistoryConfig  `toml:"history" mapstructure:"history"`
	Patterns *PatternsConfig `toml:"patterns" mapstructure:"patterns"`
}

type TimingsConfig struct {
	Menu      time.Duration `toml:"menu" mapstructure:"menu"`
	Input     time.Duration `toml:"input" mapstructure:"input"`
	Operation time.Duration `toml:"operation" mapstructure:"operation"`
	Settle    time.Duration `toml:"settle" mapstructure:"settle"`
}

type WaitsConfig struct {
	Init        time.Duration `toml:"init" mapstructure:"init"`
	AnyKey      time.Duration `toml:"any_key" mapstructure:"any_key"`
	Menu        time.Duration `toml:"menu" mapstructure:"menu"`
	EnsureMenu  time.Duration `toml:"ensure_menu" mapstructure:"ensure_menu"`
	Field       time.Duration `toml:"field" mapstructure:"field"`
	PhoneOffer  time.Duration `toml:"phone_offer" mapstructure:"phone_offer"`
	PhoneChoice time.Duration `toml:"phone_choice" mapstructure:"phone_choice"`
	PhoneResult time.Duration `toml:"phone_result" mapstructure:"phone_result"`
	Save        time.Duration `toml:"save" mapstructure:"save"`
	Exit        time.Duration `toml:"exit" mapstructure:"exit"`
}

type LogConfig struct {
	Path       string `toml:"path" mapstructure:"path"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

type HistoryConfig struct {
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

// PatternsConfig overrides individual prompt categories. An empty list
// keeps the built-in patterns for that category.
type PatternsConfig struct {
	InitBanner  []string      `toml:"init_banner" mapstructure:"init_banner"`
	PressAnyKey []string      `toml:"press_any_key" mapstructure:"press_any_key"`
	MainMenu    []string      `toml:"main_menu" mapstructure:"main_menu"`
	FieldEntry  []string      `toml:"field_entry" mapstructure:"field_entry"`
	Fields      FieldPatterns `toml:"fields" mapstructure:"fields"`
	PhoneOffer  []string      `toml:"phone_offer" mapstructure:"phone_offer"`
	PhoneChoice []string      `toml:"phone_choice" mapstructure:"phone_choice"`
	PhoneResult []string      `toml:"phone_result" mapstructure:"phone_result"`
	SaveConfirm []string      `toml:"save_confirm" mapstructure:"save_confirm"`
	ExitConfirm []string      `toml:"exit_confirm" mapstructure:"exit_confirm"`
}

type FieldPatterns struct {
	Name    []string `toml:"name" mapstructure:"name"`
	Gender  []string `toml:"gender" mapstructure:"gender"`
	Age     []string `toml:"age" mapstructure:"age"`
	IDCard  []string `toml:"id_card" mapstructure:"id_card"`
	Job     []string `toml:"job" mapstructure:"job"`
	Address []string `toml:"address" mapstructure:"address"`
}

// Load parses the TOML file at path.
func Load(path string) (FileConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return FileConfig{}, err
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return FileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// WorkflowTimings converts the timings section, or nil when absent.
func (fc FileConfig) WorkflowTimings() *workflow.Timings {
	if fc.Timings == nil {
		return nil
	}
	t := workflow.DefaultTimings()
	overrideDur(&t.Menu, fc.Timings.Menu)
	overrideDur(&t.Input, fc.Timings.Input)
	overrideDur(&t.Operation, fc.Timings.Operation)
	overrideDur(&t.Settle, fc.Timings.Settle)
	return &t
}

// WorkflowWaits converts the waits section, or nil when absent.
func (fc FileConfig) WorkflowWaits() *workflow.Waits {
	if fc.Waits == nil {
		return nil
	}
	w := workflow.DefaultWaits()
	overrideDur(&w.Init, fc.Waits.Init)
	overrideDur(&w.AnyKey, fc.Waits.AnyKey)
	overrideDur(&w.Menu, fc.Waits.Menu)
	overrideDur(&w.EnsureMenu, fc.Waits.EnsureMenu)
	overrideDur(&w.Field, fc.Waits.Field)
	overrideDur(&w.PhoneOffer, fc.Waits.PhoneOffer)
	overrideDur(&w.PhoneChoice, fc.Waits.PhoneChoice)
	overrideDur(&w.PhoneResult, fc.Waits.PhoneResult)
	overrideDur(&w.Save, fc.Waits.Save)
	overrideDur(&w.Exit, fc.Waits.Exit)
	return &w
}

// Vocabulary merges pattern overrides over the built-in vocabulary, or
// returns nil when no patterns section is present.
func (fc FileConfig) Vocabulary() *prompt.Vocabulary {
	if fc.Patterns == nil {
		return nil
	}
	p := fc.Patterns
	v := prompt.Default()
	overrideSet(&v.InitBanner, "init", p.InitBanner)
	overrideSet(&v.PressAnyKey, "anykey", p.PressAnyKey)
	overrideSet(&v.MainMenu, "main-menu", p.MainMenu)
	overrideSet(&v.FieldEntry, "field-entry", p.FieldEntry)
	overrideSet(&v.Fields[0], "name", p.Fields.Name)
	overrideSet(&v.Fields[1], "gender", p.Fields.Gender)
	overrideSet(&v.Fields[2], "age", p.Fields.Age)
	overrideSet(&v.Fields[3], "id_card", p.Fields.IDCard)
	overrideSet(&v.Fields[4], "job", p.Fields.Job)
	overrideSet(&v.Fields[5], "address", p.Fields.Address)
	overrideSet(&v.PhoneOffer, "phone-offer", p.PhoneOffer)
	overrideSet(&v.PhoneChoice, "phone-choice", p.PhoneChoice)
	overrideSet(&v.PhoneResult, "phone-result", p.PhoneResult)
	overrideSet(&v.SaveConfirm, "save", p.SaveConfirm)
	overrideSet(&v.ExitConfirm, "exit", p.ExitConfirm)
	return &v
}

// LogFile converts the log section into the transcript file config.
func (fc FileConfig) LogFile() transcript.FileConfig {
	if fc.Log == nil {
		return transcript.FileConfig{}
	}
	return transcript.FileConfig{
		Path:       fc.Log.Path,
		MaxSizeMB:  fc.Log.MaxSizeMB,
		MaxBackups: fc.Log.MaxBackups,
		MaxAgeDays: fc.Log.MaxAgeDays,
		Compress:   fc.Log.Compress,
	}
}

// HistoryDSN returns the configured outcome store DSN, if any.
func (fc FileConfig) HistoryDSN() string {
	if fc.History == nil {
		return ""
	}
	return fc.History.DSN
}

func overrideDur(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func overrideSet(dst *prompt.Set, name string, exprs []string) {
	if len(exprs) > 0 {
		*dst = prompt.NewSet(name, exprs...)
	}
}
