package app

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cohesivestack/valgo"
	"github.com/joshjon/kit/log"

	"github.com/metaed/metaed/constants"
	"github.com/metaed/metaed/internal/valgoutil"
)

const defaultConcurrency = 4

type BuildConfig struct {
	Logger                LoggerConfig `yaml:"logger" envPrefix:"LOGGER_"`
	ExtensionEntitySuffix string       `yaml:"extensionEntitySuffix" env:"EXTENSION_ENTITY_SUFFIX"` // default: Extension
	Units                 []UnitConfig `yaml:"units"`
	// FailOnError makes the build exit non-zero when any unit reports an
	// error category failure.
	FailOnError bool `yaml:"failOnError" env:"FAIL_ON_ERROR"` // default: true
	Concurrency int  `yaml:"concurrency" env:"CONCURRENCY"`    // default: 4
}

func (c *BuildConfig) InitDefaults() {
	c.Logger.InitDefaults()
	c.ExtensionEntitySuffix = constants.DefaultExtensionEntitySuffix
	c.FailOnError = true
	c.Concurrency = defaultConcurrency
}

func (c *BuildConfig) Validation() *valgo.Validation {
	v := valgo.New()
	v.In("logger", c.Logger.Validation())
	v.Is(valgoutil.EntityNameValidator(c.ExtensionEntitySuffix, "extensionEntitySuffix"))
	v.Is(valgo.Int(c.Concurrency, "concurrency").GreaterThan(0))
	v.Is(valgoutil.NonEmptySliceValidator(c.Units, "units"))

	seen := map[string]bool{}
	for i, unit := range c.Units {
		duplicate := seen[unit.Name]
		v.InRow("units", i, unit.Validation())
		v.InRow("units", i, valgo.Is(valgo.String(unit.Name, "name").Passing(func(string) bool {
			return !duplicate
		}, "{{title}} must be unique")))
		seen[unit.Name] = true
	}
	return v
}

// Unit returns the configured unit with the given name.
func (c *BuildConfig) Unit(name string) (UnitConfig, bool) {
	for _, unit := range c.Units {
		if unit.Name == name {
			return unit, true
		}
	}
	return UnitConfig{}, false
}

// UnitConfig is one compilation unit: a set of recorded event files built
// into a single repository.
type UnitConfig struct {
	Name   string   `yaml:"name"`
	Inputs []string `yaml:"inputs"` // doublestar globs
}

func (c *UnitConfig) Validation() *valgo.Validation {
	v := valgo.Is(
		valgo.String(c.Name, "name").Not().Blank(),
		valgoutil.NonEmptySliceValidator(c.Inputs, "inputs"),
	)
	for i, input := range c.Inputs {
		v.InRow("inputs", i, valgo.Is(valgo.String(input, "input").Passing(doublestar.ValidatePattern,
			"{{title}} must be a valid glob pattern")))
	}
	return v
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LEVEL"`           // default: info
	Structured bool   `yaml:"structured" env:"STRUCTURED"` // default: true
}

func (c *LoggerConfig) InitDefaults() {
	c.Structured = true
	c.Level = "info"
}

func (c *LoggerConfig) Validation() *valgo.Validation {
	return valgo.Is(valgo.String(c.Level, "level").Passing(func(_ string) bool {
		_, ok := log.ParseLevel(c.Level)
		return ok
	}, "Must be one of [debug, info, warn, error]"))
}
