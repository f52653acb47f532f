// Package config holds the job configuration: tool, feeds, heights and
// tuning values. A Config is validated once before compilation starts and
// is then read-only.
package config

import (
	"fmt"
	"math"

	"github.com/chazu/dannycam/pkg/camerr"
	"github.com/chazu/dannycam/pkg/gcode"
	"github.com/chazu/dannycam/pkg/geom"
)

// Config is every recognized job option. Lengths are in millimeters, feed
// rates in millimeters per minute.
type Config struct {
	ToolDiameter  float64 `mapstructure:"tool-diameter"`
	Stepover      float64 `mapstructure:"stepover"` // 0 means half the tool diameter
	SafeZ         float64 `mapstructure:"safe-z"`
	FeedXY        float64 `mapstructure:"feed"`
	FeedZ         float64 `mapstructure:"z-feed"`
	StepDown      float64 `mapstructure:"step-down"`
	TopZ          float64 `mapstructure:"top-z"`
	FinalZ        float64 `mapstructure:"final-z"`
	RPM           int     `mapstructure:"rpm"`
	Climb         bool    `mapstructure:"climb"`
	Precision     int     `mapstructure:"precision"`
	PathTolerance float64 `mapstructure:"tolerance"`
	RampAngle     float64 `mapstructure:"ramp-angle"` // degrees
	Fudge         float64 `mapstructure:"fudge"`
}

// Defaults returns the stock configuration: a quarter inch end mill cutting
// one millimeter deep.
func Defaults() Config {
	return Config{
		ToolDiameter:  6.35,
		SafeZ:         25.4,
		FeedXY:        1016,
		FeedZ:         508,
		StepDown:      1,
		TopZ:          0,
		FinalZ:        -1,
		RPM:           10000,
		Climb:         false,
		Precision:     gcode.DefaultPrecision,
		PathTolerance: 0.01,
		RampAngle:     5,
		Fudge:         0.95,
	}
}

// EffectiveStepover returns the stepover, defaulting to half the tool.
func (c Config) EffectiveStepover() float64 {
	if c.Stepover == 0 {
		return c.ToolDiameter / 2
	}
	return c.Stepover
}

// WorkZ returns the depth the profile is cut at. Cutting happens in a
// single pass one step-down below the top, never below the final depth.
func (c Config) WorkZ() float64 {
	return math.Max(c.TopZ-c.StepDown, c.FinalZ)
}

// Context returns the machine context for emission.
func (c Config) Context() gcode.Context {
	return gcode.NewContext(c.FeedXY, c.FeedZ, c.SafeZ, c.Precision)
}

// Finding is one configuration problem.
type Finding struct {
	Option   string
	Value    interface{}
	Message  string
	Severity geom.Severity
}

func (f Finding) Error() string {
	return fmt.Sprintf("%s = %v: %s", f.Option, f.Value, f.Message)
}

// Validate checks every option and returns all findings. Comparisons are
// written so that NaN fails them.
func (c Config) Validate() []Finding {
	var fs []Finding
	bad := func(option string, value interface{}, format string, args ...interface{}) {
		fs = append(fs, Finding{Option: option, Value: value, Message: fmt.Sprintf(format, args...), Severity: geom.SeverityError})
	}
	warn := func(option string, value interface{}, format string, args ...interface{}) {
		fs = append(fs, Finding{Option: option, Value: value, Message: fmt.Sprintf(format, args...), Severity: geom.SeverityWarning})
	}

	if !(c.ToolDiameter > 0) || math.IsInf(c.ToolDiameter, 0) {
		bad(KeyToolDiameter, c.ToolDiameter, "tool diameter must be positive")
	}
	so := c.EffectiveStepover()
	if !(so > 0) {
		bad(KeyStepover, c.Stepover, "stepover must be positive")
	} else if so > c.ToolDiameter {
		bad(KeyStepover, c.Stepover, "stepover exceeds the tool diameter %g", c.ToolDiameter)
	}
	if !(c.FeedXY > 0) || math.IsInf(c.FeedXY, 0) {
		bad(KeyFeed, c.FeedXY, "feed rate must be positive")
	}
	if !(c.FeedZ > 0) || math.IsInf(c.FeedZ, 0) {
		bad(KeyZFeed, c.FeedZ, "Z feed rate must be positive")
	}
	if !(c.StepDown > 0) || math.IsInf(c.StepDown, 0) {
		bad(KeyStepDown, c.StepDown, "step-down must be positive")
	}
	if math.IsNaN(c.TopZ) || math.IsInf(c.TopZ, 0) {
		bad(KeyTopZ, c.TopZ, "top of material must be finite")
	}
	if !(c.FinalZ < c.TopZ) || math.IsInf(c.FinalZ, 0) {
		bad(KeyFinalZ, c.FinalZ, "final depth must be below the top of material %g", c.TopZ)
	}
	if !(c.SafeZ > c.TopZ) || math.IsInf(c.SafeZ, 0) {
		bad(KeySafeZ, c.SafeZ, "safe height must be above the top of material %g", c.TopZ)
	}
	if c.RPM <= 0 {
		bad(KeyRPM, c.RPM, "spindle speed must be positive")
	}
	if c.Precision < 0 || c.Precision > 9 {
		bad(KeyPrecision, c.Precision, "precision must be between 0 and 9 decimals")
	}
	if !(c.PathTolerance >= 0) || math.IsInf(c.PathTolerance, 0) {
		bad(KeyTolerance, c.PathTolerance, "path tolerance must not be negative")
	}
	if !(c.RampAngle > 0 && c.RampAngle < 90) {
		bad(KeyRampAngle, c.RampAngle, "ramp angle must be between 0 and 90 degrees")
	}
	if !(c.Fudge > 0 && c.Fudge <= 1) {
		bad(KeyFudge, c.Fudge, "fudge factor must be in (0, 1]")
	}

	if depth := c.TopZ - c.FinalZ; c.StepDown > 0 && c.StepDown < depth {
		warn(KeyStepDown, c.StepDown, "cutting a single pass to %g, above the final depth %g", c.WorkZ(), c.FinalZ)
	}
	return fs
}

// Err returns the first blocking finding as an InvalidConfiguration error,
// or nil when the configuration is usable.
func (c Config) Err() error {
	for _, f := range c.Validate() {
		if f.Severity == geom.SeverityError {
			return camerr.Configuration(f.Option, f.Value, f.Message)
		}
	}
	return nil
}

// Warnings returns the advisory findings.
func (c Config) Warnings() []Finding {
	var out []Finding
	for _, f := range c.Validate() {
		if f.Severity == geom.SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}
