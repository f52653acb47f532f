package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chazu/dannycam/pkg/camerr"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Option keys, shared by flags, config files, environment variables
// (DANNYCAM_TOOL_DIAMETER and so on) and job file settings.
const (
	KeyToolDiameter = "tool-diameter"
	KeyStepover     = "stepover"
	KeySafeZ        = "safe-z"
	KeyFeed         = "feed"
	KeyZFeed        = "z-feed"
	KeyStepDown     = "step-down"
	KeyTopZ         = "top-z"
	KeyFinalZ       = "final-z"
	KeyRPM          = "rpm"
	KeyClimb        = "climb"
	KeyPrecision    = "precision"
	KeyTolerance    = "tolerance"
	KeyRampAngle    = "ramp-angle"
	KeyFudge        = "fudge"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "DANNYCAM"

// Keys returns every option key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues()))
	for k := range defaultValues() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key names a configuration option.
func IsKey(key string) bool {
	_, ok := defaultValues()[key]
	return ok
}

func defaultValues() map[string]interface{} {
	d := Defaults()
	return map[string]interface{}{
		KeyToolDiameter: d.ToolDiameter,
		KeyStepover:     d.Stepover,
		KeySafeZ:        d.SafeZ,
		KeyFeed:         d.FeedXY,
		KeyZFeed:        d.FeedZ,
		KeyStepDown:     d.StepDown,
		KeyTopZ:         d.TopZ,
		KeyFinalZ:       d.FinalZ,
		KeyRPM:          d.RPM,
		KeyClimb:        d.Climb,
		KeyPrecision:    d.Precision,
		KeyTolerance:    d.PathTolerance,
		KeyRampAngle:    d.RampAngle,
		KeyFudge:        d.Fudge,
	}
}

// RegisterFlags adds a flag for every option to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.Float64(KeyToolDiameter, d.ToolDiameter, "tool diameter in mm")
	fs.Float64(KeyStepover, d.Stepover, "stepover in mm (0 = half the tool diameter)")
	fs.Float64(KeySafeZ, d.SafeZ, "safe retract height in mm")
	fs.Float64(KeyFeed, d.FeedXY, "XY feed rate in mm/min")
	fs.Float64(KeyZFeed, d.FeedZ, "Z feed rate in mm/min")
	fs.Float64(KeyStepDown, d.StepDown, "depth per pass in mm")
	fs.Float64(KeyTopZ, d.TopZ, "top of material Z in mm")
	fs.Float64(KeyFinalZ, d.FinalZ, "final depth Z in mm")
	fs.Int(KeyRPM, d.RPM, "spindle speed")
	fs.Bool(KeyClimb, d.Climb, "climb milling (clockwise profiles)")
	fs.Int(KeyPrecision, d.Precision, "decimals in emitted numbers")
	fs.Float64(KeyTolerance, d.PathTolerance, "path blending tolerance (G64 P)")
	fs.Float64(KeyRampAngle, d.RampAngle, "helix and ramp descent angle in degrees")
	fs.Float64(KeyFudge, d.Fudge, "helix radius as a fraction of the tool radius")
}

// Loader merges configuration layers. From lowest to highest precedence:
// defaults, config file, job file settings, environment, flags set on the
// command line.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader holding the defaults and reading the
// environment.
func NewLoader() *Loader {
	v := viper.New()
	for k, val := range defaultValues() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlags makes flags registered with RegisterFlags override other layers
// when they are set explicitly.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	if err := l.v.BindPFlags(fs); err != nil {
		return fmt.Errorf("config: bind flags: %w", err)
	}
	return nil
}

// ReadFile reads a yaml, toml or json config file.
func (l *Loader) ReadFile(path string) error {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return camerr.Wrap(err, camerr.InvalidConfiguration, "read config file "+path)
	}
	return l.checkKeys(l.v.AllKeys())
}

// MergeSettings layers job file settings over the config file.
func (l *Loader) MergeSettings(settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	if err := l.checkKeys(keys); err != nil {
		return err
	}
	typed, err := normalize(settings)
	if err != nil {
		return err
	}
	if err := l.v.MergeConfigMap(typed); err != nil {
		return camerr.Wrap(err, camerr.InvalidConfiguration, "merge job settings")
	}
	return nil
}

// normalize converts each setting to the type of its default so job files
// may write 3 where 3.0 is meant.
func normalize(settings map[string]interface{}) (map[string]interface{}, error) {
	defaults := defaultValues()
	out := make(map[string]interface{}, len(settings))
	for k, val := range settings {
		var err error
		switch defaults[k].(type) {
		case float64:
			out[k], err = cast.ToFloat64E(val)
		case int:
			out[k], err = cast.ToIntE(val)
		case bool:
			out[k], err = cast.ToBoolE(val)
		default:
			out[k] = val
		}
		if err != nil {
			return nil, camerr.Configuration(k, val, err.Error())
		}
	}
	return out, nil
}

func (l *Loader) checkKeys(keys []string) error {
	sort.Strings(keys)
	for _, k := range keys {
		if !IsKey(k) {
			return camerr.Newf(camerr.InvalidConfiguration, "unknown option %q (known: %s)", k, strings.Join(Keys(), ", "))
		}
	}
	return nil
}

// Config returns the merged configuration. It is not validated.
func (l *Loader) Config() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, camerr.Wrap(err, camerr.InvalidConfiguration, "decode configuration")
	}
	return c, nil
}

// OutputPath returns the path the program is written to: explicit when
// given, otherwise the input path with its extension replaced by .ngc.
func OutputPath(input, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if strings.EqualFold(ext, ".ngc") {
		return base + ".out.ngc"
	}
	return base + ".ngc"
}
