package lower

import (
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// Strategy selects the primitive chain used for composite activations.
type Strategy int

// Decomposition strategies.
const (
	// StrategyRelu6 lowers HardSwish to Add, Relu6, Mul, Div.
	StrategyRelu6 Strategy = iota
	// StrategyClip lowers HardSwish to Scale, ClipByValue, Mul, Div.
	StrategyClip
)

// String returns the strategy's config name.
func (s Strategy) String() string {
	switch s {
	case StrategyRelu6:
		return "relu6"
	case StrategyClip:
		return "clip"
	default:
		return "unknown"
	}
}

// ParseStrategy parses "relu6" or "clip".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "relu6":
		return StrategyRelu6, nil
	case "clip":
		return StrategyClip, nil
	default:
		return 0, errors.Errorf("unknown decomposition strategy %q (want relu6 or clip)", name)
	}
}

// Profile describes one deployment target. A session applies a single
// profile to every operator it lowers.
type Profile struct {
	Name     string
	Strategy Strategy
	FuseCode bool // Add, Mul and Div take a trailing int32 fuse-code operand
}

// Built-in profiles.
var (
	ProfileNNAdapter = Profile{Name: "nnadapter", Strategy: StrategyRelu6, FuseCode: true}
	ProfileAscend    = Profile{Name: "ascend", Strategy: StrategyClip, FuseCode: false}
)

var profiles = map[string]Profile{
	ProfileNNAdapter.Name: ProfileNNAdapter,
	ProfileAscend.Name:    ProfileAscend,
}

// LookupProfile returns a built-in profile by name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, errors.Errorf("unknown target profile %q (known: %s)",
			name, strings.Join(ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames lists the built-in profiles.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type options struct {
	profile Profile
	log     logr.Logger
}

func defaultOptions() options {
	return options{profile: ProfileNNAdapter, log: logr.Discard()}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Session, Lower or Program.
type Option func(*options)

// WithProfile selects the deployment target profile.
func WithProfile(p Profile) Option {
	return func(o *options) { o.profile = p }
}

// WithLogger sets the logger. Conversions log at V(3), operands at V(5).
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}
