package scanconfig

import (
	"strconv"

	"github.com/spf13/pflag"
)

// FlagBinding names a CLI flag and the dotted Config key it feeds into
// Resolve's CLIFlags layer. internal/cli registers the actual pflag.Flag
// values (this package only consumes them); the CLI surface itself is an
// external-collaborator concern, not something scanconfig defines.
type FlagBinding struct {
	FlagName  string
	ConfigKey string
}

// ConfigFlagBindings is the table internal/cli uses to know which of its
// persistent flags double as overrides for this Config.
var ConfigFlagBindings = []FlagBinding{
	{FlagName: "parallel-workers", ConfigKey: "parallel.workers"},
	{FlagName: "parallel-threshold", ConfigKey: "parallel.threshold"},
	{FlagName: "cache-dir", ConfigKey: "cache.dir"},
	{FlagName: "max-file-size", ConfigKey: "max_file_size"},
	{FlagName: "storage-backend", ConfigKey: "storage.backend"},
}

// CollectChangedFlags returns a flat map containing only the bindings whose
// flag the user actually set (pflag.Flag.Changed), so an untouched flag
// never shadows a lower-precedence layer with its zero value.
func CollectChangedFlags(fs *pflag.FlagSet, bindings []FlagBinding) map[string]any {
	out := make(map[string]any)
	for _, b := range bindings {
		flag := fs.Lookup(b.FlagName)
		if flag == nil || !flag.Changed {
			continue
		}
		out[b.ConfigKey] = parseFlagValue(flag)
	}
	return out
}

func parseFlagValue(flag *pflag.Flag) any {
	switch flag.Value.Type() {
	case "bool":
		v, _ := strconv.ParseBool(flag.Value.String())
		return v
	case "int":
		v, _ := strconv.Atoi(flag.Value.String())
		return v
	case "int64":
		v, _ := strconv.ParseInt(flag.Value.String(), 10, 64)
		return v
	default:
		return flag.Value.String()
	}
}
