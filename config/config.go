/*
	Helpers for loading contextual config.

	Config for pak means "things that are the host machine operator's concerns",
	as opposed to parameters for function calls.  Config is read only by the
	command; library calls take everything they need as explicit arguments.
*/
package config

import (
	"os"
	"strconv"
)

const (
	EnvStrict = "PAK_STRICT"
	EnvFormat = "PAK_FORMAT"
)

/*
	Return whether strict archive handling is the default.

	Strict mode rejects table sizes that aren't a whole number of entries
	and names too long for an entry, rather than warning and carrying on.
	The default is false; set `PAK_STRICT` to any value strconv.ParseBool
	accepts as true to change it.  Unparseable values count as false.
*/
func GetStrict() bool {
	strict, err := strconv.ParseBool(os.Getenv(EnvStrict))
	return err == nil && strict
}

/*
	Return the default output format for the command ("dumb" or "json").

	The default value is "dumb";
	this can be overriden by the `PAK_FORMAT` environment variable.
	Unrecognized values fall back to the default.
*/
func GetOutputFormat() string {
	switch f := os.Getenv(EnvFormat); f {
	case "json", "dumb":
		return f
	default:
		return "dumb"
	}
}
