package config

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func withEnv(key, value string, fn func()) {
	prev, had := os.LookupEnv(key)
	os.Setenv(key, value)
	defer func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	}()
	fn()
}

func TestConfig(t *testing.T) {
	Convey("Strict mode", t, func() {
		withEnv(EnvStrict, "", func() { So(GetStrict(), ShouldBeFalse) })
		withEnv(EnvStrict, "true", func() { So(GetStrict(), ShouldBeTrue) })
		withEnv(EnvStrict, "1", func() { So(GetStrict(), ShouldBeTrue) })
		withEnv(EnvStrict, "yes please", func() { So(GetStrict(), ShouldBeFalse) })
	})
	Convey("Output format", t, func() {
		withEnv(EnvFormat, "", func() { So(GetOutputFormat(), ShouldEqual, "dumb") })
		withEnv(EnvFormat, "json", func() { So(GetOutputFormat(), ShouldEqual, "json") })
		withEnv(EnvFormat, "xml", func() { So(GetOutputFormat(), ShouldEqual, "dumb") })
	})
}
