package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	base := Info{Version: "0.0.0", Branch: "unknown", Revision: "unknown", BuiltAt: "unknown", GoVersion: "go1.24"}
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	got := fromBuildInfo(base, bi)
	assert.Equal(t, "v1.4.0", got.Version)
	assert.Equal(t, "0123456", got.Revision)
	assert.Equal(t, "2024-05-01T10:00:00Z", got.BuiltAt)
	assert.True(t, got.Modified)
	assert.Contains(t, got.String(), "dirty")

	stamped := Info{Version: "1.2.3", Revision: "abc", BuiltAt: "now"}
	got = fromBuildInfo(stamped, bi)
	assert.Equal(t, "1.2.3", got.Version)
	assert.Equal(t, "abc", got.Revision)

	got = fromBuildInfo(base, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "0.0.0", got.Version)
	assert.Contains(t, got.JSON(), `"goVersion": "go1.24"`)
}
