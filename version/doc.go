// Package version exposes build metadata for the ncrud binary.
//
// The variables are set at build time with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/ncrud/version.Version=1.2.3 \
//	  -X github.com/ncobase/ncrud/version.Revision=abc123 \
//	  -X 'github.com/ncobase/ncrud/version.BuiltAt=$(date -u +%FT%TZ)'" \
//	  ./cmd/ncrud
//
// Without ldflags, GetVersionInfo falls back to the VCS stamp that the Go
// toolchain embeds in module builds.
package version
