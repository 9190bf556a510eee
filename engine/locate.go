package engine

import (
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/h2gis/h2gis-go/errors"
)

// Environment variables consulted for an explicit library path.
const (
	EnvLibraryPath    = "H2GIS_NATIVE_LIB"
	EnvLibraryPathAlt = "H2GIS_LIBRARY"
)

func fallbackPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"libh2gis.dylib",
			"/usr/local/lib/libh2gis.dylib",
			"/opt/homebrew/lib/libh2gis.dylib",
		}
	case "windows":
		return []string{
			"h2gis.dll",
		}
	default:
		return []string{
			"/usr/lib/libh2gis.so",
			"/usr/local/lib/libh2gis.so",
		}
	}
}

// Locate resolves the native library path. Resolution order: the explicit
// override, the H2GIS_NATIVE_LIB / H2GIS_LIBRARY environment variables,
// then the first existing entry of the platform fallback list.
func Locate(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if p := os.Getenv(EnvLibraryPath); p != "" {
		return p, nil
	}
	if p := os.Getenv(EnvLibraryPathAlt); p != "" {
		return p, nil
	}

	for _, p := range fallbackPaths() {
		if _, err := os.Stat(p); err == nil {
			Logger().Debug("native library found on fallback path", zap.String("path", p))
			return p, nil
		}
	}
	return "", errors.New(errors.PhaseInit, errors.KindLibraryMissing).
		Detail("no native library found; set %s or pass an explicit path", EnvLibraryPath).
		Build()
}
