package rewrite

import "runtime"

// sharedLibrarySuffix returns the platform's shared library extension.
func sharedLibrarySuffix(goos string) string {
	switch goos {
	case "windows":
		return ".dll"
	case "darwin", "ios":
		return ".dylib"
	default:
		return ".so"
	}
}

// TexturePlugin names the renderer plugin that reads non-native images.
var TexturePlugin = "RtxHioImage" + sharedLibrarySuffix(runtime.GOOS)
