package version

// Version is the current version of shopware-version-gate.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/shopware-version-gate/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// GetVersion returns the current version of the gate.
func GetVersion() string {
	return Version
}

// UserAgent is sent with every admin API request.
func UserAgent() string {
	return "shopware-version-gate/" + Version
}
