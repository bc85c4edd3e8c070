package extractor

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rxtech-lab/boerse-charts/internal/statetree"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// SupportedMajorVersion is the newest payload major version this extractor
// understands. Payloads announcing a higher major fail fast instead of being
// mis-parsed by shape probing.
const SupportedMajorVersion = 1

// CheckPayloadVersion validates the version the payload announces about
// itself, when it announces one.
//
// Compatibility rules:
//   - A payload without a version string is accepted; shape probing decides.
//   - "main" (development build) and unparseable versions are accepted.
//   - Minor and patch versions can differ freely.
//   - A major version above SupportedMajorVersion is rejected.
func CheckPayloadVersion(tree statetree.Node) error {
	raw, found := payloadVersion(tree)
	if !found {
		return nil
	}

	raw = strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if raw == "" || raw == "main" {
		return nil
	}

	version, err := semver.NewVersion(raw)
	if err != nil {
		return nil
	}

	if version.Major() > SupportedMajorVersion {
		return errors.Newf(errors.ErrCodeStateVersionUnsupported,
			"payload version %s is newer than supported major %d.x.x", raw, SupportedMajorVersion)
	}

	return nil
}

// payloadVersion probes the locations different payload generations store
// their version string in.
func payloadVersion(tree statetree.Node) (string, bool) {
	node := tree.FirstOf(
		[]any{"config", "version"},
		[]any{"state", "app", "version"},
	)
	if v, ok := node.Str(); ok {
		return v, true
	}
	if v, ok := tree.Block("AppVersion").Key("version").Str(); ok {
		return v, true
	}

	return "", false
}
