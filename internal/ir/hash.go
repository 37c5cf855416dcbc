package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainConfig is the domain-separation tag for config content hashes. The
// null-byte separator (see hashWithDomain) prevents a config hash from ever
// colliding with a hash computed under an unrelated domain even if the raw
// bytes happened to match.
const DomainConfig = "fluxgraph/config/v1"

// hashWithDomain computes SHA-256(domain + 0x00 + data). The null byte
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConfigHash computes the content-addressed hash of a GraphSpec. The
// coordinator's LoadConfig uses it to detect a no-op reload (spec.md §6: a
// LoadConfig whose hash matches the currently loaded config is a no-op),
// and the audit log uses it as the key for a config-load record.
func ConfigHash(spec GraphSpec) (string, error) {
	canonical, err := MarshalCanonical(spec)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainConfig, canonical), nil
}

// MustConfigHash is like ConfigHash but panics on error. Use only in tests
// or call sites where the GraphSpec is known to already be well-formed
// (e.g. one that just passed compiler.Compile).
func MustConfigHash(spec GraphSpec) string {
	hash, err := ConfigHash(spec)
	if err != nil {
		panic(err)
	}
	return hash
}
