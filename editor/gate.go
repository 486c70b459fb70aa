// ABOUTME: Credential gate for entering edit mode: a plain shared-secret comparison.
// ABOUTME: This is a UI deterrent, not a security boundary; the secret ships with the server config.
package editor

// DefaultCreatorCode is the creator code the original site shipped with.
const DefaultCreatorCode = "starpradmin123"

// Gate decides whether a credential may unlock edit mode.
type Gate interface {
	Check(credential string) bool
}

// SharedSecretGate compares the credential to one fixed string. The
// comparison is not constant-time.
type SharedSecretGate struct {
	secret string
}

// NewSharedSecretGate returns a gate that accepts exactly secret.
func NewSharedSecretGate(secret string) SharedSecretGate {
	return SharedSecretGate{secret: secret}
}

func (g SharedSecretGate) Check(credential string) bool {
	return credential == g.secret
}
