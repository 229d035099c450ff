package ports

// CredentialVerifier compares a plaintext secret with a stored digest.
// A mismatch is (false, nil); an error means the digest itself is unusable.
type CredentialVerifier interface {
	Verify(plaintext, digest string) (bool, error)
}

// PasswordHasher produces digests that a CredentialVerifier accepts.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}
