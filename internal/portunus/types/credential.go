package types

import "encoding/hex"

// Credential is the identifier of a presented tag: its UID bytes as
// lowercase, zero-padded hex with no separators ("04a1b2c3").
type Credential string

// CredentialFromUID renders a tag UID as a Credential. An empty UID
// yields the empty Credential.
func CredentialFromUID(uid []byte) Credential {
	return Credential(hex.EncodeToString(uid))
}

func (c Credential) String() string { return string(c) }
