package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Namespace for deterministic composite keys. Fixed so that the same input
// pair always yields the same storage key across processes and versions.
var keyNamespace = uuid.MustParse("8f14b7a2-6c1d-5e9a-b430-2d7f01c3a8e4")

// LegoUniqueID returns the storage key for one version of a Lego: a UUIDv5
// over the (legoUUID, stampUUID) pair. The key is immutable once created.
func LegoUniqueID(legoUUID, stampUUID string) string {
	return uuid.NewSHA1(keyNamespace, []byte("lego\x00"+legoUUID+"\x00"+stampUUID)).String()
}

// PncsKey returns the storage key for a Pncs row: a UUIDv5 over the
// (id, value) pair.
func PncsKey(id int64, value string) string {
	return uuid.NewSHA1(keyNamespace, []byte(fmt.Sprintf("pncs\x00%d\x00%s", id, value))).String()
}
