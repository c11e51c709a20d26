package ledger

import (
	"fmt"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
)

// Pebble key schema
//
//	ord:<orderID>                → Order (JSON)
//	usr:<userID>:<seq>           → orderID
//
// userID and seq are zero-padded to 20 digits so lexicographic order
// equals numeric order and a prefix scan yields insertion order.

const (
	prefixOrder = "ord:"
	prefixUser  = "usr:"
)

// orderKey returns the key for an order
// Format: "ord:{orderID}"
func orderKey(id string) []byte {
	return []byte(prefixOrder + id)
}

// userOrderKey returns the per-user index key
// Format: "usr:{userID}:{seq}"
func userOrderKey(user order.UserID, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", prefixUser, uint64(user), seq))
}

// userPrefix returns the prefix for all index entries of a user
// Format: "usr:{userID}:"
func userPrefix(user order.UserID) []byte {
	return []byte(fmt.Sprintf("%s%020d:", prefixUser, uint64(user)))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
