package cache

import (
	"encoding/json"
	"fmt"
)

// Key derives the cache key for an operation and its arguments. Arguments
// are round-tripped through JSON so that map ordering never matters:
// encoding/json writes map keys sorted, giving a canonical form. Two calls
// with equivalent arguments always land on the same entry.
func Key(op string, args any) string {
	if args == nil {
		return op
	}
	data, err := json.Marshal(args)
	if err != nil {
		// Unmarshalable arguments still need a stable key.
		return op + "?" + fmt.Sprintf("%+v", args)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return op + "?" + string(data)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return op + "?" + string(data)
	}
	return op + "?" + string(canonical)
}
