package order

import (
	"fmt"
	"strings"
)

// Find returns the order whose id equals ref, or whose radicado equals ref
// ignoring case.
func Find(orders []WorkOrder, ref string) (WorkOrder, error) {
	ref = strings.TrimSpace(ref)
	for _, o := range orders {
		if string(o.ID) == ref {
			return o, nil
		}
	}
	for _, o := range orders {
		if o.Radicado != "" && strings.EqualFold(o.Radicado, ref) {
			return o, nil
		}
	}
	return WorkOrder{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
}
