package order

import "strings"

// Filter returns the orders whose radicado, tenant code, tenant name or status
// contains q (case-insensitive). An empty query returns orders unchanged.
func Filter(orders []WorkOrder, q string) []WorkOrder {
	if q == "" {
		return orders
	}
	q = strings.ToLower(q)
	var out []WorkOrder
	for _, o := range orders {
		haystack := strings.ToLower(o.Radicado + " " + o.Tenant.Code + " " + o.Tenant.Name + " " + string(o.Status))
		if strings.Contains(haystack, q) {
			out = append(out, o)
		}
	}
	return out
}

// Partition splits orders into those a technician can claim and those
// assigned to them. The two sets are disjoint.
func Partition(orders []WorkOrder, me string) (available, mine []WorkOrder) {
	for _, o := range orders {
		switch {
		case o.AssignedTo == "" && o.Status == StatusNew:
			available = append(available, o)
		case me != "" && o.AssignedTo == me:
			mine = append(mine, o)
		}
	}
	return available, mine
}

// CountByStatus tallies orders per known status.
func CountByStatus(orders []WorkOrder) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}
