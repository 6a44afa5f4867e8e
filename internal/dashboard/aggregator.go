package dashboard

import "wajba-be/internal/order"

// Record is the minimal projection of an order the dashboard needs. A zero
// Status means the source row had none; such rows count toward order volume
// but never toward revenue.
type Record struct {
	Status order.Status
	Total  float64
}

type Stats struct {
	OrderCount      int     `json:"order_count"`
	RevenueSum      float64 `json:"revenue_sum"`
	CustomerCount   int64   `json:"customer_count"`
	RestaurantCount int64   `json:"restaurant_count"`
}

// Aggregate is a pure reduction. Only completed orders count toward realized
// revenue; in-flight and cancelled orders are volume, not money.
func Aggregate(orders []Record, restaurantCount, customerCount int64) Stats {
	stats := Stats{
		OrderCount:      len(orders),
		RestaurantCount: restaurantCount,
		CustomerCount:   customerCount,
	}

	for _, r := range orders {
		if r.Status == order.StatusCompleted {
			stats.RevenueSum += r.Total
		}
	}
	return stats
}
