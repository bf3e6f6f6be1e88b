package models

// DashboardStats are the back-office headline numbers. Revenue sums settled
// payments only.
type DashboardStats struct {
	Bookings int   `json:"bookings"`
	Users    int   `json:"users"`
	Vehicles int   `json:"vehicles"`
	Revenue  int64 `json:"revenue"`
}
