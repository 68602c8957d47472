package domain

// OrderStatus is the fulfillment state reported by the backend. The client treats it as opaque.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a placed order.
type Order struct {
	ID              int64         `json:"id"`
	Code            string        `json:"orderCode,omitempty"`
	UserID          int64         `json:"userId,omitempty"`
	Status          OrderStatus   `json:"status"`
	TotalAmount     float64       `json:"totalAmount"`
	ShippingFee     float64       `json:"shippingFee,omitempty"`
	ShippingAddress string        `json:"shippingAddress,omitempty"`
	PaymentMethod   string        `json:"paymentMethod,omitempty"`
	CreatedAt       string        `json:"createdAt,omitempty"`
	OrderDetails    []OrderDetail `json:"orderDetails,omitempty"`
}

// OrderDetail is one product line of an order.
type OrderDetail struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Orders        []Order `json:"orders"`
	TotalPages    int     `json:"totalPages"`
	TotalElements int64   `json:"totalElements"`
}

// NewOrder is the checkout payload.
type NewOrder struct {
	Items           []OrderDetail `json:"items"`
	ShippingAddress string        `json:"shippingAddress"`
	ShippingFee     float64       `json:"shippingFee"`
	PaymentMethod   string        `json:"paymentMethod"`
}

// Address is one of the user's saved delivery addresses.
type Address struct {
	ID            int64  `json:"id,omitempty"`
	RecipientName string `json:"recipientName"`
	Phone         string `json:"phone"`
	ProvinceCode  int    `json:"provinceCode,omitempty"`
	Province      string `json:"province"`
	DistrictCode  int    `json:"districtCode,omitempty"`
	District      string `json:"district"`
	WardCode      int    `json:"wardCode,omitempty"`
	Ward          string `json:"ward"`
	Detail        string `json:"detail"`
	IsDefault     bool   `json:"isDefault"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalOrders          int64   `json:"totalOrders"`
	TotalUsers           int64   `json:"totalUsers"`
	TotalProducts        int64   `json:"totalProducts"`
	TotalRevenue         float64 `json:"totalRevenue"`
	TotalCompletedOrders int64   `json:"totalCompletedOrders"`
}

// RevenueSeries is a chart-ready revenue breakdown.
type RevenueSeries struct {
	Labels   []string         `json:"labels"`
	Datasets []RevenueDataset `json:"datasets"`
}

// RevenueDataset is one line of a RevenueSeries.
type RevenueDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// RecentOrder is a row of the dashboard's latest-orders table.
type RecentOrder struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customerName"`
	CreatedAt    string      `json:"createdAt"`
	Status       OrderStatus `json:"status"`
	Total        float64     `json:"total"`
}

// TopProduct is a best-selling product row.
type TopProduct struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"productName"`
	Quantity    int64   `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}
