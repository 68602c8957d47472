package domain

// Product is a catalog entry.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	CategoryID    int64   `json:"categoryId,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// ProductPage is one page of the shop listing.
type ProductPage struct {
	Products      []Product `json:"products"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
	CurrentPage   int       `json:"currentPage"`
}

// Category groups products.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CartItem is one line of the active user's cart.
type CartItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}
