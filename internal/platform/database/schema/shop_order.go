package schema

// ShopOrderTable represents the 'shop.order' table
type ShopOrderTable struct {
	Table       string
	ID          string
	UserID      string
	Status      string
	TotalAmount string
	CreatedAt   string
	UpdatedAt   string
}

// ShopOrder is the schema definition for shop.order
var ShopOrder = ShopOrderTable{
	Table:       `shop."order"`,
	ID:          "id",
	UserID:      "userid",
	Status:      "status",
	TotalAmount: "totalamount",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
