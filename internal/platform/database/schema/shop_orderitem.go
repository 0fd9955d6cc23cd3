package schema

// ShopOrderItemTable represents the 'shop.orderitem' table
type ShopOrderItemTable struct {
	Table        string
	ID           string
	OrderID      string
	MovieID      string
	PriceAtOrder string
}

// ShopOrderItem is the schema definition for shop.orderitem
var ShopOrderItem = ShopOrderItemTable{
	Table:        "shop.orderitem",
	ID:           "id",
	OrderID:      "orderid",
	MovieID:      "movieid",
	PriceAtOrder: "priceatorder",
}
