package schema

// ShopCartTable represents the 'shop.cart' table
type ShopCartTable struct {
	Table     string
	ID        string
	UserID    string
	CreatedAt string
}

// ShopCart is the schema definition for shop.cart
var ShopCart = ShopCartTable{
	Table:     "shop.cart",
	ID:        "id",
	UserID:    "userid",
	CreatedAt: "createdat",
}
