package schema

// ShopCartItemTable represents the 'shop.cartitem' table
type ShopCartItemTable struct {
	Table   string
	ID      string
	CartID  string
	MovieID string
	AddedAt string
}

// ShopCartItem is the schema definition for shop.cartitem
var ShopCartItem = ShopCartItemTable{
	Table:   "shop.cartitem",
	ID:      "id",
	CartID:  "cartid",
	MovieID: "movieid",
	AddedAt: "addedat",
}
