package schema

// ShopPurchaseTable represents the 'shop.purchase' table
type ShopPurchaseTable struct {
	Table       string
	ID          string
	UserID      string
	MovieID     string
	PurchasedAt string
}

// ShopPurchase is the schema definition for shop.purchase
var ShopPurchase = ShopPurchaseTable{
	Table:       "shop.purchase",
	ID:          "id",
	UserID:      "userid",
	MovieID:     "movieid",
	PurchasedAt: "purchasedat",
}
