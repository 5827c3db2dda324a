package catalog

// The catalog is seeded with a fixed product list: catalog management is
// out of scope for the storefront itself.
var initialProducts = []Product{
	{
		UID:          "product_wireless_headphones",
		Name:         "Wireless Headphones",
		Description:  "Over-ear wireless headphones with active noise cancellation",
		PriceInCents: 7999,
		Category:     "electronics",
		StockCount:   25,
		InStock:      true,
	},
	{
		UID:                  "product_smart_watch",
		Name:                 "Smart Watch",
		Description:          "Fitness tracking smart watch with heart-rate monitor",
		PriceInCents:         19999,
		OriginalPriceInCents: 24999,
		Category:             "electronics",
		StockCount:           12,
		InStock:              true,
	},
	{
		UID:          "product_running_shoes",
		Name:         "Running Shoes",
		Description:  "Lightweight road running shoes",
		PriceInCents: 12000,
		Category:     "sports",
		StockCount:   40,
		InStock:      true,
	},
	{
		UID:                  "product_yoga_mat",
		Name:                 "Yoga Mat",
		Description:          "Non-slip exercise mat, 6mm",
		PriceInCents:         2499,
		OriginalPriceInCents: 3499,
		Category:             "sports",
		StockCount:           60,
		InStock:              true,
	},
	{
		UID:          "product_coffee_maker",
		Name:         "Coffee Maker",
		Description:  "12-cup programmable drip coffee maker",
		PriceInCents: 4999,
		Category:     "home",
		StockCount:   18,
		InStock:      true,
	},
	{
		UID:          "product_desk_lamp",
		Name:         "Desk Lamp",
		Description:  "LED desk lamp with adjustable arm",
		PriceInCents: 1999,
		Category:     "home",
		StockCount:   35,
		InStock:      true,
	},
	{
		UID:          "product_backpack",
		Name:         "Backpack",
		Description:  "Water-resistant 25L daypack with laptop sleeve",
		PriceInCents: 5499,
		Category:     "accessoires",
		StockCount:   22,
		InStock:      true,
	},
	{
		UID:          "product_water_bottle",
		Name:         "Water Bottle",
		Description:  "Insulated stainless steel bottle, 750ml",
		PriceInCents: 1500,
		Category:     "accessoires",
		StockCount:   0,
		InStock:      false,
	},
}
