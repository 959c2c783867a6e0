package tools

import (
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

const (
	ToolAliCartCount    entity.ToolName = "get_cart_count"
	ToolAliGoToCart     entity.ToolName = "go_to_cart"
	ToolAliProductTitle entity.ToolName = "get_product_title"
)

func AliExpressEntry(deps Deps) (*service.Entry, error) {
	return service.NewEntry(entity.EntryMeta{
		ID:          "aliexpress",
		Name:        "AliExpress",
		Version:     "1.0.1",
		Description: "Shopping cart and product page helpers for AliExpress.",
		Domains:     []string{"aliexpress.com", "aliexpress.us"},
	},
		NewAliCartCountTool(deps),
		NewAliGoToCartTool(deps),
		NewAliProductTitleTool(deps),
	)
}

func NewAliCartCountTool(deps Deps) *CountTool {
	return newCountTool(deps, countSpec{
		name:        ToolAliCartCount,
		description: "Reads the number of items in the AliExpress cart from the header badge. \"99+\" is reported with isOverflow set.",
		selectors:   []string{"[class*='cart--number']", ".shop-cart .cart-number"},
		format:      "Cart contains %s items.",
		notFound:    "Cart count element not found. Make sure you are on AliExpress.",
		zeroAnchor:  "a[href*='shoppingcart']",
	})
}

func NewAliGoToCartTool(deps Deps) *ClickTool {
	return newClickTool(deps, clickSpec{
		name:        ToolAliGoToCart,
		description: "Opens the AliExpress shopping cart from the header. Navigates away from the current page.",
		selectors:   []string{"a[href*='shoppingcart']", "[class*='cart--wrap'] a"},
		done:        "Navigated to cart.",
		notFound:    "Cart link not found. Make sure you are on AliExpress.",
		navigates:   true,
	})
}

func NewAliProductTitleTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolAliProductTitle,
		description: "Reads the product title on an AliExpress item page.",
		pathPattern: `^/item/\d+\.html`,
		locators:    textAt("h1[data-pl='product-title']", ".product-title-text"),
		format:      "Product title: %s",
		field:       "title",
		notFound:    "Product title not found. Make sure you are on an AliExpress item page.",
	})
}
