package tools

import (
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

const (
	ToolAmazonCartCount    entity.ToolName = "get_cart_count"
	ToolAmazonGoToCart     entity.ToolName = "go_to_cart"
	ToolAmazonProductTitle entity.ToolName = "get_product_title"
	ToolAmazonAddToCart    entity.ToolName = "add_to_cart"
)

const amazonProductPath = `/(dp|gp/product)/[A-Z0-9]{10}`

func AmazonEntry(deps Deps) (*service.Entry, error) {
	return service.NewEntry(entity.EntryMeta{
		ID:          "amazon",
		Name:        "Amazon",
		Version:     "1.1.0",
		Description: "Shopping cart and product page helpers for Amazon storefronts.",
		Domains: []string{
			"amazon.com", "amazon.co.uk", "amazon.de", "amazon.fr", "amazon.ca", "amazon.co.jp",
		},
	},
		NewAmazonCartCountTool(deps),
		NewAmazonGoToCartTool(deps),
		NewAmazonProductTitleTool(deps),
		NewAmazonAddToCartTool(deps),
	)
}

func NewAmazonCartCountTool(deps Deps) *CountTool {
	return newCountTool(deps, countSpec{
		name: ToolAmazonCartCount,
		description: "Reads the number of items in the Amazon shopping cart from the navigation bar badge. " +
			"Amazon caps the badge, so \"10+\" is reported with isOverflow set. Works on any Amazon page.",
		selectors: []string{"#nav-cart-count"},
		format:    "Cart contains %s items.",
		notFound:  "Cart count element not found. Make sure you are on Amazon.",
	})
}

func NewAmazonGoToCartTool(deps Deps) *ClickTool {
	return newClickTool(deps, clickSpec{
		name: ToolAmazonGoToCart,
		description: "Opens the Amazon shopping cart by clicking the cart link in the navigation bar. " +
			"Navigates away from the current page; calling it again reloads the cart.",
		selectors: []string{"#nav-cart", "a[href*='/gp/cart/view.html']"},
		done:      "Navigated to cart.",
		notFound:  "Cart link not found. Make sure you are on Amazon.",
		navigates: true,
		ready:     "#sc-active-cart, #sc-empty-cart",
	})
}

func NewAmazonProductTitleTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolAmazonProductTitle,
		description: "Reads the title of the product shown on an Amazon product detail page.",
		pathPattern: amazonProductPath,
		locators:    textAt("#productTitle", "#title"),
		format:      "Product title: %s",
		field:       "title",
		notFound:    "Product title not found. Make sure you are on an Amazon product page.",
	})
}

func NewAmazonAddToCartTool(deps Deps) *ClickTool {
	return newClickTool(deps, clickSpec{
		name: ToolAmazonAddToCart,
		description: "Clicks \"Add to Cart\" on an Amazon product detail page. Not idempotent: " +
			"every call adds another unit of the product to the cart.",
		pathPattern: amazonProductPath,
		selectors:   []string{"#add-to-cart-button", "input[name='submit.add-to-cart']"},
		done:        "Clicked Add to Cart.",
		notFound:    "Add to Cart button not found. Make sure you are on an Amazon product page that can be purchased.",
		navigates:   true,
	})
}
