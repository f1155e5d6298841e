package constants

// Well-known destination categories used by the admin dashboard. Uploads are
// not restricted to this set; it exists for seeding and CLI hints.
const (
	CategoryColors    = "colors"
	CategoryLaminates = "laminates"
	CategoryLogos     = "logos"
	CategoryHero      = "hero"
	CategoryProducts  = "products"
)

// KnownCategories lists the categories the dashboard surfaces by default.
var KnownCategories = []string{
	CategoryColors,
	CategoryLaminates,
	CategoryLogos,
	CategoryHero,
	CategoryProducts,
}
