package core

// Category is a static descriptor: stable id, display name, icon glyph and a
// presentation color hint. Categories are predefined per (profile, type) and
// never change at runtime.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// GenericCategoryID is assigned to imported rows with a blank category column.
const GenericCategoryID = "generica"

// Fallback glyphs for transactions whose category id has no match in the
// active taxonomy (orphaned ids survive taxonomy changes by design).
const (
	FallbackIncomeIcon  = "💰"
	FallbackExpenseIcon = "💳"
)

var privateExpenseCategories = []Category{
	{ID: "food", Name: "Spesa Alimentare", Icon: "🛒", Color: "bg-emerald-50"},
	{ID: "rent", Name: "Affitto/Mutuo", Icon: "🏠", Color: "bg-blue-50"},
	{ID: "utilities", Name: "Utenze", Icon: "⚡", Color: "bg-amber-50"},
	{ID: "leisure", Name: "Svago", Icon: "🎬", Color: "bg-purple-50"},
	{ID: "transport", Name: "Trasporti", Icon: "🚗", Color: "bg-slate-50"},
}

var privateIncomeCategories = []Category{
	{ID: "salary", Name: "Stipendio", Icon: "💰", Color: "bg-emerald-50"},
	{ID: "gift", Name: "Regalo", Icon: "🎁", Color: "bg-pink-50"},
	{ID: "sale", Name: "Vendita", Icon: "🏷️", Color: "bg-blue-50"},
	{ID: "refund", Name: "Rimborso", Icon: "↩️", Color: "bg-orange-50"},
}

var businessExpenseCategories = []Category{
	{ID: "salaries", Name: "Stipendi", Icon: "👥", Color: "bg-indigo-50"},
	{ID: "saas", Name: "SaaS/Software", Icon: "☁️", Color: "bg-sky-50"},
	{ID: "tax", Name: "Tasse/IVA", Icon: "🏛️", Color: "bg-rose-50"},
	{ID: "marketing", Name: "Marketing", Icon: "📣", Color: "bg-pink-50"},
	{ID: "vendors", Name: "Fornitori", Icon: "📦", Color: "bg-orange-50"},
}

var businessIncomeCategories = []Category{
	{ID: "invoice", Name: "Fattura Cliente", Icon: "📑", Color: "bg-emerald-50"},
	{ID: "services", Name: "Consulenza", Icon: "🧠", Color: "bg-indigo-50"},
	{ID: "products", Name: "Vendita Prodotti", Icon: "🛍️", Color: "bg-sky-50"},
	{ID: "investment", Name: "Investimento", Icon: "📈", Color: "bg-emerald-50"},
}

type taxonomyKey struct {
	profile UserType
	txType  TransactionType
}

// One table instead of conditionals scattered across handlers. Order inside
// each list is the presentation order.
var taxonomy = map[taxonomyKey][]Category{
	{UserPrivate, TypeExpense}:  privateExpenseCategories,
	{UserPrivate, TypeIncome}:   privateIncomeCategories,
	{UserBusiness, TypeExpense}: businessExpenseCategories,
	{UserBusiness, TypeIncome}:  businessIncomeCategories,
}

// CategoriesFor returns the ordered category list for a profile and
// transaction type. Unknown combinations (UNSET profile included) return nil.
func CategoriesFor(profile UserType, txType TransactionType) []Category {
	return taxonomy[taxonomyKey{profile, txType}]
}

// ProfileCategories returns every category visible to a profile, expenses
// first, the order the history filter selector shows them in.
func ProfileCategories(profile UserType) []Category {
	out := append([]Category(nil), CategoriesFor(profile, TypeExpense)...)
	return append(out, CategoriesFor(profile, TypeIncome)...)
}

// LookupCategory finds a category by id within the lists implied by the
// profile and type. The bool reports whether the id is still in the taxonomy.
func LookupCategory(profile UserType, txType TransactionType, id string) (Category, bool) {
	for _, c := range CategoriesFor(profile, txType) {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ResolveGlyph returns the icon for a transaction's category, falling back to
// a fixed per-type glyph when the id is not in the active taxonomy. It never
// fails: orphaned category ids are an expected case.
func ResolveGlyph(tx Transaction, profile UserType) string {
	if c, ok := LookupCategory(profile, tx.Type, tx.Category); ok {
		return c.Icon
	}
	if tx.Type == TypeIncome {
		return FallbackIncomeIcon
	}
	return FallbackExpenseIcon
}

// ResolveName returns the display name for a transaction's category, or the
// raw category id when there is no match.
func ResolveName(tx Transaction, profile UserType) string {
	if c, ok := LookupCategory(profile, tx.Type, tx.Category); ok {
		return c.Name
	}
	return tx.Category
}

// DefaultCategoryID is the preselected category for the add-transaction form.
func DefaultCategoryID(profile UserType, txType TransactionType) string {
	list := CategoriesFor(profile, txType)
	if len(list) == 0 {
		return GenericCategoryID
	}
	return list[0].ID
}
