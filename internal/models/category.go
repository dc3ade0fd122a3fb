package models

// DefaultCategoryColor is used for categories created without a color and for
// the synthetic Uncategorized bucket in analytics.
const DefaultCategoryColor = "#6B7280"

// Category is shared reference data used to classify expenses and scope
// budgets. Categories are not owned by a user.
type Category struct {
	Base
	Name  string `gorm:"size:100;not null" json:"name"`
	Color string `gorm:"size:7;not null;default:'#6B7280'" json:"color"`
	Icon  string `gorm:"size:50" json:"icon,omitempty"`
}

// DefaultCategory is a seed entry created on first start.
type DefaultCategory struct {
	Name  string
	Color string
	Icon  string
}

// DefaultCategories are aligned with the categorization labels so that AI
// suggestions resolve to an existing category.
var DefaultCategories = []DefaultCategory{
	{Name: "Food & Dining", Color: "#F97316", Icon: "utensils"},
	{Name: "Transportation", Color: "#3B82F6", Icon: "car"},
	{Name: "Shopping", Color: "#EC4899", Icon: "shopping-bag"},
	{Name: "Entertainment", Color: "#8B5CF6", Icon: "film"},
	{Name: "Bills & Utilities", Color: "#EAB308", Icon: "receipt"},
	{Name: "Healthcare", Color: "#EF4444", Icon: "heart-pulse"},
	{Name: "Education", Color: "#14B8A6", Icon: "book"},
	{Name: "Other", Color: DefaultCategoryColor, Icon: "tag"},
}
