package model

// Category is a film genre row from the `category` table.  Categories
// have an independent lifecycle: deactivating or deleting one never
// deletes films, it only detaches the join rows.
type Category struct {
	ID       uint64 `json:"id"`           // category.id
	Name     string `json:"categoryName"` // category.category_name
	IsActive bool   `json:"isActive"`     // category.is_active
}
