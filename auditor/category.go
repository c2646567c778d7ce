package auditor

import "fmt"

// Category classifies what aspect of a pattern an audit finding concerns.
type Category string

const (
	// CategoryCompatibility covers weak or contradictory relationships
	// between chosen components.
	CategoryCompatibility Category = "compatibility"

	// CategoryLicensing covers license risks such as restrictive licenses
	// under commercial use or mixing incompatible license families.
	CategoryLicensing Category = "licensing"

	// CategorySecurity covers components with a poor security track record
	// and missing security-relevant roles.
	CategorySecurity Category = "security"

	// CategoryArchitecture covers structural concerns such as duplicated
	// capability coverage or missing operational roles.
	CategoryArchitecture Category = "architecture"
)

// IsValid returns true if the category is valid.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCompatibility, CategoryLicensing, CategorySecurity, CategoryArchitecture:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category value.
// Returns an error if the string is not a valid category.
func ParseCategory(s string) (Category, error) {
	category := Category(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return category, nil
}

// AllCategories returns all valid categories.
func AllCategories() []Category {
	return []Category{
		CategoryCompatibility,
		CategoryLicensing,
		CategorySecurity,
		CategoryArchitecture,
	}
}
