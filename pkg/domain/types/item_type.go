package types

import "fmt"

// ItemType is a free-form classification of a work item. It has no
// behavioral significance in the workflow.
type ItemType string

const (
	ItemTypeStory         ItemType = "STORY"
	ItemTypeEpic          ItemType = "EPIC"
	ItemTypeBug           ItemType = "BUG"
	ItemTypeTechnicalTask ItemType = "TECHNICAL_TASK"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeStory,
		ItemTypeEpic,
		ItemTypeBug,
		ItemTypeTechnicalTask:
		return true
	default:
		return false
	}
}

// String returns the string representation of the item type
func (t ItemType) String() string {
	return string(t)
}

// ParseItemType parses a string into an ItemType
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid item type: %s", s)
	}
	return t, nil
}
