package types

import "fmt"

// BoardColumn represents the visual lane of a work item on the sprint
// board. Columns are unordered: any column may be reached from any
// other in a single move.
type BoardColumn string

const (
	BoardColumnToDo       BoardColumn = "TO_DO"
	BoardColumnInProgress BoardColumn = "IN_PROGRESS"
	BoardColumnReview     BoardColumn = "REVIEW"
	BoardColumnDone       BoardColumn = "DONE"
)

// EntryColumn is the column every member item is (re)initialized to
// when its iteration starts.
const EntryColumn = BoardColumnToDo

// AllBoardColumns returns all valid board columns
func AllBoardColumns() []BoardColumn {
	return []BoardColumn{
		BoardColumnToDo,
		BoardColumnInProgress,
		BoardColumnReview,
		BoardColumnDone,
	}
}

// IsValid checks if the board column is valid
func (c BoardColumn) IsValid() bool {
	switch c {
	case BoardColumnToDo,
		BoardColumnInProgress,
		BoardColumnReview,
		BoardColumnDone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the board column
func (c BoardColumn) String() string {
	return string(c)
}

// ParseBoardColumn parses a string into a BoardColumn
func ParseBoardColumn(s string) (BoardColumn, error) {
	column := BoardColumn(s)
	if !column.IsValid() {
		return "", fmt.Errorf("invalid board column: %s", s)
	}
	return column, nil
}
