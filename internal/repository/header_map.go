package repository

import (
	"fmt"
	"strings"
)

// createHeaderMap maps each expected column to its index in header
func createHeaderMap(header []string, expectedHeader []string) (map[string]int, error) {
	columnMap := make(map[string]int, len(expectedHeader))

	for _, column := range expectedHeader {
		found := false
		for i, field := range header {
			if strings.EqualFold(column, field) {
				columnMap[column] = i
				found = true
				break
			}
		}

		if !found {
			return nil, fmt.Errorf("required field '%s' not found in CSV header", column)
		}
	}

	return columnMap, nil
}

// maxColumn is the highest index a row must reach to hold every mapped column
func maxColumn(columnMap map[string]int) int {
	maxIndex := -1
	for _, idx := range columnMap {
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	return maxIndex
}
