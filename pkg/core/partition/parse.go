package partition

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Student and room CSV columns.
const (
	NameColumn     = "Name"
	RoomColumn     = "Room"
	CapacityColumn = "Capacity"
)

// ParseStudents reads student names from a CSV with a Name column.
func ParseStudents(r io.Reader) ([]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read student csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("student csv is empty")
	}

	nameCol := -1
	for i, header := range records[0] {
		if header == NameColumn {
			nameCol = i
			break
		}
	}
	if nameCol == -1 {
		return nil, fmt.Errorf("student csv must have column %q", NameColumn)
	}

	var students []string
	for _, row := range records[1:] {
		if nameCol < len(row) {
			students = append(students, row[nameCol])
		}
	}

	return students, nil
}

// ParseRooms reads room capacities from a CSV with Room and Capacity
// columns.
func ParseRooms(r io.Reader) ([]Room, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read room csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("room csv is empty")
	}

	roomCol, capacityCol := -1, -1
	for i, header := range records[0] {
		switch header {
		case RoomColumn:
			roomCol = i
		case CapacityColumn:
			capacityCol = i
		}
	}
	if roomCol == -1 {
		return nil, fmt.Errorf("room csv must have column %q", RoomColumn)
	}
	if capacityCol == -1 {
		return nil, fmt.Errorf("room csv must have column %q", CapacityColumn)
	}

	var rooms []Room
	for rowNum, row := range records[1:] {
		if roomCol >= len(row) || capacityCol >= len(row) {
			return nil, fmt.Errorf("room csv row %d is missing columns", rowNum+2)
		}
		capacity, err := strconv.Atoi(row[capacityCol])
		if err != nil {
			return nil, fmt.Errorf("room %q has invalid capacity %q", row[roomCol], row[capacityCol])
		}
		rooms = append(rooms, Room{Name: row[roomCol], Capacity: capacity})
	}

	return rooms, nil
}
