package domain

// TablesNeeded returns ceil(people / capacity). Non-positive inputs need no tables.
func TablesNeeded(people, capacity int) int {
	if people <= 0 || capacity <= 0 {
		return 0
	}
	return (people + capacity - 1) / capacity
}
