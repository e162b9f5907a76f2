package validator

import "fmt"

// Indexed formats a field path template such as "items[%d].quantity".
func Indexed(format string, i int) string {
	return fmt.Sprintf(format, i)
}
