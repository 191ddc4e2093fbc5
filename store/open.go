package store

import "fmt"

// Open constructs the backend named by driver ("sqlite" or "file").
func Open(driver, path string, opts Options) (Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLite(path, opts)
	case "file":
		return NewFile(path, opts)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
