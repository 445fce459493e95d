//go:build unit || e2e

package testutil

// Field returns a DtoMap mutation that sets key to value. A nil value
// removes the key entirely, which is how "field missing" cases are built.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}
