// Package shared holds utilities used across the GridPulse codebase
// that belong to no specific domain layer. Keep it small: test helpers
// under testutil, nothing with business logic, and no dependencies on
// other internal packages.
package shared
