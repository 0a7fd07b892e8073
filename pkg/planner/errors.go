// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"
	"sort"
	"strings"
)

// UnresolvedDependencyError reports that Order could not make progress:
// every remaining node has at least one dependency pointer whose target
// never appears in the node set, almost always a typo'd table/column
// name or a foreign key pointing outside the schema under load.
type UnresolvedDependencyError struct {
	Remaining []string
}

func (e UnresolvedDependencyError) Error() string {
	keys := append([]string(nil), e.Remaining...)
	sort.Strings(keys)
	return fmt.Sprintf("planner: unresolved dependency among: %s", strings.Join(keys, ", "))
}
