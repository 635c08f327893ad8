package graph

import (
	"fmt"
	"strings"
)

// CycleError is returned when the dependency graph contains a cycle,
// Tasks holds one cycle path as a witness, first and last item are the same task.
type CycleError struct {
	Tasks []string
}

func (e *CycleError) Error() string {
	if len(e.Tasks) == 0 {
		return "circular dependency detected"
	}
	return fmt.Sprintf(`circular dependency detected: "%s"`, strings.Join(e.Tasks, `" -> "`))
}

type DuplicateTaskError struct {
	Name string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf(`duplicate task name "%s"`, e.Name)
}

type UnknownDependencyError struct {
	Task       string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf(`task "%s" depends on unknown task "%s"`, e.Task, e.Dependency)
}
