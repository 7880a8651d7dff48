package routes

import (
	"fmt"
	"strings"
)

// Validator checks a route table for structural problems.
// Neither producer runs it implicitly; callers opt in.
type Validator struct {
	routes []*RouteNode
	errors []ValidationError
}

// ValidationError is one problem found in a route table.
type ValidationError struct {
	Type    ValidationErrorType
	Message string

	// Path is the route path of the offending node.
	Path string

	// Components lists the component of every node involved.
	Components []string
}

func (e ValidationError) Error() string {
	if len(e.Components) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, strings.Join(e.Components, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType names the kind of problem.
type ValidationErrorType string

const (
	// ErrorDuplicateRoute indicates siblings with the same literal path.
	// Example: about.js and about.tsx both resolve to /about
	ErrorDuplicateRoute ValidationErrorType = "DUPLICATE_ROUTE"

	// ErrorInvalidShape indicates a node that is neither a leaf nor a layout,
	// or claims to be both.
	ErrorInvalidShape ValidationErrorType = "INVALID_SHAPE"

	// ErrorInvalidPath indicates a path that does not start with "/".
	ErrorInvalidPath ValidationErrorType = "INVALID_PATH"
)

// MultiValidationError collects every problem found in one pass.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// NewValidator returns a validator for routes.
func NewValidator(routes []*RouteNode) *Validator {
	return &Validator{routes: routes}
}

// Validate walks the whole tree and returns a *MultiValidationError holding
// every problem, or nil.
func (v *Validator) Validate() error {
	v.errors = nil
	v.validateLevel(v.routes)

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// Validate is shorthand for NewValidator(routes).Validate().
func Validate(routes []*RouteNode) error {
	return NewValidator(routes).Validate()
}

// validateLevel checks one sibling sequence, then recurses into layouts.
func (v *Validator) validateLevel(siblings []*RouteNode) {
	byPath := make(map[string][]*RouteNode)
	var order []string

	for _, node := range siblings {
		if node == nil {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorInvalidShape,
				Message: "Route entry is null",
			})
			continue
		}

		v.validateNode(node)

		if _, seen := byPath[node.Path]; !seen {
			order = append(order, node.Path)
		}
		byPath[node.Path] = append(byPath[node.Path], node)

		if node.Routes != nil {
			v.validateLevel(node.Routes)
		}
	}

	for _, path := range order {
		nodes := byPath[path]
		if len(nodes) <= 1 {
			continue
		}
		components := make([]string, len(nodes))
		for i, n := range nodes {
			components[i] = n.Component
		}
		v.errors = append(v.errors, ValidationError{
			Type:       ErrorDuplicateRoute,
			Message:    fmt.Sprintf("Duplicate route detected at %s", path),
			Path:       path,
			Components: components,
		})
	}
}

func (v *Validator) validateNode(node *RouteNode) {
	if !strings.HasPrefix(node.Path, "/") {
		v.errors = append(v.errors, ValidationError{
			Type:       ErrorInvalidPath,
			Message:    fmt.Sprintf("Route path %q must start with /", node.Path),
			Path:       node.Path,
			Components: nonEmpty(node.Component),
		})
	}

	switch {
	case node.Exact && node.Routes != nil:
		v.errors = append(v.errors, ValidationError{
			Type:       ErrorInvalidShape,
			Message:    fmt.Sprintf("Route %s is exact but has nested routes", node.Path),
			Path:       node.Path,
			Components: nonEmpty(node.Component),
		})
	case !node.Exact && node.Routes == nil:
		v.errors = append(v.errors, ValidationError{
			Type:       ErrorInvalidShape,
			Message:    fmt.Sprintf("Route %s is neither exact nor a layout with nested routes", node.Path),
			Path:       node.Path,
			Components: nonEmpty(node.Component),
		})
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
