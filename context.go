// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"fmt"
	"reflect"
)

// MissingServiceError is the error GetService returns when it looks up a
// type that was never registered.
type MissingServiceError struct {
	Type reflect.Type
}

func (e *MissingServiceError) Error() string {
	return fmt.Sprintf("effect: missing service %s in context", e.Type)
}

// Context is an immutable, type-keyed mapping from service type to
// service instance. Add returns a new Context; the receiver is never
// mutated, so a Context may be shared freely across fibers.
type Context struct {
	services map[reflect.Type]any
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{services: map[reflect.Type]any{}}
}

// serviceKey computes the type-key for T, used uniformly by Add/Get/Has.
func serviceKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// AddService returns a new Context with value registered under type T.
// Later registrations of the same type shadow earlier ones.
func AddService[T any](c *Context, value T) *Context {
	next := &Context{services: make(map[reflect.Type]any, len(c.services)+1)}
	for k, v := range c.services {
		next.services[k] = v
	}
	next.services[serviceKey[T]()] = value
	return next
}

// GetService looks up the service registered for type T. Lookup failure
// returns a *MissingServiceError.
func GetService[T any](c *Context) (T, error) {
	var zero T
	if c == nil {
		return zero, &MissingServiceError{Type: serviceKey[T]()}
	}
	v, ok := c.services[serviceKey[T]()]
	if !ok {
		return zero, &MissingServiceError{Type: serviceKey[T]()}
	}
	return v.(T), nil
}

// HasService reports whether T is registered in c.
func HasService[T any](c *Context) bool {
	if c == nil {
		return false
	}
	_, ok := c.services[serviceKey[T]()]
	return ok
}

// Merge returns a new Context containing both c's and other's entries;
// on key collision, other's entry wins (the "later-added wins" rule
// spec.md leaves as an explicit, deliberate policy — see DESIGN.md).
func Merge(c, other *Context) *Context {
	next := &Context{services: make(map[reflect.Type]any, len(c.services)+len(other.services))}
	for k, v := range c.services {
		next.services[k] = v
	}
	for k, v := range other.services {
		next.services[k] = v
	}
	return next
}
